package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/danielpuglisi/kn-cli/catalog"
	"github.com/danielpuglisi/kn-cli/config"
	"github.com/danielpuglisi/kn-cli/editor"
	"github.com/danielpuglisi/kn-cli/grid"
	"github.com/danielpuglisi/kn-cli/input"
	"github.com/danielpuglisi/kn-cli/logger"
	"github.com/danielpuglisi/kn-cli/metrics"
	"github.com/danielpuglisi/kn-cli/persist"
	"github.com/danielpuglisi/kn-cli/render"
	"github.com/danielpuglisi/kn-cli/report"
	"github.com/danielpuglisi/kn-cli/roster"
	"github.com/danielpuglisi/kn-cli/scoring"
	"github.com/danielpuglisi/kn-cli/terminal"
)

const usage = `usage: kn [edit] [flags]
       kn report (--person <id|last name> | --all) [flags]
`

func main() {
	// Panic Recovery: Ensure terminal is reset even if the editor crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\n\x1b[31mKN CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if err := run(os.Args[1:], os.Stdout); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "kn: %v\n", err)
		}
		os.Exit(1)
	}
}

// options are the command line flags; only explicitly set ones override config
type options struct {
	configPath string

	person string
	all    bool
}

func run(args []string, stdout io.Writer) error {
	cmd := "edit"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	if cmd != "edit" && cmd != "report" {
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	var opts options
	fs := flag.NewFlagSet("kn "+cmd, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default $KN_CONFIG)")
	fs.String("roster", "", "roster CSV file")
	fs.String("catalog", "", "row catalog, YAML or TOML")
	fs.String("data", "", "data file; .db/.sqlite selects SQLite")
	fs.String("driver", "", "storage driver: auto, json, sqlite")
	fs.String("color", "", "color mode: auto, truecolor, 256, none")
	fs.String("keymap", "", "TOML key binding overrides")
	fs.Bool("log", false, "write a debug log file")
	fs.String("metrics", "", "write Prometheus metrics to this file on exit")
	if cmd == "report" {
		fs.StringVar(&opts.person, "person", "", "person id or last name")
		fs.BoolVar(&opts.all, "all", false, "report every person")
		fs.String("out", "", "report output directory")
		fs.String("date", "", "report date (default today)")
		fs.String("instructor", "", "instructor name")
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath, flagOverrides(fs))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closer, err := logger.Setup(cfg.LoggerConfig())
	if err != nil {
		return err
	}
	defer closer.Close()
	log, _ = logger.WithSession(log)

	ws, err := openWorkspace(cfg)
	if err != nil {
		return err
	}
	defer ws.gateway.Close()
	log.Info("workspace loaded",
		"command", cmd,
		"catalog", cfg.Catalog,
		"rows", ws.catalog.Len(),
		"roster", cfg.Roster,
		"people", ws.roster.Len(),
		"data", ws.gateway.Path(),
		"cells", ws.store.Len(),
	)

	if cmd == "report" {
		return runReport(cfg, ws, opts, stdout, log)
	}
	return runEdit(cfg, ws, log)
}

// flagFields maps flag names to config keys
var flagFields = map[string]string{
	"roster":     "roster",
	"catalog":    "catalog",
	"data":       "data",
	"driver":     "storage.driver",
	"color":      "theme.color_mode",
	"keymap":     "keymap",
	"log":        "log.enabled",
	"metrics":    "metrics.textfile",
	"out":        "report.out_dir",
	"date":       "report.date",
	"instructor": "report.instructor",
}

func flagOverrides(fs *flag.FlagSet) map[string]any {
	out := make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagFields[f.Name]
		if !ok {
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			out[key] = g.Get()
		} else {
			out[key] = f.Value.String()
		}
	})
	return out
}

type workspace struct {
	catalog *catalog.Catalog
	roster  *roster.Roster
	store   *grid.Store
	scorer  scoring.Scorer
	gateway *persist.Gateway
}

func openWorkspace(cfg *config.Config) (*workspace, error) {
	c, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	r, err := roster.Load(cfg.Roster, cfg.Columns())
	if err != nil {
		return nil, err
	}
	backend, err := persist.Open(cfg.Data, cfg.Storage.Driver)
	if err != nil {
		return nil, err
	}
	scorer := cfg.Scorer().ForCatalog(c)
	gw := persist.NewGateway(backend, c, scorer)
	store, err := gw.Load()
	if err != nil {
		_ = gw.Close()
		return nil, err
	}
	return &workspace{catalog: c, roster: r, store: store, scorer: scorer, gateway: gw}, nil
}

func runEdit(cfg *config.Config, ws *workspace, log *slog.Logger) error {
	keys, err := input.LoadKeyTable(cfg.Keymap)
	if err != nil {
		return err
	}
	session, err := editor.NewSession(ws.catalog, ws.roster, ws.store, ws.scorer)
	if err != nil {
		return err
	}
	stats := metrics.New()

	term := terminal.New(terminal.ParseColorMode(cfg.Theme.ColorMode))
	if err := term.Init(); err != nil {
		return fmt.Errorf("initialize terminal: %w", err)
	}

	engine := render.NewEngine(term, render.Options{
		Theme:      render.NewTheme(cfg.Theme.Highlight, term.ColorMode()),
		TitleWidth: cfg.Layout.TitleWidth,
		Help:       render.DefaultHelp,
	})
	loop := editor.NewLoop(session, term, input.NewMachineWithTable(keys), engine, ws.gateway,
		editor.WithLogger(log),
		editor.WithRecorder(stats),
	)

	runErr := loop.Run()
	term.Fini()

	if cfg.Metrics.Textfile != "" {
		if err := stats.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Error("write metrics", "path", cfg.Metrics.Textfile, "error", err)
		}
	}
	return runErr
}

func runReport(cfg *config.Config, ws *workspace, opts options, stdout io.Writer, log *slog.Logger) error {
	var people []*roster.Person
	switch {
	case opts.all:
		people = ws.roster.People
	case opts.person != "":
		people = ws.roster.Find(opts.person)
		if len(people) == 0 {
			return fmt.Errorf("no person matches %q", opts.person)
		}
	default:
		return fmt.Errorf("report needs --person or --all\n%s", usage)
	}

	gen := report.New(ws.catalog, ws.store, ws.scorer, report.Params{
		Date:       cfg.Report.Date,
		Instructor: cfg.Report.Instructor,
	})
	for _, p := range people {
		path, err := gen.Write(cfg.Report.OutDir, p)
		if err != nil {
			return err
		}
		log.Info("report written", "person", p.ID, "path", path)
		fmt.Fprintf(stdout, "Report generated: %s\n", path)
	}
	return nil
}
