package render

// Presenter writes a frame to the display
type Presenter interface {
	Present(frame []string) error
}

// sizer is implemented by presenters that know their dimensions
type sizer interface {
	Size() (width, height int)
}

// Engine builds frames with fixed options and presents them
type Engine struct {
	out  Presenter
	opts Options
}

// NewEngine binds a presenter to session options
func NewEngine(out Presenter, opts Options) *Engine {
	return &Engine{out: out, opts: opts}
}

// Render builds the frame for v and presents it.
// A presenter reporting its size limits the frame to its height.
func (e *Engine) Render(v View) error {
	opts := e.opts
	if sz, ok := e.out.(sizer); ok {
		// one row stays free for the parked cursor
		if _, h := sz.Size(); h > 1 {
			opts.Height = h - 1
		}
	}
	return e.out.Present(BuildFrame(v, opts))
}
