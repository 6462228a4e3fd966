//go:build unix

package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type unixBackend struct {
	in      *os.File
	out     *os.File
	inFd    int
	outFd   int
	oldTerm *term.State

	// Bytes read but not yet handed out; a single read may return a whole escape sequence
	pending []byte
	buf     [64]byte
}

func newBackend() Backend {
	return &unixBackend{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

func (b *unixBackend) Init() error {
	if !term.IsTerminal(b.inFd) {
		return fmt.Errorf("stdin is not a terminal")
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return err
	}
	b.oldTerm = old
	return nil
}

func (b *unixBackend) Fini() {
	if b.oldTerm != nil {
		term.Restore(b.inFd, b.oldTerm)
		b.oldTerm = nil
	}
}

func (b *unixBackend) Size() (int, int) {
	w, h, err := term.GetSize(b.outFd)
	if err != nil {
		return 80, 24 // Fallback
	}
	return w, h
}

func (b *unixBackend) Write(p []byte) error {
	_, err := b.out.Write(p)
	return err
}

// ReadByte polls stdin so lookahead reads can give up after timeout
func (b *unixBackend) ReadByte(timeout time.Duration) (byte, bool, error) {
	if len(b.pending) > 0 {
		c := b.pending[0]
		b.pending = b.pending[1:]
		return c, true, nil
	}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}
	deadline := time.Now().Add(timeout)

	for {
		fds := []unix.PollFd{
			{Fd: int32(b.inFd), Events: unix.POLLIN},
		}

		n, err := unix.Poll(fds, ms)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				if timeout >= 0 {
					ms = int(time.Until(deadline) / time.Millisecond)
					if ms <= 0 {
						return 0, false, nil
					}
				}
				continue
			}
			return 0, false, err
		}

		if n == 0 {
			return 0, false, nil // Timeout
		}

		rn, err := unix.Read(b.inFd, b.buf[:])
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return 0, false, err
		}

		if rn == 0 {
			return 0, false, io.EOF
		}

		b.pending = append(b.pending[:0], b.buf[1:rn]...)
		return b.buf[0], true, nil
	}
}
