package terminal

import "time"

// ByteReader yields raw input bytes one at a time.
// A negative timeout blocks until a byte arrives; ok is false when the timeout elapsed.
// io.EOF is returned once input is closed.
type ByteReader interface {
	ReadByte(timeout time.Duration) (b byte, ok bool, err error)
}

// Backend abstracts platform-specific terminal operations
type Backend interface {
	ByteReader

	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// Write writes raw bytes to the terminal output.
	Write(p []byte) error
}

// backendWriter adapts a Backend to io.Writer for buffered output
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
