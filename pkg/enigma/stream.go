package enigma

import "io"

// Reader enciphers everything read from an underlying reader
type Reader struct {
	machine *Machine
	reader  io.Reader
}

// NewReader wraps r so that reads come back through m
func NewReader(r io.Reader, m *Machine) *Reader {
	return &Reader{machine: m, reader: r}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.machine.transform(p[:n])
	return n, err
}

// Writer enciphers everything written before passing it on. The rotors
// step over all of p before the underlying write, so after a failed or short
// write the stream position is lost and every later Write returns the same
// error.
type Writer struct {
	machine *Machine
	writer  io.Writer
	buf     []byte
	err     error
}

// NewWriter wraps w so that writes go through m first
func NewWriter(w io.Writer, m *Machine) *Writer {
	return &Writer{machine: m, writer: w}
}

// Write enciphers a copy of p; p itself is left untouched
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	w.buf = append(w.buf[:0], p...)
	w.machine.transform(w.buf)
	n, err := w.writer.Write(w.buf)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	w.err = err
	return n, err
}
