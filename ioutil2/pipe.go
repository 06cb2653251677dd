// Package ioutil2 provides the small file-descriptor primitives the core
// subsystems consume: a plain pipe, a one-byte "bell" ready-signal built on
// a unix socketpair, and a process-local temp file.
package ioutil2

import (
	"fmt"
	"os"

	"ertgo/errs"
)

// Pipe wraps a pair of *os.File from os.Pipe, used as ertgo's fork
// channel: the parent reads, the child writes.
type Pipe struct {
	reader *os.File
	writer *os.File
}

// NewPipe creates a new Pipe.
func NewPipe() (*Pipe, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, errs.Wrap(err, errs.KindResource, "ioutil2.NewPipe")
	}
	return &Pipe{reader: r, writer: w}, nil
}

// AdoptPipe wraps an already-open reader/writer pair as a Pipe,
// without creating a new os.Pipe. Used by a fork channel's child side
// to recover its write end from an inherited fd number; either end may
// be nil if the caller only needs the other direction.
func AdoptPipe(reader, writer *os.File) *Pipe {
	return &Pipe{reader: reader, writer: writer}
}

// Reader returns the read end of the pipe.
func (p *Pipe) Reader() *os.File { return p.reader }

// Writer returns the write end of the pipe.
func (p *Pipe) Writer() *os.File { return p.writer }

// CloseReader closes the read end.
func (p *Pipe) CloseReader() error {
	if p.reader == nil {
		return nil
	}
	err := p.reader.Close()
	p.reader = nil
	return err
}

// CloseWriter closes the write end.
func (p *Pipe) CloseWriter() error {
	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}

// Close closes both ends.
func (p *Pipe) Close() {
	p.CloseReader()
	p.CloseWriter()
}

// Send writes a result frame: a single zero byte on success, or the
// error's text on failure. The reader end distinguishes the two with
// Recv.
func (p *Pipe) Send(result error) error {
	if result == nil {
		_, err := p.writer.Write([]byte{0})
		return err
	}
	_, err := p.writer.Write([]byte(result.Error()))
	return err
}

// Recv reads a result frame sent by Send. A non-nil returned error wraps
// the message written by the failing side.
func (p *Pipe) Recv() error {
	buf := make([]byte, 1024)
	n, err := p.reader.Read(buf)
	if err != nil {
		return errs.Wrap(err, errs.KindIO, "ioutil2.Pipe.Recv")
	}
	if n > 0 && buf[0] != 0 {
		return errs.WrapDetail(errs.ErrForkChildFailed, errs.KindResource, "ioutil2.Pipe.Recv", string(buf[:n]))
	}
	return nil
}

// String renders the fd numbers of both ends, with -1 for an end that
// is closed or absent.
func (p *Pipe) String() string {
	return fmt.Sprintf("ioutil2.Pipe{reader=%d, writer=%d}", fdOf(p.reader), fdOf(p.writer))
}

func fdOf(f *os.File) int {
	if f == nil {
		return -1
	}
	return int(f.Fd())
}
