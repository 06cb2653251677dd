package ioutil2

import (
	"os"
	"syscall"

	"ertgo/errs"
)

// Bell is a socketpair(AF_UNIX, SOCK_STREAM) pair used purely as a
// one-byte ready signal, the Go analogue of Ert_BellSocketPair.
//
// Unlike Pipe, a Bell is bidirectional: either end can ring the other.
// procfork uses one Bell per fork to let the child announce it has
// finished its pre-exec setup, independent of the fork channel's
// pass/fail result frame.
type Bell struct {
	parent *os.File
	child  *os.File
}

// NewBell creates a new Bell.
func NewBell() (*Bell, error) {
	fds, err := syscall.Socketpair(syscall.AF_UNIX, syscall.SOCK_STREAM, 0)
	if err != nil {
		return nil, errs.Wrap(err, errs.KindResource, "ioutil2.NewBell")
	}
	return &Bell{
		parent: os.NewFile(uintptr(fds[0]), "bell-parent"),
		child:  os.NewFile(uintptr(fds[1]), "bell-child"),
	}, nil
}

// AdoptBell wraps an already-open parent/child file pair as a Bell,
// without creating a new socketpair. Used by a fork channel's child
// side to recover its end from an inherited fd number.
func AdoptBell(parent, child *os.File) *Bell {
	return &Bell{parent: parent, child: child}
}

// ParentFile returns the parent-side end of the bell.
func (b *Bell) ParentFile() *os.File { return b.parent }

// ChildFile returns the child-side end of the bell.
func (b *Bell) ChildFile() *os.File { return b.child }

// CloseParent closes the parent-side end.
func (b *Bell) CloseParent() error {
	if b.parent == nil {
		return nil
	}
	err := b.parent.Close()
	b.parent = nil
	return err
}

// CloseChild closes the child-side end.
func (b *Bell) CloseChild() error {
	if b.child == nil {
		return nil
	}
	err := b.child.Close()
	b.child = nil
	return err
}

// Close closes both ends.
func (b *Bell) Close() {
	b.CloseParent()
	b.CloseChild()
}

// RingParent sends a one-byte ring from the parent end.
func (b *Bell) RingParent() error {
	return ring(b.parent)
}

// RingChild sends a one-byte ring from the child end.
func (b *Bell) RingChild() error {
	return ring(b.child)
}

// WaitParent blocks until a ring arrives on the parent end.
func (b *Bell) WaitParent() error {
	return wait(b.parent)
}

// WaitChild blocks until a ring arrives on the child end.
func (b *Bell) WaitChild() error {
	return wait(b.child)
}

func ring(f *os.File) error {
	_, err := f.Write([]byte{0})
	if err != nil {
		return errs.Wrap(err, errs.KindIO, "ioutil2.Bell.ring")
	}
	return nil
}

func wait(f *os.File) error {
	buf := make([]byte, 1)
	_, err := f.Read(buf)
	if err != nil {
		return errs.Wrap(err, errs.KindIO, "ioutil2.Bell.wait")
	}
	return nil
}
