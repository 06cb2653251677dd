package errframe

import (
	"encoding/binary"
	"io"
	"syscall"

	"ertgo/errs"
)

// Freeze writes the current open sequence to w as a 4-byte length
// followed by that many frame records, and returns the number of
// frames written. Because each Frame carries Go string values (and not
// the raw file/function/description pointers original_source froze),
// Freeze/Thaw remain meaningful only within a single run of the same
// binary image — the property spec.md §6 requires, expressed without a
// raw pointer to serialize.
func Freeze(w io.Writer) (int, error) {
	frames := Frames()

	if err := binary.Write(w, binary.LittleEndian, uint32(len(frames))); err != nil {
		return 0, errs.WrapDetail(errs.ErrFrameShortWrite, errs.KindProtocol, "errframe.Freeze", err.Error())
	}

	for _, f := range frames {
		if err := writeFrame(w, f); err != nil {
			return 0, errs.WrapDetail(errs.ErrFrameShortWrite, errs.KindProtocol, "errframe.Freeze", err.Error())
		}
	}
	return len(frames), nil
}

func writeFrame(w io.Writer, f Frame) error {
	if err := writeString(w, f.File); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(f.Line)); err != nil {
		return err
	}
	if err := writeString(w, f.Func); err != nil {
		return err
	}
	if err := writeString(w, f.Desc); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(f.Errno)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, f.Seq.Gid); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, f.Seq.SeqIndex)
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// Thaw reads a sequence written by Freeze, restarts the calling
// goroutine's current sequence, and re-adds every thawed frame
// preserving its original sequence id. It always returns a non-nil
// error wrapping the last frame's errno, the Go analogue of
// ert_thawErrorFrameSequence_ returning -1 to propagate the thaw itself
// as a fresh failure.
func Thaw(r io.Reader) error {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return errs.WrapDetail(errs.ErrFrameShortRead, errs.KindProtocol, "errframe.Thaw", err.Error())
	}

	frames := make([]Frame, length)
	for i := range frames {
		f, err := readFrame(r)
		if err != nil {
			return errs.WrapDetail(errs.ErrFrameShortRead, errs.KindProtocol, "errframe.Thaw", err.Error())
		}
		frames[i] = f
	}

	Restart()
	st := current()
	for _, f := range frames {
		slot := st.appendSlot()
		*slot = f
		st.tailOffset++
	}

	if length == 0 {
		return errs.New(errs.KindProtocol, "errframe.Thaw", "thawed an empty sequence")
	}
	last := frames[length-1]
	return &errs.Error{
		Op:     "errframe.Thaw",
		Kind:   errs.KindIO,
		Detail: last.Desc,
		Err:    syscall.Errno(last.Errno),
	}
}

func readFrame(r io.Reader) (Frame, error) {
	var f Frame

	file, err := readString(r)
	if err != nil {
		return f, err
	}
	var line uint32
	if err := binary.Read(r, binary.LittleEndian, &line); err != nil {
		return f, err
	}
	fn, err := readString(r)
	if err != nil {
		return f, err
	}
	desc, err := readString(r)
	if err != nil {
		return f, err
	}
	var errno int32
	if err := binary.Read(r, binary.LittleEndian, &errno); err != nil {
		return f, err
	}
	var gid uint64
	if err := binary.Read(r, binary.LittleEndian, &gid); err != nil {
		return f, err
	}
	var seqIndex uint32
	if err := binary.Read(r, binary.LittleEndian, &seqIndex); err != nil {
		return f, err
	}

	f = Frame{
		File:  file,
		Line:  int(line),
		Func:  fn,
		Desc:  desc,
		Errno: int(errno),
		Seq:   SeqID{Gid: gid, SeqIndex: seqIndex},
	}
	return f, nil
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
