package errframe

import (
	"bytes"
	"runtime"
	"strconv"
)

// GoroutineID exports goroutineID for other packages that need the
// same per-goroutine identity (applock's recursive lock, in
// particular) without re-implementing the runtime.Stack parse.
func GoroutineID() uint64 {
	return goroutineID()
}

// goroutineID extracts the numeric id Go prints in a goroutine's own
// stack dump ("goroutine 37 [running]:"). The runtime does not expose
// this id through any supported API; parsing runtime.Stack's own
// output is the standard workaround used when a per-goroutine key is
// needed without threading a context value through every call.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(b, []byte(prefix)) {
		return 0
	}
	b = b[len(prefix):]

	end := bytes.IndexByte(b, ' ')
	if end < 0 {
		return 0
	}

	id, err := strconv.ParseUint(string(b[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
