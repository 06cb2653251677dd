package errframe

import "sync"

// framesPerChunk bounds how many frames a chunk holds before Add
// allocates a new one. It is clamped to 2 in race-testing mode to
// exercise the chunk-overflow path on every other Add.
var framesPerChunk = 64

// SetTestMode shrinks the chunk size to 2 frames, the Go equivalent of
// original_source's TestLevelRace knob, so tests can exercise
// chunk-boundary crossing without needing dozens of frames.
func SetTestMode(enabled bool) {
	if enabled {
		framesPerChunk = 2
	} else {
		framesPerChunk = 64
	}
}

type chunk struct {
	frames []Frame
}

// iter locates a single frame slot: the chunkIdx'th chunk, frameIdx'th
// slot within it.
type iter struct {
	chunkIdx int
	frameIdx int
}

// stack is one of a goroutine's two per-kind frame logs.
type stack struct {
	chunks []*chunk

	headIter     iter
	headSeqIndex uint32

	tailIter   iter
	tailOffset int
}

func newStack() *stack {
	return &stack{chunks: []*chunk{{frames: make([]Frame, 0, framesPerChunk)}}}
}

// frameAt returns the frame stored at it.
func (s *stack) frameAt(it iter) *Frame {
	return &s.chunks[it.chunkIdx].frames[it.frameIdx]
}

// appendSlot grows the tail chunk (allocating a new one if full) and
// returns a pointer to the newly available slot, advancing tailIter
// past it.
func (s *stack) appendSlot() *Frame {
	c := s.chunks[s.tailIter.chunkIdx]
	if s.tailIter.frameIdx == len(c.frames) && len(c.frames) < cap(c.frames) {
		c.frames = c.frames[:len(c.frames)+1]
	} else if s.tailIter.frameIdx == cap(c.frames) {
		s.chunks = append(s.chunks, &chunk{frames: make([]Frame, 1, framesPerChunk)})
		s.tailIter = iter{chunkIdx: s.tailIter.chunkIdx + 1, frameIdx: 0}
		c = s.chunks[s.tailIter.chunkIdx]
	}

	slot := &c.frames[s.tailIter.frameIdx]
	s.tailIter.frameIdx++
	return slot
}

type goroutineState struct {
	current Kind
	stacks  [2]*stack
}

var (
	mu     sync.Mutex
	states = map[uint64]*goroutineState{}
)

func current() *stack {
	gid := goroutineID()

	mu.Lock()
	gs, ok := states[gid]
	if !ok {
		gs = &goroutineState{stacks: [2]*stack{newStack(), newStack()}}
		states[gid] = gs
	}
	mu.Unlock()

	return gs.stacks[gs.current]
}

func stateFor(gid uint64) *goroutineState {
	mu.Lock()
	defer mu.Unlock()
	gs, ok := states[gid]
	if !ok {
		gs = &goroutineState{stacks: [2]*stack{newStack(), newStack()}}
		states[gid] = gs
	}
	return gs
}

// Switch changes which stack (Thread or Signal) is current for the
// calling goroutine, and returns the previous kind. Used only by
// sigdispatch around signal delivery.
func Switch(kind Kind) Kind {
	gs := stateFor(goroutineID())

	mu.Lock()
	defer mu.Unlock()
	prev := gs.current
	gs.current = kind
	return prev
}

// Forget discards all frame state for the calling goroutine. It should
// be called when a long-lived worker goroutine is about to exit, the
// Go analogue of the per-thread destructor that unmaps chunks in
// original_source.
func Forget() {
	gid := goroutineID()
	mu.Lock()
	delete(states, gid)
	mu.Unlock()
}
