package engine

import "liuime/internal/dict"

// session holds the mutable composition state: the code buffer, the active
// candidate set with its page index, and an optional pending selection
// awaiting a commit key. Owned by the Dispatcher; never shared.
type session struct {
	buffer        []byte
	candidates    []string
	page          int
	pending       string
	pendingSource string
	hasPending    bool
}

func (s *session) code() string {
	return string(s.buffer)
}

func (s *session) empty() bool {
	return len(s.buffer) == 0
}

// append adds one code character. Returns false when the buffer is full.
// Any pending selection is invalidated by editing the code.
func (s *session) append(ch byte) bool {
	if len(s.buffer) >= dict.MaxCodeLen {
		return false
	}
	s.buffer = append(s.buffer, ch)
	s.clearPending()
	return true
}

// deleteLast removes the most recent code character, if any. The pending
// selection is invalidated for the same reason as append.
func (s *session) deleteLast() {
	if len(s.buffer) > 0 {
		s.buffer = s.buffer[:len(s.buffer)-1]
	}
	s.clearPending()
}

// setCandidates replaces the active candidate set and resets paging.
func (s *session) setCandidates(cands []string) {
	s.candidates = cands
	s.page = 0
}

func (s *session) setPending(text, source string) {
	s.pending = text
	s.pendingSource = source
	s.hasPending = true
}

func (s *session) clearPending() {
	s.pending = ""
	s.pendingSource = ""
	s.hasPending = false
}

// clear resets the whole composition.
func (s *session) clear() {
	s.buffer = s.buffer[:0]
	s.candidates = nil
	s.page = 0
	s.clearPending()
}
