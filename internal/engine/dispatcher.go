package engine

import (
	"log/slog"

	"liuime/internal/dict"
	"liuime/internal/keymap"
)

// complementRank maps a complement-code letter to the 1-based candidate rank
// it selects for the code already in the buffer.
var complementRank = map[byte]int{
	'v': 2,
	'r': 3,
	's': 4,
	'f': 5,
	'w': 6,
}

// Options configures a Dispatcher. Zero values take defaults.
type Options struct {
	PageSize  int
	QuitKey   keymap.Key // KeyNone disables the quit key
	StartMode Mode
	Logger    *slog.Logger
}

// Dispatcher turns key events into Actions. It owns the session and the mode
// state machine. Not safe for concurrent use; the daemon serializes all calls
// behind one mutex.
type Dispatcher struct {
	dict     *dict.Dictionary
	pageSize int
	quitKey  keymap.Key
	log      *slog.Logger

	mode Mode
	sess session

	// Solitary-Shift detection: a tap toggles the mode only if no other
	// key went down while Shift was held.
	shiftDown    bool
	shiftChorded bool
	ctrlDown     bool
}

// NewDispatcher creates a dispatcher over an immutable dictionary.
func NewDispatcher(d *dict.Dictionary, opts Options) *Dispatcher {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Dispatcher{
		dict:     d,
		pageSize: opts.PageSize,
		quitKey:  opts.QuitKey,
		log:      opts.Logger,
		mode:     opts.StartMode,
	}
}

// Handle processes one key event and returns the verdict. Every path returns
// a well-defined Action; Handle never blocks and never errors.
func (dp *Dispatcher) Handle(ev keymap.Event) Action {
	// Self-generated events must never re-enter composition.
	if ev.Injected {
		return passThrough
	}

	if dp.quitKey != keymap.KeyNone && ev.Key == dp.quitKey && ev.Down {
		dp.log.Info("quit key pressed", "key", ev.Key.String())
		return quit
	}

	// Modifier bookkeeping runs in both modes; the solitary-Shift tap is
	// how the user gets back from Passthrough.
	switch ev.Key {
	case keymap.KeyCtrl:
		dp.ctrlDown = ev.Down
		return passThrough
	case keymap.KeyShift:
		return dp.handleShift(ev.Down)
	}

	if ev.Down && dp.shiftDown {
		dp.shiftChorded = true
	}

	// Key releases only matter to the modifier tracking above.
	if !ev.Down {
		return passThrough
	}

	// Chords and Ctrl shortcuts belong to the application.
	if ev.Ctrl || dp.ctrlDown || ev.Shift || dp.shiftDown {
		return passThrough
	}

	if dp.mode == ModePassthrough {
		return passThrough
	}

	switch {
	case ev.Key.IsDigit():
		return dp.handleDigit(ev.Key.Digit())
	case ev.Key.IsLetter():
		return dp.handleLetter(byte(ev.Key.Rune()))
	case ev.Key.IsSymbol():
		return dp.handleSymbol(byte(ev.Key.Rune()))
	}

	switch ev.Key {
	case keymap.KeySpace, keymap.KeyEnter:
		return dp.handleCommit()
	case keymap.KeyEscape:
		return dp.handleEscape()
	case keymap.KeyBackspace:
		return dp.handleBackspace()
	}

	// Function keys, navigation, locks: not ours.
	return passThrough
}

// handleShift tracks the solitary-tap gesture. The toggle fires on release,
// never on press, so a chord can still cancel it.
func (dp *Dispatcher) handleShift(down bool) Action {
	if down {
		dp.shiftDown = true
		dp.shiftChorded = false
		return passThrough
	}
	solitary := dp.shiftDown && !dp.shiftChorded
	dp.shiftDown = false
	if solitary {
		dp.toggleMode()
	}
	return passThrough
}

func (dp *Dispatcher) toggleMode() {
	if dp.mode == ModeIntercept {
		dp.mode = ModePassthrough
	} else {
		dp.mode = ModeIntercept
	}
	dp.sess.clear()
	dp.log.Info("mode toggled", "mode", dp.mode.String())
}

// handleDigit marks a candidate on the current page as pending. Keys 1-9
// select positions 1-9; 0 selects position 10. Out of range is a no-op.
func (dp *Dispatcher) handleDigit(n int) Action {
	idx := n - 1
	if n == 0 {
		idx = 9
	}
	page := pageSlice(dp.sess.candidates, dp.sess.page, dp.pageSize)
	if idx < 0 || idx >= len(page) {
		return noOp
	}
	dp.sess.setPending(page[idx], CommitDigit)
	return dp.update()
}

func (dp *Dispatcher) handleLetter(ch byte) Action {
	if !dp.sess.empty() {
		if rank, ok := complementRank[ch]; ok {
			return dp.handleComplement(ch, rank)
		}
	}
	return dp.appendAndLookup(ch)
}

// handleComplement applies the disambiguation precedence for a complement
// letter: an exact match on the extended code wins, then a viable longer
// prefix, and only then does the letter select a rank of the current code.
func (dp *Dispatcher) handleComplement(ch byte, rank int) Action {
	code := dp.sess.code()
	extended := code + string(ch)
	if len(dp.dict.Lookup(extended)) > 0 {
		return dp.appendAndLookup(ch)
	}
	if len(extended) < dict.MaxCodeLen && dp.dict.HasLongerPrefix(extended) {
		return dp.appendAndLookup(ch)
	}
	cands := dp.dict.Lookup(code)
	if len(cands) < rank {
		return dp.appendAndLookup(ch)
	}
	dp.sess.setPending(cands[rank-1], CommitComplement)
	return dp.update()
}

// appendAndLookup is the plain composition step: extend the buffer and
// refresh the candidate set. A full buffer swallows the key.
func (dp *Dispatcher) appendAndLookup(ch byte) Action {
	if !dp.sess.append(ch) {
		return noOp
	}
	dp.refreshLookup()
	return dp.update()
}

// handleSymbol resolves punctuation through the dictionary. A non-empty
// buffer first tries the combined code without consuming the buffer; on a
// miss the symbol joins the buffer so multi-symbol chains keep building.
func (dp *Dispatcher) handleSymbol(ch byte) Action {
	if code := dp.sess.code(); code != "" {
		if cands := dp.dict.Lookup(code + string(ch)); len(cands) > 0 {
			dp.sess.setCandidates(cands)
			dp.sess.setPending(cands[0], CommitSymbol)
			return dp.update()
		}
	}
	if !dp.sess.append(ch) {
		return noOp
	}
	dp.refreshLookup()
	if len(dp.sess.candidates) == 0 {
		// Raw symbol stays buffered, awaiting a longer combination.
		return noOp
	}
	dp.sess.setPending(dp.sess.candidates[0], CommitSymbol)
	return dp.update()
}

// handleCommit emits the pending selection, else the first candidate of the
// current lookup. With nothing composed at all, the key belongs to the
// application.
func (dp *Dispatcher) handleCommit() Action {
	if dp.sess.hasPending {
		text, source := dp.sess.pending, dp.sess.pendingSource
		dp.sess.clear()
		return commit(text, source)
	}
	if dp.sess.empty() {
		return passThrough
	}
	if len(dp.sess.candidates) > 0 {
		text := dp.sess.candidates[0]
		dp.sess.clear()
		return commit(text, CommitDefault)
	}
	dp.sess.clear()
	return dp.update()
}

func (dp *Dispatcher) handleEscape() Action {
	if dp.sess.empty() && !dp.sess.hasPending {
		return passThrough
	}
	dp.sess.clear()
	return dp.update()
}

func (dp *Dispatcher) handleBackspace() Action {
	if dp.sess.empty() {
		return passThrough
	}
	dp.sess.deleteLast()
	dp.refreshLookup()
	return dp.update()
}

func (dp *Dispatcher) refreshLookup() {
	if dp.sess.empty() {
		dp.sess.setCandidates(nil)
		return
	}
	dp.sess.setCandidates(dp.dict.Lookup(dp.sess.code()))
}

func (dp *Dispatcher) update() Action {
	return Action{Kind: ActionUpdate, Display: dp.snapshot()}
}

func (dp *Dispatcher) snapshot() Display {
	total := len(dp.sess.candidates)
	return Display{
		Code:       dp.sess.code(),
		Pending:    dp.sess.pending,
		Candidates: pageSlice(dp.sess.candidates, dp.sess.page, dp.pageSize),
		Page:       clampPage(dp.sess.page, total, dp.pageSize),
		Pages:      pageCount(total, dp.pageSize),
		Total:      total,
		Mode:       dp.mode,
	}
}

// NextPage advances the candidate page, clamping at the last page.
func (dp *Dispatcher) NextPage() Action {
	dp.sess.page = clampPage(dp.sess.page+1, len(dp.sess.candidates), dp.pageSize)
	return dp.update()
}

// PrevPage steps the candidate page back, clamping at zero.
func (dp *Dispatcher) PrevPage() Action {
	dp.sess.page = clampPage(dp.sess.page-1, len(dp.sess.candidates), dp.pageSize)
	return dp.update()
}

// SetPageSize changes the candidate page size and resets paging. A pending
// selection survives; it holds text, not a page position.
func (dp *Dispatcher) SetPageSize(n int) {
	if n <= 0 {
		n = DefaultPageSize
	}
	dp.pageSize = n
	dp.sess.page = 0
}

// Reset drops all composition state. The mode is unchanged.
func (dp *Dispatcher) Reset() {
	dp.sess.clear()
}

// Mode returns the current mode.
func (dp *Dispatcher) Mode() Mode {
	return dp.mode
}

// SetMode forces a mode, clearing any composition in progress.
func (dp *Dispatcher) SetMode(m Mode) {
	if m != dp.mode {
		dp.mode = m
		dp.log.Info("mode set", "mode", m.String())
	}
	dp.sess.clear()
}

// SetDictionary swaps in a freshly loaded dictionary and resets the session.
// The caller builds the dictionary off the dispatch path.
func (dp *Dispatcher) SetDictionary(d *dict.Dictionary) {
	dp.dict = d
	dp.sess.clear()
	dp.log.Info("dictionary swapped", "entries", d.Len())
}

// Dictionary returns the active dictionary.
func (dp *Dispatcher) Dictionary() *dict.Dictionary {
	return dp.dict
}

// BufferLen reports the current code buffer length, for status queries.
func (dp *Dispatcher) BufferLen() int {
	return len(dp.sess.buffer)
}

// Snapshot returns the current display state without consuming an event.
func (dp *Dispatcher) Snapshot() Display {
	return dp.snapshot()
}
