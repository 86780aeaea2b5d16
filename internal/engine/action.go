package engine

// Mode decides whether keystrokes are consumed for composition or forwarded
// to the focused application untouched.
type Mode int

const (
	ModeIntercept Mode = iota
	ModePassthrough
)

func (m Mode) String() string {
	switch m {
	case ModeIntercept:
		return "intercept"
	case ModePassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// ParseMode resolves a mode name from config or IPC.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "intercept":
		return ModeIntercept, true
	case "passthrough":
		return ModePassthrough, true
	}
	return ModeIntercept, false
}

// ActionKind discriminates the dispatcher's verdict on a key event.
type ActionKind int

const (
	// ActionNone consumes the event with no visible effect.
	ActionNone ActionKind = iota

	// ActionCommit emits Text into the focused application.
	ActionCommit

	// ActionUpdate consumes the event and carries a new Display snapshot.
	ActionUpdate

	// ActionPassThrough forwards the event unmodified.
	ActionPassThrough

	// ActionQuit asks the host to shut the engine down.
	ActionQuit
)

// Commit sources, carried on ActionCommit for the stats journal.
const (
	CommitDefault    = "default"    // space/enter on the first candidate
	CommitComplement = "complement" // complement-code selection
	CommitDigit      = "digit"      // numbered selection
	CommitSymbol     = "symbol"     // symbol resolver
)

// Action is the dispatcher's verdict for one key event.
type Action struct {
	Kind    ActionKind
	Text    string  // set for ActionCommit
	Source  string  // set for ActionCommit
	Display Display // set for ActionUpdate
}

// Display is a render snapshot of the composition state. Candidates holds
// only the current page.
type Display struct {
	Code       string
	Pending    string
	Candidates []string
	Page       int
	Pages      int
	Total      int
	Mode       Mode
}

var (
	passThrough = Action{Kind: ActionPassThrough}
	noOp        = Action{Kind: ActionNone}
	quit        = Action{Kind: ActionQuit}
)

func commit(text, source string) Action {
	return Action{Kind: ActionCommit, Text: text, Source: source}
}
