package segment

// State is the phase the driver is in while walking the stream.
type State int

const (
	// Scanning compares incoming frames against the stable reference.
	Scanning State = iota
	// ConfirmingChange counts how long a new candidate frame holds.
	ConfirmingChange
	// LookingAhead skips a stability threshold worth of seconds at a time.
	LookingAhead
	// LuckyPunchRecovery replays the skipped seconds after a jump overshot a cut.
	LuckyPunchRecovery
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case ConfirmingChange:
		return "confirming"
	case LookingAhead:
		return "looking-ahead"
	case LuckyPunchRecovery:
		return "lucky-punch"
	default:
		return "unknown"
	}
}
