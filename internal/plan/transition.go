package plan

// Plan types. Predefined plans carry their destination from creation;
// custom plans resolve it through voting and own one extra state.
const (
	TypePredefined = 1
	TypeCustom     = 2
)

func terminalCode(planTypeID int) (int, bool) {
	switch planTypeID {
	case TypePredefined:
		return 2, true
	case TypeCustom:
		return 3, true
	default:
		return 0, false
	}
}

// ValidTransition reports whether a plan of the given type may move from
// current to next. Legal moves are a single forward step or a same-code
// no-op, which keeps retried requests harmless while ruling out skipped
// phases. Unknown plan types admit nothing.
func ValidTransition(planTypeID, current, next int) bool {
	terminal, ok := terminalCode(planTypeID)
	if !ok {
		return false
	}
	if current == next {
		return true
	}
	return current >= 0 && next == current+1 && next <= terminal
}
