package effects

// MorningCleanup runs the start-of-day hook of every effect in stacks.
// Dispatch iterates over a copy, so a hook may delete itself or others;
// effects removed earlier in the same pass are skipped.
func MorningCleanup(sw Switch, stacks ...*Stack) {
	dispatch(stacks, func(e *Effect) { e.MorningCleanup(sw) })
}

// EveningCleanup runs the end-of-day hook of every effect in stacks.
func EveningCleanup(sw Switch, stacks ...*Stack) {
	dispatch(stacks, func(e *Effect) { e.EveningCleanup(sw) })
}

func dispatch(stacks []*Stack, fn func(e *Effect)) {
	var pending []*Effect
	for _, s := range stacks {
		if s == nil {
			continue
		}
		pending = append(pending, s.effects...)
	}
	for _, e := range pending {
		if !e.Attached() {
			continue
		}
		fn(e)
	}
}
