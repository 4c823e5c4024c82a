package guess

// Result classifies a guess against a session.
type Result int

const (
	// Wrong means the guess matched neither the target nor the group name.
	Wrong Result = iota
	// Partial means the guess matched the group name but not the target.
	Partial
	// Correct means the guess matched the target.
	Correct
)

// Classify normalizes raw input and compares it against the session's target
// and optional group name. Pure function, no session mutation.
func Classify(session *Session, raw string) Result {
	g := Normalize(raw)
	switch {
	case g == session.Target:
		return Correct
	case session.GroupName != "" && g == session.GroupName:
		return Partial
	default:
		return Wrong
	}
}
