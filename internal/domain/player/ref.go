package player

import "strings"

// Ref identifies a player by upstream id plus the canonical surname used
// for scorer matching. Predictions arrive in the long display convention
// ("First Last - TEAM POS") while the goal-event feed carries shorter
// forms, so both sides are reduced to the surname token before comparison.
type Ref struct {
	ID      string
	Surname string
}

func NewRef(id, displayName string) Ref {
	return Ref{
		ID:      strings.TrimSpace(id),
		Surname: CanonicalSurname(displayName),
	}
}

// CanonicalSurname reduces a player display string to its lowercase surname
// token. Everything after the " - " separator (team and position suffix) is
// discarded first. An empty or whitespace-only input canonicalizes to "".
func CanonicalSurname(display string) string {
	name, _, _ := strings.Cut(display, " - ")
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[len(fields)-1])
}

// MatchesName reports whether a free-text name canonicalizes to the same
// surname as r. Refs with empty surnames never match anything.
func (r Ref) MatchesName(display string) bool {
	if r.Surname == "" {
		return false
	}
	return r.Surname == CanonicalSurname(display)
}
