// Package resolve decides what to do when an imported playlist's name is
// already taken on the destination server. Resolution is a pure function of
// (target name, existing names, policy); the only suspension point is the
// Ask policy, which returns NeedsDecision and leaves the caller to supply a
// concrete policy for that one playlist.
package resolve

import "fmt"

// Policy selects the conflict handling strategy
type Policy int

const (
	// PolicyAsk defers the decision to the caller (interactive prompt)
	PolicyAsk Policy = iota
	// PolicyRename appends a numeric suffix until the name is free
	PolicyRename
	// PolicyOverwrite replaces the existing playlist's contents entirely
	PolicyOverwrite
	// PolicySkip leaves the existing playlist untouched and skips the import
	PolicySkip
)

// String returns a human-readable policy name
func (p Policy) String() string {
	switch p {
	case PolicyAsk:
		return "ask"
	case PolicyRename:
		return "rename"
	case PolicyOverwrite:
		return "overwrite"
	case PolicySkip:
		return "skip"
	default:
		return "unknown"
	}
}

// ActionKind classifies resolution outcomes
type ActionKind int

const (
	// ActionCreate creates a new playlist under Action.Name
	ActionCreate ActionKind = iota
	// ActionReplace replaces the contents of the existing playlist named
	// Action.Name; contents are replaced, never merged
	ActionReplace
	// ActionSkip skips this playlist because of a name collision
	ActionSkip
	// ActionNeedsDecision requires the caller to pick a concrete policy
	// before this playlist can proceed
	ActionNeedsDecision
)

// Action is the outcome of resolving one playlist name
type Action struct {
	Kind ActionKind
	Name string // Target name: new name for Create, existing name otherwise
}

// Resolve decides how to import a playlist named target given the set of
// names existing on the server. The result is deterministic for identical
// inputs: no randomness and no time-based tie-breaks.
func Resolve(target string, existing map[string]bool, policy Policy) Action {
	if !existing[target] {
		return Action{Kind: ActionCreate, Name: target}
	}

	switch policy {
	case PolicyRename:
		return Action{Kind: ActionCreate, Name: nextFreeName(target, existing)}
	case PolicyOverwrite:
		return Action{Kind: ActionReplace, Name: target}
	case PolicySkip:
		return Action{Kind: ActionSkip, Name: target}
	default:
		return Action{Kind: ActionNeedsDecision, Name: target}
	}
}

// nextFreeName appends the lowest numeric suffix, starting at " (2)", that
// does not collide with an existing name
func nextFreeName(target string, existing map[string]bool) string {
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", target, n)
		if !existing[candidate] {
			return candidate
		}
	}
}

// NameSet builds the lookup set Resolve expects from a list of names
func NameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
