package model

// Tribool is a three-valued boolean: Unset, True, or False. Unset means
// "inherit from the next layer up"; Go's zero value is Unset so a node
// built without touching a flag starts out inheriting by default.
type Tribool uint8

const (
	Unset Tribool = iota
	True
	False
)

// TriFromBool lifts a plain bool into a definite (non-Unset) Tribool.
func TriFromBool(b bool) Tribool {
	if b {
		return True
	}
	return False
}

// TriFromPtr lifts a *bool, treating nil as Unset.
func TriFromPtr(b *bool) Tribool {
	if b == nil {
		return Unset
	}
	return TriFromBool(*b)
}

// IsSet reports whether the flag has been explicitly given a value.
func (t Tribool) IsSet() bool {
	return t != Unset
}

// Bool returns the boolean value and whether it was set. ok is false
// when t is Unset, in which case value is false.
func (t Tribool) Bool() (value bool, ok bool) {
	switch t {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// BoolOr returns the resolved value, or fallback when Unset.
func (t Tribool) BoolOr(fallback bool) bool {
	if v, ok := t.Bool(); ok {
		return v
	}
	return fallback
}

// WithDefault fills t with def when t is Unset; otherwise t is returned
// unchanged. This is the node-level "inherit unless overridden" rule
// used by node.WithDefaults and the Preprocessor's default-flag step.
func (t Tribool) WithDefault(def Tribool) Tribool {
	if t == Unset {
		return def
	}
	return t
}

// Overlay merges two tri-state layers, preferring the higher-precedence
// (higher) layer whenever it carries a non-default value, and falling
// back to lower only when higher is Unset, so Unset never collapses
// into false. The External-Config Merger does not call it; it layers
// its *bool overrides with its own override-if-set pass.
func (higher Tribool) Overlay(lower Tribool) Tribool {
	if higher != Unset {
		return higher
	}
	return lower
}

func (t Tribool) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unset"
	}
}
