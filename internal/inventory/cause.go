package inventory

import "fmt"

// CauseKind classifies the actor behind a mutation.
type CauseKind uint8

const (
	// CauseUnspecified is the zero value; events fire normally.
	CauseUnspecified CauseKind = iota
	// CauseSuppressed bypasses update events entirely and can never be cancelled.
	CauseSuppressed
	// CausePlayer marks a mutation initiated by a viewer through a grid.
	CausePlayer
	// CausePlugin marks a programmatic mutation.
	CausePlugin
)

func (k CauseKind) String() string {
	switch k {
	case CauseUnspecified:
		return "unspecified"
	case CauseSuppressed:
		return "suppressed"
	case CausePlayer:
		return "player"
	case CausePlugin:
		return "plugin"
	default:
		return fmt.Sprintf("CauseKind(%d)", uint8(k))
	}
}

// Cause is the context attached to a mutation and handed to update handlers.
type Cause struct {
	Kind CauseKind

	// Viewer identifies the acting viewer for CausePlayer.
	Viewer string

	// Action describes what happened: the click kind for player causes,
	// free-form detail for plugin causes.
	Action string
}

// Suppressed is the cause that skips the event contract.
var Suppressed = Cause{Kind: CauseSuppressed}

// PlayerCause returns a cause for a viewer-initiated mutation.
func PlayerCause(viewer, action string) Cause {
	return Cause{Kind: CausePlayer, Viewer: viewer, Action: action}
}

// PluginCause returns a cause for a programmatic mutation.
func PluginCause(detail string) Cause {
	return Cause{Kind: CausePlugin, Action: detail}
}

// IsSuppressed reports whether c bypasses update events.
func (c Cause) IsSuppressed() bool {
	return c.Kind == CauseSuppressed
}

func (c Cause) String() string {
	switch {
	case c.Viewer != "" && c.Action != "":
		return fmt.Sprintf("%s(%s:%s)", c.Kind, c.Viewer, c.Action)
	case c.Viewer != "":
		return fmt.Sprintf("%s(%s)", c.Kind, c.Viewer)
	case c.Action != "":
		return fmt.Sprintf("%s(%s)", c.Kind, c.Action)
	default:
		return c.Kind.String()
	}
}
