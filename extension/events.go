// events.go defines the event types for extension notifications.
//
// Separated from extension.go to isolate the event system. Events enable
// extensions to react to catalogue and reference changes without modifying
// core logic.
//
// Design: Events are fire-and-forget notifications, not approval requests.
// Extensions cannot block or veto operations via events - they observe
// after the fact. Validation happens before the operation, through rulesets;
// events fire after it succeeds. If approval workflows are needed, a
// separate hook system should be added.

package extension

// EventType identifies the kind of event.
type EventType string

const (
	EventObjectAdd       EventType = "object:add"
	EventObjectRemove    EventType = "object:remove"
	EventObjectRestore   EventType = "object:restore"
	EventReferenceCreate EventType = "reference:create"
	EventReferenceRemove EventType = "reference:remove"
)

// Event is the base interface for all events.
type Event interface {
	EventType() EventType
	EventPath() string
}

// ObjectEvent is fired after an object is added to, removed from, or
// restored in the catalogue. The ref extension listens for removals to
// soft-delete references whose endpoint just disappeared.
type ObjectEvent struct {
	Path string
	Kind string
	Type EventType
}

func (e ObjectEvent) EventType() EventType { return e.Type }
func (e ObjectEvent) EventPath() string    { return e.Path }

// ReferenceEvent is fired after a reference is created or removed.
type ReferenceEvent struct {
	ID         string
	Ruleset    string
	SourcePath string
	TargetPath string
	Created    bool // true=created, false=removed
}

func (e ReferenceEvent) EventType() EventType {
	if e.Created {
		return EventReferenceCreate
	}
	return EventReferenceRemove
}
func (e ReferenceEvent) EventPath() string { return e.SourcePath }

// EventHandler is implemented by extensions that want to receive events.
type EventHandler interface {
	HandleEvent(ctx Context, e Event) error
}
