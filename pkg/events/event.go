package events

import "time"

// Actions shared by every entity kind.
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionImported = "imported"
)

// Names of events that are specific to one kind.
const (
	ThemeActivated        = "theme.activated"
	ProfileActivated      = "profile.activated"
	PresetDefaultChanged  = "preset.default_changed"
	VariantDefaultChanged = "variant.default_changed"
)

// Wildcard matches every event name in On.
const Wildcard = "*"

// Event describes a change to an entity.
type Event struct {
	Name       string    `json:"name"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	Time       time.Time `json:"time"`
}

// Name joins kind and action: Name("theme", ActionCreated) == "theme.created".
func Name(kind, action string) string {
	return kind + "." + action
}

// New builds an event named after kind and action.
func New(kind, action, id string, payload any) Event {
	return Event{
		Name:       Name(kind, action),
		EntityKind: kind,
		EntityID:   id,
		Payload:    payload,
		Time:       time.Now().UTC(),
	}
}
