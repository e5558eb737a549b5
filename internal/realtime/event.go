package realtime

import "encoding/json"

// BoardEvent names a board mutation kind. Events are transient
// notifications, never persisted.
type BoardEvent string

const (
	EventNoteCreated BoardEvent = "note.created"
	EventNoteUpdated BoardEvent = "note.updated"
	EventNoteDeleted BoardEvent = "note.deleted"
)

// Envelope is the wire shape carried from publisher to relay to
// subscribers. Payload is opaque JSON whose shape is a convention between
// producer and consumer; it carries no sequence number and no delivery
// guarantee metadata.
type Envelope struct {
	BoardID string          `json:"boardId"`
	Event   BoardEvent      `json:"event"`
	Payload json.RawMessage `json:"payload"`
}
