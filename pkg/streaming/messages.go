package streaming

import (
	"encoding/json"

	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Message type constants matching the streaming protocol.
const (
	TypeStartScene      = "start_scene"
	TypeEndScene        = "end_scene"
	TypeAddPoint        = "add_point"
	TypeAddLine         = "add_line"
	TypeAddLabel        = "add_label"
	TypeUpdateStyle     = "update_style"
	TypeRemovePrimitive = "remove_primitive"
	TypeRebind          = "rebind"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// StartScenePayload announces the scene primitives will be drawn on.
type StartScenePayload struct {
	Scene    string `json:"scene"`
	Renderer string `json:"renderer"`
}

// AddPointPayload places a point primitive.
type AddPointPayload struct {
	ID       string        `json:"id"`
	Position core.Position `json:"position"`
	Style    core.Style    `json:"style"`
}

// AddLinePayload places a line primitive between two positions.
type AddLinePayload struct {
	ID    string        `json:"id"`
	A     core.Position `json:"a"`
	B     core.Position `json:"b"`
	Style core.Style    `json:"style"`
}

// AddLabelPayload places a text label at an anchor.
type AddLabelPayload struct {
	ID     string        `json:"id"`
	Anchor core.Position `json:"anchor"`
	Text   string        `json:"text"`
	Style  core.Style    `json:"style"`
}

// UpdateStylePayload restyles an existing primitive.
type UpdateStylePayload struct {
	ID    string     `json:"id"`
	Style core.Style `json:"style"`
}

// RemovePrimitivePayload deletes a primitive by id.
type RemovePrimitivePayload struct {
	ID string `json:"id"`
}

// RebindPayload renames a primitive when its pending id becomes permanent.
type RebindPayload struct {
	OldID string `json:"oldId"`
	NewID string `json:"newId"`
}
