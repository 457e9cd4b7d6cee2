// Package wsgfx streams primitive operations over WebSocket to a remote
// renderer. The engine keeps the authoritative handle state; the remote side
// only mirrors draw, restyle, remove, and rebind commands, so every Add
// succeeds locally and sends are fire-and-forget.
package wsgfx

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/pkg/core"
	"github.com/eric-ce/mapmeasure/pkg/streaming"
)

// Config holds WebSocket renderer configuration.
type Config struct {
	URL    string
	Secret string
}

// Adapter implements adapter.Graphics and adapter.Rebinder over a WebSocket.
type Adapter struct {
	conn *connection
	cfg  Config
}

var (
	_ adapter.Graphics = (*Adapter)(nil)
	_ adapter.Rebinder = (*Adapter)(nil)
)

// New creates a WebSocket graphics adapter.
func New(cfg Config, logger *slog.Logger) *Adapter {
	return &Adapter{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (a *Adapter) Init() error {
	return a.conn.dial(a.cfg.URL, a.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (a *Adapter) Close() error {
	return a.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// sendEnvelope marshals the payload into an Envelope and pushes it
// to the write loop (fire-and-forget).
func (a *Adapter) sendEnvelope(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	a.conn.send(data)
	return nil
}

// StartScene announces the scene and waits for server ack. The message is
// cached so a reconnect can replay it.
func (a *Adapter) StartScene(scene, renderer string) error {
	data, err := marshalEnvelope(streaming.TypeStartScene, streaming.StartScenePayload{
		Scene:    scene,
		Renderer: renderer,
	})
	if err != nil {
		return err
	}

	a.conn.mu.Lock()
	a.conn.cachedSceneMsg = data
	a.conn.mu.Unlock()

	return a.conn.sendAndWait(data, streaming.TypeStartScene, ackTimeout)
}

// EndScene sends end_scene and waits for server ack.
func (a *Adapter) EndScene() error {
	err := a.sendEnvelopeAndWait(streaming.TypeEndScene, nil)

	// Clear cached state regardless of error.
	a.conn.mu.Lock()
	a.conn.cachedSceneMsg = nil
	a.conn.mu.Unlock()

	return err
}

// sendEnvelopeAndWait marshals the payload and waits for a server ack.
func (a *Adapter) sendEnvelopeAndWait(msgType string, payload any) error {
	data, err := marshalEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	return a.conn.sendAndWait(data, msgType, ackTimeout)
}

func (a *Adapter) AddPoint(pos core.Position, id string, style core.Style) *core.Handle {
	if err := a.sendEnvelope(streaming.TypeAddPoint, streaming.AddPointPayload{
		ID:       id,
		Position: pos,
		Style:    style,
	}); err != nil {
		return nil
	}
	return &core.Handle{
		ID:        id,
		Kind:      core.KindPoint,
		Positions: core.Positions{pos},
		Style:     style,
		Native:    id,
	}
}

func (a *Adapter) AddLine(p1, p2 core.Position, id string, style core.Style) *core.Handle {
	if err := a.sendEnvelope(streaming.TypeAddLine, streaming.AddLinePayload{
		ID:    id,
		A:     p1,
		B:     p2,
		Style: style,
	}); err != nil {
		return nil
	}
	return &core.Handle{
		ID:        id,
		Kind:      core.KindLine,
		Positions: core.Positions{p1, p2},
		Style:     style,
		Native:    id,
	}
}

func (a *Adapter) AddLabel(anchor core.Position, text, id string, style core.Style) *core.Handle {
	if err := a.sendEnvelope(streaming.TypeAddLabel, streaming.AddLabelPayload{
		ID:     id,
		Anchor: anchor,
		Text:   text,
		Style:  style,
	}); err != nil {
		return nil
	}
	return &core.Handle{
		ID:        id,
		Kind:      core.KindLabel,
		Positions: core.Positions{anchor},
		Text:      text,
		Style:     style,
		Native:    id,
	}
}

func (a *Adapter) UpdateStyle(h *core.Handle, style core.Style) {
	if h == nil {
		return
	}
	h.Style = style
	_ = a.sendEnvelope(streaming.TypeUpdateStyle, streaming.UpdateStylePayload{
		ID:    h.ID,
		Style: style,
	})
}

func (a *Adapter) Remove(h *core.Handle) {
	if h == nil {
		return
	}
	_ = a.sendEnvelope(streaming.TypeRemovePrimitive, streaming.RemovePrimitivePayload{
		ID: h.ID,
	})
}

// Rebind tells the remote renderer a primitive id was rewritten (finalize
// strips the pending suffix).
func (a *Adapter) Rebind(oldID string, h *core.Handle) {
	if h == nil || oldID == h.ID {
		return
	}
	h.Native = h.ID
	_ = a.sendEnvelope(streaming.TypeRebind, streaming.RebindPayload{
		OldID: oldID,
		NewID: h.ID,
	})
}
