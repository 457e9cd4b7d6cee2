// Package mode connects a measurement engine to the event dispatcher. It
// owns the command vocabulary UI bridges speak, converts renderer-native
// payloads to canonical positions, and applies the drag threshold that
// separates an intended drag from an abandoned click.
package mode

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/internal/dispatcher"
	"github.com/eric-ce/mapmeasure/internal/engine"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Commands understood by the controller. Bridges dispatch these; nothing
// outside this package calls the engine directly.
const (
	CmdPrimary   = "measure:primary"
	CmdMove      = "measure:move"
	CmdSecondary = "measure:secondary"

	CmdDragPress   = "drag:press"
	CmdDragMove    = "drag:move"
	CmdDragRelease = "drag:release"
	CmdDragCancel  = "drag:cancel"

	CmdInsert = "edit:insert"
	CmdDelete = "edit:delete"

	CmdHover       = "pick:hover"
	CmdSelect      = "pick:select"
	CmdClearSelect = "pick:clearselect"

	CmdReset = "mode:reset"
)

// Pointer carries a renderer-native position.
type Pointer struct {
	Native any
}

// Pick identifies a primitive by handle id.
type Pick struct {
	HandleID string
}

// PickAt identifies a primitive plus a position, e.g. where on a segment to
// insert a point.
type PickAt struct {
	HandleID string
	Native   any
}

// DragPress arms a potential drag on a point primitive at screen coordinates.
type DragPress struct {
	HandleID string
	X, Y     float64
}

// DragMotion is pointer motion while a drag is armed or running.
type DragMotion struct {
	X, Y   float64
	Native any
}

// Controller routes dispatcher commands into one engine.
type Controller struct {
	engine *engine.Engine
	coord  adapter.Coordinate
	log    *slog.Logger

	// drag threshold bookkeeping
	thresholdPx float64
	armed       bool
	started     bool
	handleID    string
	pressX      float64
	pressY      float64
}

// NewController builds a controller for one engine. thresholdPx is the
// screen displacement below which a press-release pair counts as a click.
func NewController(e *engine.Engine, coord adapter.Coordinate, thresholdPx float64, log *slog.Logger) *Controller {
	if thresholdPx <= 0 {
		thresholdPx = 3
	}
	return &Controller{
		engine:      e,
		coord:       coord,
		log:         log,
		thresholdPx: thresholdPx,
	}
}

// RegisterHandlers registers every command with the dispatcher. Interaction
// handlers stay synchronous: the engine is single-writer and event order is
// part of its contract.
func (c *Controller) RegisterHandlers(d *dispatcher.Dispatcher) {
	d.Register(CmdPrimary, c.handlePrimary, dispatcher.Logged())
	d.Register(CmdMove, c.handleMove)
	d.Register(CmdSecondary, c.handleSecondary, dispatcher.Logged())

	d.Register(CmdDragPress, c.handleDragPress)
	d.Register(CmdDragMove, c.handleDragMove)
	d.Register(CmdDragRelease, c.handleDragRelease, dispatcher.Logged())
	d.Register(CmdDragCancel, c.handleDragCancel, dispatcher.Logged())

	d.Register(CmdInsert, c.handleInsert, dispatcher.Logged())
	d.Register(CmdDelete, c.handleDelete, dispatcher.Logged())

	d.Register(CmdHover, c.handleHover)
	d.Register(CmdSelect, c.handleSelect, dispatcher.Logged())
	d.Register(CmdClearSelect, c.handleClearSelect)

	d.Register(CmdReset, c.handleReset, dispatcher.Logged())
}

func (c *Controller) handlePrimary(e dispatcher.Event) (any, error) {
	pos, err := c.position(e)
	if err != nil {
		return nil, err
	}
	c.engine.PrimaryAction(pos)
	return nil, nil
}

func (c *Controller) handleMove(e dispatcher.Event) (any, error) {
	pos, err := c.position(e)
	if err != nil {
		return nil, err
	}
	c.engine.PointerMove(pos)
	return nil, nil
}

func (c *Controller) handleSecondary(e dispatcher.Event) (any, error) {
	pos, err := c.position(e)
	if err != nil {
		return nil, err
	}
	c.engine.SecondaryAction(pos)
	return nil, nil
}

func (c *Controller) handleDragPress(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(DragPress)
	if !ok {
		return nil, fmt.Errorf("drag press payload must be mode.DragPress")
	}
	c.armed = true
	c.started = false
	c.handleID = p.HandleID
	c.pressX, c.pressY = p.X, p.Y
	return nil, nil
}

func (c *Controller) handleDragMove(e dispatcher.Event) (any, error) {
	m, ok := e.Payload.(DragMotion)
	if !ok {
		return nil, fmt.Errorf("drag move payload must be mode.DragMotion")
	}
	if !c.armed {
		return nil, nil
	}
	if !c.started {
		if math.Hypot(m.X-c.pressX, m.Y-c.pressY) < c.thresholdPx {
			return nil, nil
		}
		c.engine.DragStart(c.handleID)
		if !c.engine.Dragging() {
			// Engine refused the target; stop tracking.
			c.armed = false
			return nil, nil
		}
		c.started = true
	}
	if pos, ok := c.coord.ToCanonical(m.Native); ok {
		c.engine.DragMove(pos)
	}
	return nil, nil
}

func (c *Controller) handleDragRelease(e dispatcher.Event) (any, error) {
	defer c.disarm()
	if !c.started {
		// Below the threshold: an abandoned click, nothing moved.
		return nil, nil
	}
	pos, err := c.position(e)
	if err != nil {
		c.engine.DragCancel()
		return nil, err
	}
	c.engine.DragEnd(pos)
	return nil, nil
}

func (c *Controller) handleDragCancel(dispatcher.Event) (any, error) {
	defer c.disarm()
	if c.started {
		c.engine.DragCancel()
	}
	return nil, nil
}

func (c *Controller) handleInsert(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(PickAt)
	if !ok {
		return nil, fmt.Errorf("insert payload must be mode.PickAt")
	}
	pos, ok := c.coord.ToCanonical(p.Native)
	if !ok {
		return nil, fmt.Errorf("unrecognized native position")
	}
	c.engine.InsertPoint(p.HandleID, pos)
	return nil, nil
}

func (c *Controller) handleDelete(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(Pick)
	if !ok {
		return nil, fmt.Errorf("delete payload must be mode.Pick")
	}
	c.engine.DeletePoint(p.HandleID)
	return nil, nil
}

func (c *Controller) handleHover(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(Pick)
	if !ok {
		return nil, fmt.Errorf("hover payload must be mode.Pick")
	}
	if p.HandleID == "" {
		c.engine.Unhover()
		return nil, nil
	}
	c.engine.Hover(p.HandleID)
	return nil, nil
}

func (c *Controller) handleSelect(e dispatcher.Event) (any, error) {
	p, ok := e.Payload.(Pick)
	if !ok {
		return nil, fmt.Errorf("select payload must be mode.Pick")
	}
	c.engine.SelectChain(p.HandleID)
	return nil, nil
}

func (c *Controller) handleClearSelect(dispatcher.Event) (any, error) {
	c.engine.ClearSelection()
	return nil, nil
}

func (c *Controller) handleReset(dispatcher.Event) (any, error) {
	c.disarm()
	c.engine.Reset()
	return nil, nil
}

func (c *Controller) disarm() {
	c.armed = false
	c.started = false
	c.handleID = ""
}

// position extracts and converts a pointer payload.
func (c *Controller) position(e dispatcher.Event) (core.Position, error) {
	var native any
	switch p := e.Payload.(type) {
	case Pointer:
		native = p.Native
	case DragMotion:
		native = p.Native
	default:
		native = e.Payload
	}
	pos, ok := c.coord.ToCanonical(native)
	if !ok {
		return core.Position{}, fmt.Errorf("unrecognized native position for %s", e.Command)
	}
	return pos, nil
}
