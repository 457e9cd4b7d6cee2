// Package terminal renders measurement primitives as a braille-canvas frame
// for terminal UIs. It implements the Graphics contract so the engine can
// drive a TUI the same way it drives a map renderer.
package terminal

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/eric-ce/mapmeasure/internal/adapter"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

// Viewport is the canonical-coordinate window projected onto the canvas.
// Lng maps to X and Lat to Y, so planar scenes project directly.
type Viewport struct {
	MinX, MinY, MaxX, MaxY float64
}

func (v Viewport) valid() bool {
	return v.MaxX > v.MinX && v.MaxY > v.MinY
}

// Adapter draws primitives onto a character grid. It implements
// adapter.Graphics and adapter.Rebinder; the frame is rebuilt on demand by
// Render, so Add and Remove only touch the primitive table.
type Adapter struct {
	mu     sync.Mutex
	width  int
	height int
	view   Viewport

	prims map[string]*core.Handle
	order []string
}

var (
	_ adapter.Graphics = (*Adapter)(nil)
	_ adapter.Rebinder = (*Adapter)(nil)
)

// New creates a terminal adapter with a canvas of the given cell size.
func New(width, height int) *Adapter {
	return &Adapter{
		width:  width,
		height: height,
		prims:  make(map[string]*core.Handle),
	}
}

// SetViewport sets the coordinate window rendered onto the canvas.
func (a *Adapter) SetViewport(v Viewport) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = v
}

// Resize changes the canvas cell size, e.g. on a tea.WindowSizeMsg.
func (a *Adapter) Resize(width, height int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.width = width
	a.height = height
}

func (a *Adapter) add(h *core.Handle) *core.Handle {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.prims[h.ID]; !exists {
		a.order = append(a.order, h.ID)
	}
	a.prims[h.ID] = h
	return h
}

func (a *Adapter) AddPoint(pos core.Position, id string, style core.Style) *core.Handle {
	return a.add(&core.Handle{
		ID:        id,
		Kind:      core.KindPoint,
		Positions: core.Positions{pos},
		Style:     style,
		Native:    id,
	})
}

func (a *Adapter) AddLine(p1, p2 core.Position, id string, style core.Style) *core.Handle {
	return a.add(&core.Handle{
		ID:        id,
		Kind:      core.KindLine,
		Positions: core.Positions{p1, p2},
		Style:     style,
		Native:    id,
	})
}

func (a *Adapter) AddLabel(anchor core.Position, text, id string, style core.Style) *core.Handle {
	return a.add(&core.Handle{
		ID:        id,
		Kind:      core.KindLabel,
		Positions: core.Positions{anchor},
		Text:      text,
		Style:     style,
		Native:    id,
	})
}

func (a *Adapter) UpdateStyle(h *core.Handle, style core.Style) {
	if h == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	h.Style = style
}

func (a *Adapter) Remove(h *core.Handle) {
	if h == nil {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.prims[h.ID]; !ok {
		return
	}
	delete(a.prims, h.ID)
	for i, id := range a.order {
		if id == h.ID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Rebind re-keys a primitive whose handle id was rewritten on finalize.
func (a *Adapter) Rebind(oldID string, h *core.Handle) {
	if h == nil || oldID == h.ID {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.prims[oldID]; !ok {
		return
	}
	delete(a.prims, oldID)
	a.prims[h.ID] = h
	h.Native = h.ID
	for i, id := range a.order {
		if id == oldID {
			a.order[i] = h.ID
			break
		}
	}
}

// Count returns the number of live primitives.
func (a *Adapter) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.prims)
}

// CellToPosition converts a canvas cell back to a canonical position. ok is
// false when no viewport is set. Input from a TUI mouse event goes through
// this before reaching the coordinate adapter.
func (a *Adapter) CellToPosition(cx, cy int) (core.Position, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.view.valid() || a.width <= 1 || a.height <= 1 {
		return core.Position{}, false
	}
	nx := float64(cx) / float64(a.width-1)
	ny := 1.0 - float64(cy)/float64(a.height-1)
	return core.Position{
		Lng: a.view.MinX + nx*(a.view.MaxX-a.view.MinX),
		Lat: a.view.MinY + ny*(a.view.MaxY-a.view.MinY),
	}, true
}

// PositionToCell projects a canonical position onto canvas cell coordinates.
// Used for hit-testing against the same grid the primitives render to.
func (a *Adapter) PositionToCell(p core.Position) (int, int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	mx, my, ok := a.screenXYMicro(p)
	if !ok {
		return 0, 0, false
	}
	return mx / 2, my / 4, true
}

// screenXYMicro maps a canonical position into the 2x4 microgrid per cell.
func (a *Adapter) screenXYMicro(p core.Position) (int, int, bool) {
	if !a.view.valid() || a.width <= 1 || a.height <= 1 {
		return 0, 0, false
	}
	nx := (p.Lng - a.view.MinX) / (a.view.MaxX - a.view.MinX)
	ny := (p.Lat - a.view.MinY) / (a.view.MaxY - a.view.MinY)
	wMic := a.width * 2
	hMic := a.height * 4
	sx := int(nx * float64(wMic-1))
	sy := int((1.0 - ny) * float64(hMic-1))
	return sx, sy, true
}

// Render composes the current frame: lines and points on the braille canvas,
// labels overlaid at their anchor cells. Rows are built as plain runes with
// a parallel per-cell color map; ANSI styling is applied only once per run
// during final assembly, so several labels can share a row without escape
// sequences corrupting cell offsets.
func (a *Adapter) Render() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	rows := make([][]rune, a.height)
	cellColor := make([][]string, a.height)
	for y := range rows {
		rows[y] = []rune(strings.Repeat(" ", a.width))
		cellColor[y] = make([]string, a.width)
	}
	cv := newCanvas(a.width, a.height)

	// Lines first so point markers stay visible at shared cells.
	for _, id := range a.order {
		h := a.prims[id]
		if h.Kind != core.KindLine || len(h.Positions) < 2 {
			continue
		}
		x0, y0, ok0 := a.screenXYMicro(h.Positions[0])
		x1, y1, ok1 := a.screenXYMicro(h.Positions[1])
		if !ok0 || !ok1 {
			continue
		}
		cv.drawLine(x0, y0, x1, y1)
	}

	for _, id := range a.order {
		h := a.prims[id]
		if h.Kind != core.KindPoint || len(h.Positions) == 0 {
			continue
		}
		mx, my, ok := a.screenXYMicro(h.Positions[0])
		if !ok {
			continue
		}
		cv.drawMarker(mx, my)
	}

	for y, row := range cv.toLines() {
		if y >= len(rows) {
			break
		}
		over := []rune(row)
		for x := 0; x < len(rows[y]) && x < len(over); x++ {
			if over[x] != ' ' {
				rows[y][x] = over[x]
			}
		}
	}

	// Labels last, replacing cells. Later labels win overlapping cells.
	for _, id := range a.order {
		h := a.prims[id]
		if h.Kind != core.KindLabel || len(h.Positions) == 0 {
			continue
		}
		mx, my, ok := a.screenXYMicro(h.Positions[0])
		if !ok {
			continue
		}
		cx, cy := mx/2, my/4
		if cy < 0 || cy >= len(rows) {
			continue
		}
		overlayLabel(rows[cy], cellColor[cy], cx, h.Text, h.Style.Color)
	}

	var b strings.Builder
	for y, row := range rows {
		if y > 0 {
			b.WriteByte('\n')
		}
		writeStyledRow(&b, row, cellColor[y])
	}
	return b.String()
}

// overlayLabel splices label runes into a plain row buffer, recording the
// label color per cell for the final styling pass.
func overlayLabel(row []rune, colors []string, cx int, text, color string) {
	if cx < 0 || cx >= len(row) || text == "" {
		return
	}
	for i, r := range []rune(text) {
		x := cx + i
		if x >= len(row) {
			break
		}
		row[x] = r
		colors[x] = color
	}
}

// writeStyledRow emits a row, wrapping each run of same-colored cells in one
// lipgloss render.
func writeStyledRow(b *strings.Builder, row []rune, colors []string) {
	x := 0
	for x < len(row) {
		color := colors[x]
		j := x
		for j < len(row) && colors[j] == color {
			j++
		}
		seg := string(row[x:j])
		if color != "" {
			seg = lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(seg)
		}
		b.WriteString(seg)
		x = j
	}
}
