package main

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/eric-ce/mapmeasure/internal/export"
	"github.com/eric-ce/mapmeasure/internal/mode"
	"github.com/eric-ce/mapmeasure/internal/monitor"
	"github.com/eric-ce/mapmeasure/pkg/core"
)

const (
	headerHeight = 1
	footerHeight = 2
	// hit-test radius in cells for hover, drag, and pick targets
	pickRadiusCells = 2
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E6E6"))
)

// runTUI starts the interactive measurement UI.
func runTUI(sceneName string) error {
	a, mon, err := buildApp(sceneName)
	if err != nil {
		return err
	}
	mon.Start()
	defer func() {
		mon.Stop()
		if err := a.writer.Close(); err != nil {
			Logger.Error("Store writer close failed", "error", err)
		}
	}()

	m := newUIModel(a, mon, sceneName)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

type uiModel struct {
	a     *app
	mon   *monitor.Service
	scene string

	width  int
	height int

	status string

	// last mouse state
	lastPos   core.Position
	hasPos    bool
	hoverID   string
	mouseDown bool
	pressX    float64
	pressY    float64
	pressHit  string // point handle armed for drag, empty for plain clicks
}

func newUIModel(a *app, mon *monitor.Service, scene string) uiModel {
	return uiModel{
		a:      a,
		mon:    mon,
		scene:  scene,
		status: "ready",
	}
}

func (m uiModel) Init() tea.Cmd { return nil }

func (m uiModel) mapSize() (int, int) {
	w := m.width
	h := m.height - headerHeight - footerHeight
	if w < 10 {
		w = 10
	}
	if h < 4 {
		h = 4
	}
	return w, h
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := m.mapSize()
		m.a.gfx.Resize(w, h)

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m uiModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "1", "2", "3", "4":
		idx := int(msg.String()[0] - '1')
		m.a.setMode(measureModes[idx])
		m.hoverID = ""
		m.status = fmt.Sprintf("mode: %s", m.a.active)

	case "tab":
		for i, md := range measureModes {
			if md == m.a.active {
				m.a.setMode(measureModes[(i+1)%len(measureModes)])
				break
			}
		}
		m.hoverID = ""
		m.status = fmt.Sprintf("mode: %s", m.a.active)

	case "esc":
		m.a.dispatch(mode.CmdDragCancel, nil)
		m.mouseDown = false
		m.pressHit = ""
		m.status = "drag cancelled"

	case "x", "delete":
		if m.hoverID != "" {
			m.a.dispatch(mode.CmdDelete, mode.Pick{HandleID: m.hoverID})
			m.hoverID = ""
			m.status = "point deleted"
		}

	case "i":
		if m.hoverID != "" && m.hasPos {
			m.a.dispatch(mode.CmdInsert, mode.PickAt{HandleID: m.hoverID, Native: m.lastPos})
			m.status = "point inserted"
		}

	case "s":
		if m.hoverID != "" {
			m.a.dispatch(mode.CmdSelect, mode.Pick{HandleID: m.hoverID})
			m.status = "chain selected"
		}

	case "c":
		m.a.dispatch(mode.CmdClearSelect, nil)
		m.status = "selection cleared"

	case "r":
		m.a.dispatch(mode.CmdReset, nil)
		m.hoverID = ""
		m.status = "mode reset"

	case "e":
		path, err := m.exportGroups()
		if err != nil {
			m.status = "export failed: " + err.Error()
		} else if path == "" {
			m.status = "nothing to export"
		} else {
			m.status = "exported " + path
		}
	}
	return m, nil
}

func (m uiModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	cx := msg.X
	cy := msg.Y - headerHeight
	_, mapH := m.mapSize()
	if cy < 0 || cy >= mapH {
		return m, nil
	}

	pos, ok := m.a.gfx.CellToPosition(cx, cy)
	if !ok {
		return m, nil
	}
	m.lastPos = pos
	m.hasPos = true
	fx, fy := float64(cx), float64(cy)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if id := m.nearestHandle(core.KindPoint, cx, cy); id != "" {
				m.pressHit = id
				m.mouseDown = true
				m.pressX, m.pressY = fx, fy
				m.a.dispatch(mode.CmdDragPress, mode.DragPress{HandleID: id, X: fx, Y: fy})
			} else {
				m.a.dispatch(mode.CmdPrimary, mode.Pointer{Native: pos})
			}
		case tea.MouseButtonRight:
			m.a.dispatch(mode.CmdSecondary, mode.Pointer{Native: pos})
		}

	case tea.MouseActionMotion:
		if m.mouseDown {
			m.a.dispatch(mode.CmdDragMove, mode.DragMotion{X: fx, Y: fy, Native: pos})
		} else {
			m.a.dispatch(mode.CmdMove, mode.Pointer{Native: pos})
			m.updateHover(cx, cy)
		}

	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			break
		}
		if m.mouseDown {
			moved := math.Hypot(fx-m.pressX, fy-m.pressY)
			m.a.dispatch(mode.CmdDragRelease, mode.Pointer{Native: pos})
			if moved < pickRadiusCells && m.pressHit != "" {
				// An abandoned drag is a click on the point: resume from an
				// endpoint or suppress the duplicate, the engine decides.
				m.a.dispatch(mode.CmdPrimary, mode.Pointer{Native: pos})
			}
			m.mouseDown = false
			m.pressHit = ""
		}
	}
	return m, nil
}

// updateHover hit-tests completed primitives around the cursor and keeps the
// engine's hover state in sync.
func (m *uiModel) updateHover(cx, cy int) {
	id := m.nearestHandle(core.KindPoint, cx, cy)
	if id == "" {
		id = m.nearestHandle(core.KindLine, cx, cy)
	}
	if id == m.hoverID {
		return
	}
	m.hoverID = id
	m.a.dispatch(mode.CmdHover, mode.Pick{HandleID: id})
}

// nearestHandle returns the closest completed handle of the given kind
// within the pick radius, or "".
func (m *uiModel) nearestHandle(kind core.PrimitiveKind, cx, cy int) string {
	eng := m.a.engine()
	best := pickRadiusCells*pickRadiusCells + 1
	bestID := ""

	for _, g := range eng.Groups() {
		if g.Status != core.GroupCompleted {
			continue
		}
		gg := eng.Handles().Graphics(g.ID)
		var handles []*core.Handle
		switch kind {
		case core.KindPoint:
			handles = gg.Points
		case core.KindLine:
			handles = gg.Lines
		}
		for _, h := range handles {
			if h == nil || len(h.Positions) == 0 {
				continue
			}
			anchor := h.Positions[0]
			if kind == core.KindLine && len(h.Positions) > 1 {
				anchor = core.Position{
					Lat: (h.Positions[0].Lat + h.Positions[1].Lat) / 2,
					Lng: (h.Positions[0].Lng + h.Positions[1].Lng) / 2,
				}
			}
			hx, hy, ok := m.a.gfx.PositionToCell(anchor)
			if !ok {
				continue
			}
			d := (hx-cx)*(hx-cx) + (hy-cy)*(hy-cy)
			if d < best {
				best = d
				bestID = h.ID
			}
		}
	}
	return bestID
}

// exportGroups flushes the writer and exports all completed groups.
func (m *uiModel) exportGroups() (string, error) {
	groups := m.a.writer.GetAllGroups()
	if len(groups) == 0 {
		return "", nil
	}
	w := export.NewWriter(export.Config{
		OutputDir:      viper.GetString("export.outputDir"),
		CompressOutput: viper.GetBool("export.compress"),
	})
	return w.Write(m.scene, groups)
}

func (m uiModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	header := titleStyle.Render("mapmeasure") +
		dimStyle.Render(fmt.Sprintf("  %s  mode:%s  groups:%d", m.scene, m.a.active, len(m.a.engine().Groups())))

	canvas := m.a.gfx.Render()

	var pos string
	if m.hasPos {
		pos = fmt.Sprintf("x=%.1f y=%.1f", m.lastPos.Lng, m.lastPos.Lat)
	}
	footer := statusStyle.Render(m.status) + dimStyle.Render("  "+pos) + "\n" +
		dimStyle.Render("L-click add/drag  R-click finish  1-4/tab mode  i insert  x delete  s select  r reset  e export  q quit")

	return strings.Join([]string{header, canvas, footer}, "\n")
}
