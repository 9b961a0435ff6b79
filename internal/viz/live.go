// Package viz renders layouts to the terminal: a braille canvas, a 3D
// camera, and a bubbletea model that steps the engine live.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/tfrere/joshua-exhibition-graph/internal/force"
	"github.com/tfrere/joshua-exhibition-graph/internal/graph"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	tickRate        = time.Second / 30
)

type TickMsg time.Time

// Model is the live layout view: it owns the engine and advances it one
// step per tick while the camera orbits the result.
type Model struct {
	engine *force.Engine
	graph  *graph.Graph
	name   string

	canvas *Canvas
	camera *Camera

	running   bool
	showLinks bool
	showHelp  bool
	stepCount int
	stepErr   error

	prev         []force.Node
	displacement []float64
}

func NewModel(g *graph.Graph, e *force.Engine, name string) Model {
	g.Apply(e)
	cam := NewCamera()
	cam.FitTo(g.Nodes)

	return Model{
		engine:       e,
		graph:        g,
		name:         name,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		camera:       cam,
		running:      true,
		showLinks:    true,
		prev:         e.Nodes(),
		displacement: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "l":
			m.showLinks = !m.showLinks
		case "f":
			m.camera.FitTo(m.engine.Nodes())
		case "?":
			m.showHelp = !m.showHelp
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && m.stepErr == nil {
			m.step()
		}
		return m, tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.engine.Step(); err != nil {
		m.stepErr = err
		m.running = false
		return
	}
	m.stepCount++

	nodes := m.engine.Nodes()
	sum := 0.0
	for i := range nodes {
		if i < len(m.prev) {
			sum += nodes[i].Position.Sub(m.prev[i].Position).Length()
		}
	}
	if len(nodes) > 0 {
		m.displacement = append(m.displacement, sum/float64(len(nodes)))
		if len(m.displacement) > historyCapacity {
			m.displacement = m.displacement[1:]
		}
	}
	m.prev = nodes
}

func (m *Model) reset() {
	m.graph.Apply(m.engine)
	m.prev = m.engine.Nodes()
	m.stepCount = 0
	m.stepErr = nil
	m.displacement = m.displacement[:0]
	m.camera.FitTo(m.graph.Nodes)
	m.running = true
}

func (m Model) View() string {
	m.canvas.Clear()
	nodes := m.engine.Nodes()
	links := m.engine.Links()
	if !m.showLinks {
		links = nil
	}
	RenderGraph(m.canvas, m.camera, nodes, links)

	var stats strings.Builder
	stats.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	status := "RUNNING"
	if m.stepErr != nil {
		status = "ERROR: " + m.stepErr.Error()
	} else if !m.running {
		status = "PAUSED"
	}
	stats.WriteString(status + "\n\n")

	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("step", fmt.Sprintf("%d", m.stepCount))
	row("nodes", fmt.Sprintf("%d", m.engine.NodeCount()))
	row("links", fmt.Sprintf("%d", m.engine.LinkCount()))
	row("cutoff", fmt.Sprintf("%.1f", m.engine.MaxDistance()))
	row("decay", fmt.Sprintf("%.2f", m.engine.VelocityDecay()))
	row("kinetic", fmt.Sprintf("%.4f", m.engine.KineticEnergy()))
	if n := len(m.displacement); n > 0 {
		row("movement", fmt.Sprintf("%.5f", m.displacement[n-1]))
	}

	if len(m.displacement) > 1 {
		plot := asciigraph.Plot(m.displacement, asciigraph.Height(6), asciigraph.Width(32))
		stats.WriteString(graphStyle.Render(plot))
	}

	if m.showHelp {
		stats.WriteString(helpStyle.Render(
			"space pause · r reset · l links\nx/y/z rotate · +/- zoom · f fit · q quit"))
	} else {
		stats.WriteString(helpStyle.Render("? help · q quit"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()), statsStyle.Render(stats.String()))
}
