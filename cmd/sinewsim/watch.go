package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/akmonengine/sinew"
	"github.com/akmonengine/sinew/actor"
)

const (
	canvasWidth     = 61
	canvasHeight    = 25
	historyCapacity = 240
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	canvasStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	bodyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	asleepStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

type tickMsg time.Time

// watchModel drives a scene in real time inside the terminal: the world in
// a side view on the X/Y plane, with the energy history next to it.
type watchModel struct {
	scene Scene
	cfg   *sinew.Config

	world *sinew.World
	focus *actor.RigidBody

	dt        float64
	frameRate int
	simTime   float64
	paused    bool

	energyHistory []float64
	broken        int
}

func newWatchModel(scene Scene, cfg *sinew.Config, dt float64, frameRate int) *watchModel {
	m := &watchModel{
		scene:         scene,
		cfg:           cfg,
		dt:            dt,
		frameRate:     max(1, frameRate),
		energyHistory: make([]float64, 0, historyCapacity),
	}
	m.reset()

	return m
}

func (m *watchModel) reset() {
	m.world, m.focus = m.scene.Build(m.cfg)
	m.simTime = 0
	m.broken = 0
	m.energyHistory = m.energyHistory[:0]
	m.world.Events.Subscribe(sinew.ON_JOINT_BREAK, func(sinew.Event) { m.broken++ })
}

func (m *watchModel) Init() tea.Cmd {
	return m.tick()
}

func (m *watchModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.reset()
		}
	case tickMsg:
		if !m.paused {
			// Keep the simulation clock on the wall clock regardless of fps
			steps := max(1, int(1.0/(m.dt*float64(m.frameRate))))
			for i__ := 0; i__ < steps; i__++ {
				m.world.Step(m.dt)
				m.simTime += m.dt
			}

			m.energyHistory = append(m.energyHistory, kineticEnergy(m.world))
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, m.tick()
	}

	return m, nil
}

func (m *watchModel) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.scene.Name)) + "\n")

	status := "RUNNING"
	if m.paused {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	sleeping := 0
	for _, body := range m.world.Bodies {
		if body.IsSleeping {
			sleeping++
		}
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.simTime)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d (%d asleep)", len(m.world.Bodies), sleeping)) + "\n")
	s.WriteString(labelStyle.Render("Joints") + valueStyle.Render(fmt.Sprintf("%d (%d broken)", len(m.world.Joints), m.broken)) + "\n")
	if m.scene.Drift != nil {
		s.WriteString(labelStyle.Render("Drift") + valueStyle.Render(fmt.Sprintf("%.5f", m.scene.Drift(m.world, m.focus))) + "\n")
	}

	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit"))

	stats := s.String()
	canvas := canvasStyle.Render(m.renderWorld())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, "  ", stats)
}

// sceneBounds merges the body bounding boxes into one conservative box
func (m *watchModel) sceneBounds() actor.AABB {
	if len(m.world.Bodies) == 0 {
		return actor.AABB{}
	}

	bounds := m.world.Bodies[0].Shape.BoundingBox()
	for _, body := range m.world.Bodies[1:] {
		bounds = bounds.Merged(body.Shape.BoundingBox())
	}

	return bounds
}

// renderWorld projects the bodies onto the X/Y plane of a character grid,
// centered on the scene bounds
func (m *watchModel) renderWorld() string {
	grid := make([][]rune, canvasHeight)
	for i := range grid {
		grid[i] = make([]rune, canvasWidth)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	const scale = 8.0 // characters per meter, X; terminal cells are ~2:1
	center := m.sceneBounds().Center()
	project := func(x, y float64) (int, int) {
		col := canvasWidth/2 + int((x-center.X())*scale)
		row := canvasHeight/2 - int((y-center.Y())*scale/2)
		return col, row
	}

	// Joints as anchor-to-anchor lines
	for _, j := range m.world.Joints {
		a, b := j.Bodies()
		drawLine(grid, project, a.WorldCenterOfMass(), b.WorldCenterOfMass())
	}

	markers := make(map[[2]int]*actor.RigidBody)
	for _, body := range m.world.Bodies {
		p := body.WorldCenterOfMass()
		col, row := project(p.X(), p.Y())
		if col < 0 || col >= canvasWidth || row < 0 || row >= canvasHeight {
			continue
		}

		if body.Dynamic() {
			grid[row][col] = '●'
			markers[[2]int{row, col}] = body
		} else {
			grid[row][col] = '▣'
		}
	}

	var out strings.Builder
	for row := range grid {
		for col, r := range grid[row] {
			if body, ok := markers[[2]int{row, col}]; ok && body.IsSleeping {
				out.WriteString(asleepStyle.Render(string(r)))
			} else if r == '●' {
				out.WriteString(bodyStyle.Render(string(r)))
			} else {
				out.WriteRune(r)
			}
		}
		out.WriteByte('\n')
	}

	return strings.TrimRight(out.String(), "\n")
}

func drawLine(grid [][]rune, project func(x, y float64) (int, int), from, to mgl64.Vec3) {
	const segments = 24

	for i := 0; i <= segments; i++ {
		t := float64(i) / segments
		p := from.Add(to.Sub(from).Mul(t))
		col, row := project(p.X(), p.Y())
		if col < 0 || col >= canvasWidth || row < 0 || row >= canvasHeight {
			continue
		}
		if grid[row][col] == ' ' {
			grid[row][col] = '·'
		}
	}
}
