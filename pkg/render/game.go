package render

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/flock"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-boids-flocking/pkg/ui"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	background = color.RGBA{R: 10, G: 10, B: 30, A: 255}
)

func init() {
	whiteImage.Fill(color.White)
}

// Game is the ebiten front end of a simulation.Host: it ticks the host once per frame, draws
// the latest frame and turns panel edits into Tune messages.
type Game struct {
	ctx    context.Context
	host   *simulation.Host
	logger golog.Logger
	cfg    flock.Config
	last   *simulation.Frame
	paused bool
	seed   uint64

	panel *ui.UIPanel

	widgetSeparationRadius *ui.Slider
	widgetAlignmentRadius  *ui.Slider
	widgetCohesionRadius   *ui.Slider
	widgetSeparationWeight *ui.Slider
	widgetAlignmentWeight  *ui.Slider
	widgetCohesionWeight   *ui.Slider
	widgetMaxSpeed         *ui.Slider
	widgetMaxForce         *ui.Slider
	widgetPopulation       *ui.Slider
	widgetShowRadius       *ui.Checkbox
	widgetShowStats        *ui.Checkbox

	vertices []ebiten.Vertex
	indices  []uint16

	// Timing instrumentation
	lastFrame time.Time
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame builds the window state for host, which must run a flock configured with cfg.
func NewGame(ctx context.Context, host *simulation.Host, cfg flock.Config, seed uint64, logger golog.Logger) *Game {
	if logger == nil {
		logger = golog.DiscardLogger
	}
	g := &Game{
		ctx:       ctx,
		host:      host,
		logger:    logger,
		cfg:       cfg,
		seed:      seed,
		lastFrame: time.Now(),
	}

	panel := ui.NewUIPanel(10, 10, 240, float64(cfg.WorldHeight)-20)
	panel.AddSection("Neighbour Radii")
	g.widgetSeparationRadius = panel.AddSlider("Separation", 0, 100, float64(cfg.SeparationRadius))
	g.widgetAlignmentRadius = panel.AddSlider("Alignment", 0, 100, float64(cfg.AlignmentRadius))
	g.widgetCohesionRadius = panel.AddSlider("Cohesion", 0, 100, float64(cfg.CohesionRadius))

	panel.AddSection("Rule Weights")
	g.widgetSeparationWeight = panel.AddSlider("Separation", 0, 5, float64(cfg.SeparationWeight))
	g.widgetAlignmentWeight = panel.AddSlider("Alignment", 0, 5, float64(cfg.AlignmentWeight))
	g.widgetCohesionWeight = panel.AddSlider("Cohesion", 0, 5, float64(cfg.CohesionWeight))

	panel.AddSection("Physics")
	g.widgetMaxSpeed = panel.AddSlider("Max Speed", 0.5, 8, float64(cfg.MaxSpeed))
	g.widgetMaxForce = panel.AddSlider("Max Force", 0, 0.2, float64(cfg.MaxForce))
	g.widgetMaxForce.Format = "%.3f"
	g.widgetPopulation = panel.AddSlider("Population", 0, 3000, float64(cfg.Population))
	g.widgetPopulation.Step = 10
	g.widgetPopulation.Format = "%.0f"

	panel.AddSection("Visualization")
	g.widgetShowRadius = panel.AddCheckbox("Show separation radius", false)
	g.widgetShowStats = panel.AddCheckbox("Show flock stats", true)
	panel.AddButton("Reset flock", g.reset)
	g.panel = panel

	return g
}

// tunedConfig reads the panel widgets into a config based on the current one.
func (g *Game) tunedConfig() flock.Config {
	cfg := g.cfg
	cfg.SeparationRadius = float32(g.widgetSeparationRadius.Value)
	cfg.AlignmentRadius = float32(g.widgetAlignmentRadius.Value)
	cfg.CohesionRadius = float32(g.widgetCohesionRadius.Value)
	cfg.SeparationWeight = float32(g.widgetSeparationWeight.Value)
	cfg.AlignmentWeight = float32(g.widgetAlignmentWeight.Value)
	cfg.CohesionWeight = float32(g.widgetCohesionWeight.Value)
	cfg.MaxSpeed = float32(g.widgetMaxSpeed.Value)
	cfg.MaxForce = float32(g.widgetMaxForce.Value)
	cfg.Population = int(g.widgetPopulation.Value)
	return cfg
}

func (g *Game) reset() {
	g.seed++
	if err := g.host.Reset(g.ctx, g.seed); err != nil {
		g.logger.Warnf("reset failed: %v", err)
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()
	if g.panel.Changed() {
		cfg := g.tunedConfig()
		if err := g.host.Tune(g.ctx, cfg); err != nil {
			g.logger.Warnf("tuning rejected: %v", err)
		} else {
			g.cfg = cfg
		}
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.panel.Hidden = !g.panel.Hidden
	}

	// Retrieve latest frame (non-blocking)
	select {
	case frame := <-g.host.Frames():
		g.last = frame
	default:
	}

	if !g.paused {
		now := time.Now()
		if err := g.host.Tick(g.ctx, now.Sub(g.lastFrame)); err != nil {
			return fmt.Errorf("tick: %w", err)
		}
		g.lastFrame = now
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(background)
	if g.last != nil {
		g.drawAgents(screen, g.last)
	}
	g.panel.Draw(screen)
	g.drawHUD(screen)
}

// drawAgents batches agents into as few DrawTriangles calls as uint16 indices allow.
func (g *Game) drawAgents(screen *ebiten.Image, frame *simulation.Frame) {
	ox, oy := frame.Config.WorldWidth/2, frame.Config.WorldHeight/2
	g.vertices = g.vertices[:0]
	g.indices = g.indices[:0]
	maxSpeed := frame.Config.MaxSpeed
	for _, a := range frame.Agents {
		if len(g.vertices)+3 > math.MaxUint16 {
			screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
			g.vertices, g.indices = g.vertices[:0], g.indices[:0]
		}
		g.vertices, g.indices = appendAgent(g.vertices, g.indices, a, ox, oy, speedColor(a.Velocity.Len(), maxSpeed))
		if g.widgetShowRadius.Value {
			vector.StrokeCircle(screen, a.Position.X+ox, a.Position.Y+oy,
				frame.Config.SeparationRadius, 1, color.RGBA{R: 255, G: 80, B: 80, A: 60}, true)
		}
	}
	screen.DrawTriangles(g.vertices, g.indices, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(), ebiten.ActualTPS(), g.updateAvg, g.drawAvg)
	if g.last != nil && g.widgetShowStats.Value {
		s := g.last.Stats
		msg += fmt.Sprintf("\n\nTick:   %d\nAgents: %d\nSpeed:  %.2f\nOrder:  %.2f",
			s.Tick, s.Population, s.MeanSpeed, s.Polarization)
	}
	if g.paused {
		msg += "\n\nPAUSED (space)"
	}
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-150, 10)
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}

// appendAgent adds one triangle pointing along the agent's heading. World coordinates are
// shifted by (ox, oy) so the origin lands in the middle of the screen.
func appendAgent(vs []ebiten.Vertex, is []uint16, a flock.AgentState, ox, oy float32, c color.RGBA) ([]ebiten.Vertex, []uint16) {
	pts := triangle(a, ox, oy)
	base := uint16(len(vs))
	r, gr, b, al := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	for _, p := range pts {
		vs = append(vs, ebiten.Vertex{
			DstX: p[0], DstY: p[1],
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gr, ColorB: b, ColorA: al,
		})
	}
	return vs, append(is, base, base+1, base+2)
}

// triangle returns the tip and the two wing points of an agent sprite.
func triangle(a flock.AgentState, ox, oy float32) [3][2]float32 {
	size := float64(max(a.Radius, 2))
	angle := float64(a.Heading)
	x, y := float64(a.Position.X+ox), float64(a.Position.Y+oy)
	at := func(da, l float64) [2]float32 {
		return [2]float32{float32(x + math.Cos(angle+da)*l), float32(y + math.Sin(angle+da)*l)}
	}
	return [3][2]float32{at(0, size), at(2.5, size*0.8), at(-2.5, size*0.8)}
}

// speedColor shades from blue (slow) to white (at max speed).
func speedColor(speed, maxSpeed float32) color.RGBA {
	t := float32(1)
	if maxSpeed > 0 {
		t = min(speed/maxSpeed, 1)
	}
	return color.RGBA{R: uint8(100 + 155*t), G: uint8(200 + 55*t), B: 255, A: 255}
}
