package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	sliderBarHeight = 12
	labelHeight     = 15
)

// Slider edits a float value in [Min, Max] by dragging.
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	Step     float64 // 0 means continuous
	Format   string  // fmt verb for the value, "%.2f" by default
	X, Y     float64
	W, H     float64

	changed bool
}

// NewSlider creates a slider; value is clamped into [min, max].
func NewSlider(x, y, w float64, label string, min, max, value float64) *Slider {
	s := &Slider{
		Label:  label,
		Min:    min,
		Max:    max,
		Format: "%.2f",
		X:      x,
		Y:      y,
		W:      w,
		H:      sliderBarHeight,
	}
	s.Value = s.clamp(value)
	return s
}

func (s *Slider) clamp(v float64) float64 {
	if s.Step > 0 {
		v = s.Min + math.Round((v-s.Min)/s.Step)*s.Step
	}
	return math.Max(s.Min, math.Min(s.Max, v))
}

// SetFromCursor maps a cursor x coordinate on the bar to a value and reports whether it changed.
func (s *Slider) SetFromCursor(mx float64) bool {
	if s.W <= 0 {
		return false
	}
	v := s.clamp(s.Min + (mx-s.X)/s.W*(s.Max-s.Min))
	if v == s.Value {
		return false
	}
	s.Value = v
	return true
}

// Ratio is the fill fraction of the bar.
func (s *Slider) Ratio() float64 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

func (s *Slider) Update() {
	s.changed = false
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if hit(mx, my, s.X, s.Y, s.W, s.H) {
		s.changed = s.SetFromCursor(float64(mx))
	}
}

func (s *Slider) Draw(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s: "+s.Format, s.Label, s.Value), int(s.X), int(s.Y-labelHeight))
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*s.Ratio()), float32(s.H), color.RGBA{R: 120, G: 190, B: 230, A: 255}, true)
}

func (s *Slider) Height() float64 { return s.H + labelHeight + 8 }

func (s *Slider) MoveTo(x, y float64) {
	s.X = x
	s.Y = y + labelHeight
}

func (s *Slider) Changed() bool { return s.changed }
