package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Checkbox toggles a boolean on click.
type Checkbox struct {
	Label string
	Value bool
	X, Y  float64
	Size  float64

	pressed bool // mouse held since the last toggle
	changed bool
}

// NewCheckbox creates a new checkbox instance
func NewCheckbox(x, y float64, label string, value bool) *Checkbox {
	return &Checkbox{
		Label: label,
		Value: value,
		X:     x,
		Y:     y,
		Size:  14,
	}
}

// press feeds one frame of mouse state; a toggle happens on the first pressed frame only.
func (c *Checkbox) press(over, down bool) {
	c.changed = false
	if over && down {
		if !c.pressed {
			c.Value = !c.Value
			c.changed = true
			c.pressed = true
		}
		return
	}
	c.pressed = false
}

func (c *Checkbox) Update() {
	mx, my := ebiten.CursorPosition()
	c.press(hit(mx, my, c.X, c.Y, c.Size, c.Size), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (c *Checkbox) Draw(screen *ebiten.Image) {
	vector.StrokeRect(screen,
		float32(c.X), float32(c.Y),
		float32(c.Size), float32(c.Size),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	if c.Value {
		vector.FillRect(screen,
			float32(c.X+3), float32(c.Y+3),
			float32(c.Size-6), float32(c.Size-6),
			color.RGBA{R: 100, G: 200, B: 100, A: 255}, true)
	}
	ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
}

func (c *Checkbox) Height() float64 { return c.Size + 8 }

func (c *Checkbox) MoveTo(x, y float64) { c.X, c.Y = x, y }

func (c *Checkbox) Changed() bool { return c.changed }
