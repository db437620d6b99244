package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Button runs OnClick once per press.
type Button struct {
	Label   string
	X, Y    float64
	W, H    float64
	OnClick func()

	BGColor    color.RGBA
	HoverColor color.RGBA

	pressed bool
	hover   bool
	changed bool
}

// NewButton creates a new button instance
func NewButton(x, y, width, height float64, label string, onClick func()) *Button {
	return &Button{
		Label:      label,
		X:          x,
		Y:          y,
		W:          width,
		H:          height,
		OnClick:    onClick,
		BGColor:    color.RGBA{R: 80, G: 120, B: 180, A: 255},
		HoverColor: color.RGBA{R: 100, G: 150, B: 220, A: 255},
	}
}

func (b *Button) press(over, down bool) {
	b.hover = over
	b.changed = false
	if over && down {
		if !b.pressed {
			b.pressed = true
			b.changed = true
			if b.OnClick != nil {
				b.OnClick()
			}
		}
		return
	}
	b.pressed = false
}

func (b *Button) Update() {
	mx, my := ebiten.CursorPosition()
	b.press(hit(mx, my, b.X, b.Y, b.W, b.H), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
}

func (b *Button) Draw(screen *ebiten.Image) {
	bg := b.BGColor
	if b.hover {
		bg = b.HoverColor
	}
	vector.FillRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		bg, true)
	vector.StrokeRect(screen,
		float32(b.X), float32(b.Y),
		float32(b.W), float32(b.H),
		2, color.RGBA{R: 200, G: 200, B: 200, A: 255}, true)
	ebitenutil.DebugPrintAt(screen, b.Label, int(b.X+8), int(b.Y+(b.H-16)/2))
}

func (b *Button) Height() float64 { return b.H + 8 }

func (b *Button) MoveTo(x, y float64) { b.X, b.Y = x, y }

func (b *Button) Changed() bool { return b.changed }
