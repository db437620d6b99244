package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30
	sectionHeight = 25
	margin        = 10
	scrollStep    = 20
)

// UIPanel lays widgets out in a scrollable column grouped by section headers.
type UIPanel struct {
	X, Y          float64
	Width, Height float64
	Title         string
	ScrollOffset  float64
	Hidden        bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []*PanelSection
	changed  bool
}

// PanelSection is a titled group of widgets.
type PanelSection struct {
	Title   string
	Widgets []Widget
	y       float64 // header position from the last layout
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width, height float64) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Title:       "Configuration",
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section; following Add calls land in it.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, &PanelSection{Title: title})
}

func (p *UIPanel) add(w Widget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	s := p.sections[len(p.sections)-1]
	s.Widgets = append(s.Widgets, w)
	p.layout()
}

// AddSlider adds a slider to the current section.
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-2*margin, label, min, max, value)
	p.add(s)
	return s
}

// AddCheckbox adds a checkbox to the current section.
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(c)
	return c
}

// AddButton adds a button to the current section.
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*margin, 20, label, onClick)
	p.add(b)
	return b
}

// ContentHeight is the height of everything in the panel, scrolled or not.
func (p *UIPanel) ContentHeight() float64 {
	h := float64(titleHeight)
	for _, s := range p.sections {
		h += sectionHeight
		for _, w := range s.Widgets {
			h += w.Height()
		}
	}
	return h
}

// Scroll moves the content by dy wheel steps, kept within the content height.
func (p *UIPanel) Scroll(dy float64) {
	maxScroll := max(p.ContentHeight()-p.Height+2*margin, 0)
	p.ScrollOffset = min(max(p.ScrollOffset-dy*scrollStep, 0), maxScroll)
	p.layout()
}

// layout positions every widget for the current scroll offset.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	for _, s := range p.sections {
		s.y = y
		y += sectionHeight
		for _, w := range s.Widgets {
			w.MoveTo(p.X+margin, y)
			y += w.Height()
		}
	}
}

func (p *UIPanel) visible(y, h float64) bool {
	return y+h >= p.Y+titleHeight && y <= p.Y+p.Height
}

// Update handles input for all visible widgets.
func (p *UIPanel) Update() {
	p.changed = false
	if p.Hidden {
		return
	}
	mx, my := ebiten.CursorPosition()
	if _, dy := ebiten.Wheel(); dy != 0 && hit(mx, my, p.X, p.Y, p.Width, p.Height) {
		p.Scroll(dy)
	}
	for _, s := range p.sections {
		y := s.y + sectionHeight
		for _, w := range s.Widgets {
			if p.visible(y, w.Height()) {
				w.Update()
				p.changed = p.changed || w.Changed()
			}
			y += w.Height()
		}
	}
}

// Changed reports whether any widget value changed during the last Update.
func (p *UIPanel) Changed() bool { return p.changed }

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	for _, s := range p.sections {
		if s.Title != "" && p.visible(s.y, sectionHeight) {
			vector.FillRect(screen,
				float32(p.X+5), float32(s.y),
				float32(p.Width-10), sectionHeight-5,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.Title, int(p.X+margin), int(s.y+2))
		}
		y := s.y + sectionHeight
		for _, w := range s.Widgets {
			if p.visible(y, w.Height()) {
				w.Draw(screen)
			}
			y += w.Height()
		}
	}
}
