package ui

import (
	"math"
	"testing"
)

func TestSlider_SetFromCursor(t *testing.T) {
	tests := []struct {
		name string
		step float64
		mx   float64
		want float64
	}{
		{"left edge", 0, 10, 0},
		{"middle", 0, 60, 50},
		{"past right edge clamps", 0, 500, 100},
		{"before left edge clamps", 0, -40, 0},
		{"stepped rounds", 10, 64, 50},
		{"stepped rounds up", 10, 66, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlider(10, 0, 100, "x", 0, 100, 30)
			s.Step = tt.step
			s.SetFromCursor(tt.mx)
			if math.Abs(s.Value-tt.want) > 1e-9 {
				t.Errorf("Value = %v, want %v", s.Value, tt.want)
			}
		})
	}
}

func TestSlider_ClampsInitialValue(t *testing.T) {
	s := NewSlider(0, 0, 100, "speed", 1, 10, 42)
	if s.Value != 10 {
		t.Errorf("Value = %v, want 10", s.Value)
	}
	if s.Ratio() != 1 {
		t.Errorf("Ratio = %v, want 1", s.Ratio())
	}
	if s.SetFromCursor(100) {
		t.Error("SetFromCursor reported a change for the same value")
	}
}

func TestCheckbox_TogglesOncePerPress(t *testing.T) {
	c := NewCheckbox(0, 0, "trails", false)
	c.press(true, true)
	if !c.Value || !c.Changed() {
		t.Fatal("first press did not toggle")
	}
	c.press(true, true) // still held
	if !c.Value || c.Changed() {
		t.Fatal("held button toggled again")
	}
	c.press(true, false)
	c.press(true, true)
	if c.Value {
		t.Error("second click did not toggle back")
	}
}

func TestButton_ClickOnce(t *testing.T) {
	clicks := 0
	b := NewButton(0, 0, 50, 20, "Reset", func() { clicks++ })
	b.press(true, true)
	b.press(true, true)
	b.press(false, false)
	b.press(true, true)
	if clicks != 2 {
		t.Errorf("clicks = %d, want 2", clicks)
	}
}

func TestUIPanel_Layout(t *testing.T) {
	p := NewUIPanel(10, 10, 200, 120)
	p.AddSection("Radii")
	s1 := p.AddSlider("Separation", 0, 100, 25)
	s2 := p.AddSlider("Alignment", 0, 100, 20)
	p.AddSection("View")
	c := p.AddCheckbox("Show radius", false)

	if s1.X != 20 || s2.Y <= s1.Y || c.Y <= s2.Y {
		t.Fatalf("widgets not stacked: %v/%v, %v, %v", s1.X, s1.Y, s2.Y, c.Y)
	}
	want := float64(titleHeight) + 2*sectionHeight + s1.Height() + s2.Height() + c.Height()
	if got := p.ContentHeight(); got != want {
		t.Errorf("ContentHeight = %v, want %v", got, want)
	}

	before := s1.Y
	p.Scroll(-1)
	if p.ScrollOffset != scrollStep || s1.Y != before-scrollStep {
		t.Errorf("after scroll: offset %v, slider y %v", p.ScrollOffset, s1.Y)
	}
	p.Scroll(-100)
	if limit := p.ContentHeight() - p.Height + 2*margin; p.ScrollOffset != limit {
		t.Errorf("ScrollOffset = %v, want clamped to %v", p.ScrollOffset, limit)
	}
	p.Scroll(100)
	if p.ScrollOffset != 0 {
		t.Errorf("ScrollOffset = %v, want 0", p.ScrollOffset)
	}
}
