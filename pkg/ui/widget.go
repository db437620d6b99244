package ui

import "github.com/hajimehoshi/ebiten/v2"

// Widget is anything the panel can lay out in a column.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	// Height is the vertical space the widget takes, label included.
	Height() float64
	// MoveTo places the widget's top-left corner.
	MoveTo(x, y float64)
	// Changed reports whether the last Update modified the widget's value.
	Changed() bool
}

// hit reports whether (mx, my) lies inside the rectangle.
func hit(mx, my int, x, y, w, h float64) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= x && fx <= x+w && fy >= y && fy <= y+h
}
