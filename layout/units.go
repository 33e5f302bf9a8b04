package layout

// Conversion constants between points and pixels. The canvas font system
// takes face sizes in points while the engine works in pixel units; with the
// raster resolution fixed at one canvas unit per pixel, a face created at
// size*PxToPt points measures size pixels per em.
const (
	PtToPx = 0.352777
	PxToPt = 1.0 / PtToPx
)

// Bullet is the glyph the renderer prepends to list-item lines. The line
// breaker reserves its width so drawn list lines keep the width invariant.
const Bullet = "• "
