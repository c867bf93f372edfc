package document

import (
	"github.com/rzkyif/webgl2d/internal/geom"
	"github.com/rzkyif/webgl2d/internal/shape"
)

// NewSampleScene returns a small scene with one shape of each kind, used
// by the playground when there is no file to open.
func NewSampleScene() *Scene {
	scene := New()

	line := shape.NewLine(40, 40, 260, 120)
	_ = line.SetColor("#e94560")
	scene.Append(line)

	square := shape.NewSquare(80, 160, 120)
	_ = square.SetColor("#0f3460")
	scene.Append(square)

	hexagon := shape.NewPolygon(
		geom.Pt(360, 100),
		geom.Pt(420, 130),
		geom.Pt(420, 200),
		geom.Pt(360, 230),
		geom.Pt(300, 200),
		geom.Pt(300, 130),
	)
	_ = hexagon.SetColor("#16c79a")
	scene.Append(hexagon)

	return scene
}
