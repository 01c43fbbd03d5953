package compile

import (
	"math"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom/internal/timeline"
)

// Arrowhead geometry: two short segments off the terminal endpoint, rotated
// ±144° from the line direction, five stroke widths long, rasterized with a
// fixed sample count.
const (
	arrowheadAngle   = math.Pi * 0.8
	arrowheadScale   = 5
	arrowheadSamples = 8
)

// compileTextOverlays converts text overlays into draw operations. Client
// positions are percentages from the left and from the bottom; the canvas
// origin is top-left, so the vertical axis is inverted here.
func compileTextOverlays(overlays []timeline.TextOverlay) []TextDraw {
	var draws []TextDraw
	for _, o := range overlays {
		draws = append(draws, TextDraw{
			ID:       uuid.NewString(),
			Text:     o.Text,
			X:        o.X / 100,
			Y:        1 - o.Y/100,
			FontSize: o.FontSize,
			FontFam:  o.FontFam,
			Color:    o.Color,
			Start:    o.StartTime,
			End:      o.EndTime,
		})
	}
	return draws
}

// compileShapeOverlays rasterizes line and arrow overlays into rectangle
// fills, the only drawing primitive assumed available. All fills of one
// shape share its visibility window.
func compileShapeOverlays(overlays []timeline.ShapeOverlay) []BoxFill {
	var boxes []BoxFill
	for _, o := range overlays {
		x1 := o.X1 / 100 * CanvasWidth
		y1 := CanvasHeight - o.Y1/100*CanvasHeight
		x2 := o.X2 / 100 * CanvasWidth
		y2 := CanvasHeight - o.Y2/100*CanvasHeight

		length := math.Hypot(x2-x1, y2-y1)
		samples := int(math.Round(length / (float64(o.Width) * 0.8)))
		if samples < 10 {
			samples = 10
		}
		boxes = append(boxes, rasterizeLine(&o, x1, y1, x2, y2, samples)...)

		if o.Type == timeline.ShapeArrow {
			angle := math.Atan2(y2-y1, x2-x1)
			headLen := float64(o.Width * arrowheadScale)
			for _, da := range []float64{arrowheadAngle, -arrowheadAngle} {
				hx := x2 + math.Cos(angle+da)*headLen
				hy := y2 + math.Sin(angle+da)*headLen
				boxes = append(boxes, rasterizeLine(&o, x2, y2, hx, hy, arrowheadSamples)...)
			}
		}
	}
	return boxes
}

// rasterizeLine steps from (x1,y1) to (x2,y2) in samples+1 evenly spaced
// points (both endpoints included) and emits a stroke-width square centered
// on each, clamped to non-negative coordinates.
func rasterizeLine(o *timeline.ShapeOverlay, x1, y1, x2, y2 float64, samples int) []BoxFill {
	boxes := make([]BoxFill, 0, samples+1)
	for i := 0; i <= samples; i++ {
		t := float64(i) / float64(samples)
		cx := x1 + (x2-x1)*t
		cy := y1 + (y2-y1)*t

		x := int(math.Round(cx)) - o.Width/2
		y := int(math.Round(cy)) - o.Width/2
		if x < 0 {
			x = 0
		}
		if y < 0 {
			y = 0
		}

		boxes = append(boxes, BoxFill{
			ID:      uuid.NewString(),
			ShapeID: o.ID,
			X:       x,
			Y:       y,
			W:       o.Width,
			H:       o.Width,
			Color:   o.Color,
			Start:   o.StartTime,
			End:     o.EndTime,
		})
	}
	return boxes
}
