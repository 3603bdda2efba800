package racetrack

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ByteArena/box2d"
	"github.com/fogleman/gg"
	"github.com/samuelfneumann/racetrack/timestep"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scale is the number of pixels per Box2D unit when rendering
const Scale float64 = 20.0

var (
	skyShade      = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	finishedShade = color.RGBA{R: 24, G: 92, B: 40, A: 255}
	crashedShade  = color.RGBA{R: 110, G: 28, B: 28, A: 255}

	wallColour       = color.RGBA{R: 255, G: 166, B: 0, A: 255}
	obstacleColour   = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	checkpointColour = color.RGBA{R: 77, G: 160, B: 255, A: 255}
	clearedColour    = color.RGBA{R: 77, G: 77, B: 128, A: 255}
	finishColour     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	agentColour      = color.RGBA{R: 128, G: 102, B: 230, A: 255}
	trailColour      = color.RGBA{R: 200, G: 200, B: 200, A: 120}
)

// worldToPixelCoord converts Box2D coordinates to pixel coordinates
func (r *Racetrack) worldToPixelCoord(x, y float64) (float64, float64) {
	bounds := r.sim.track.Bounds
	pixelX := Scale * (x - bounds.Min.X)
	pixelY := Scale * (bounds.Max.Y - y)

	return pixelX, pixelY
}

// Image renders the current state of the environment. The background
// is green if the last episode reached the finish and red if the agent
// crashed.
func (r *Racetrack) Image() image.Image {
	bounds := r.sim.track.Bounds
	size := r2.Sub(bounds.Max, bounds.Min)
	dc := gg.NewContext(int(size.X*Scale), int(size.Y*Scale))

	switch r.prevStep.EndType() {
	case timestep.ReachedFinish:
		dc.SetColor(finishedShade)
	case timestep.HitWall:
		dc.SetColor(crashedShade)
	default:
		dc.SetColor(skyShade)
	}
	dc.Clear()

	// Obstacles
	dc.SetColor(obstacleColour)
	for _, box := range r.sim.track.Obstacles {
		x, y := r.worldToPixelCoord(box.Min.X, box.Max.Y)
		dc.DrawRectangle(x, y, (box.Max.X-box.Min.X)*Scale,
			(box.Max.Y-box.Min.Y)*Scale)
	}
	dc.Fill()

	// Walls
	dc.SetColor(wallColour)
	dc.SetLineWidth(5.0)
	for _, wall := range r.sim.walls {
		sh := wall.GetFixtureList().M_shape.(*box2d.B2EdgeShape)
		x1, y1 := r.worldToPixelCoord(sh.M_vertex1.X, sh.M_vertex1.Y)
		x2, y2 := r.worldToPixelCoord(sh.M_vertex2.X, sh.M_vertex2.Y)
		dc.DrawLine(x1, y1, x2, y2)
	}
	dc.Stroke()

	// Checkpoints and finish
	course := r.controller.Course()
	cleared := r.controller.State().Checkpoint
	radius := r.sim.track.TargetRadius * Scale
	for i, p := range course.Checkpoints {
		x, y := r.worldToPixelCoord(p.X, p.Y)
		dc.DrawCircle(x, y, radius)
		if i < cleared {
			dc.SetColor(clearedColour)
		} else {
			dc.SetColor(checkpointColour)
		}
		dc.SetLineWidth(3.0)
		dc.Stroke()
	}
	fx, fy := r.worldToPixelCoord(course.Finish.X, course.Finish.Y)
	dc.DrawCircle(fx, fy, radius)
	dc.SetColor(finishColour)
	dc.SetLineWidth(3.0)
	dc.Stroke()

	// Trail
	if len(r.trail) > 1 {
		dc.SetColor(trailColour)
		dc.SetLineWidth(2.0)
		x, y := r.worldToPixelCoord(r.trail[0].X, r.trail[0].Y)
		dc.MoveTo(x, y)
		for _, p := range r.trail[1:] {
			x, y := r.worldToPixelCoord(p.X, p.Y)
			dc.LineTo(x, y)
		}
		dc.Stroke()
	}

	// Agent
	dc.SetColor(agentColour)
	agentFix := r.sim.agent.GetFixtureList()
	for agentFix != nil {
		trans := agentFix.M_body.M_xf
		switch shape := agentFix.M_shape.(type) {
		case *box2d.B2PolygonShape:
			dc.ClearPath()
			for i := 0; i < shape.M_count; i++ {
				vertex := box2d.B2TransformVec2Mul(trans, shape.M_vertices[i])
				x, y := r.worldToPixelCoord(vertex.X, vertex.Y)
				dc.LineTo(x, y)
			}
			dc.ClosePath()
			dc.Fill()

		case *box2d.B2CircleShape:
			centre := box2d.B2TransformVec2Mul(trans, shape.M_p)
			x, y := r.worldToPixelCoord(centre.X, centre.Y)
			dc.DrawCircle(x, y, shape.M_radius*Scale)
			dc.Fill()
		}
		agentFix = agentFix.M_next
	}

	return dc.Image()
}

// Render renders the current state of the environment to a PNG file
func (r *Racetrack) Render(filename string) error {
	if err := gg.SavePNG(filename, r.Image()); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}
