package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	"github.com/icza/mjpeg"

	"github.com/talgya/contagion/internal/agents"
	"github.com/talgya/contagion/internal/engine"
	"github.com/talgya/contagion/internal/lattice"
)

// Compartment colors for rendered frames. Empty cells stay white.
var compartmentColors = map[agents.Compartment]color.RGBA{
	agents.Susceptible: {R: 60, G: 160, B: 60, A: 255},
	agents.Infected:    {R: 200, G: 40, B: 40, A: 255},
	agents.Removed:     {R: 150, G: 150, B: 150, A: 255},
	agents.Dead:        {R: 20, G: 20, B: 20, A: 255},
}

// VideoRecorder appends one JPEG frame per tick to an MJPEG AVI, one
// scale×scale pixel block per lattice cell.
type VideoRecorder struct {
	grid  lattice.Torus
	scale int
	aw    mjpeg.AviWriter
	buf   bytes.Buffer
}

// NewVideoRecorder creates the output file. Close must be called to
// finalize the AVI index.
func NewVideoRecorder(path string, grid lattice.Torus, scale int, fps int32) (*VideoRecorder, error) {
	if scale < 1 {
		scale = 1
	}
	aw, err := mjpeg.New(path, int32(grid.Width*scale), int32(grid.Height*scale), fps)
	if err != nil {
		return nil, fmt.Errorf("create video %s: %w", path, err)
	}
	return &VideoRecorder{grid: grid, scale: scale, aw: aw}, nil
}

// AddFrame renders one tick's snapshot and appends it.
func (v *VideoRecorder) AddFrame(snapshot []engine.AgentState) error {
	img := image.NewRGBA(image.Rect(0, 0, v.grid.Width*v.scale, v.grid.Height*v.scale))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, a := range snapshot {
		c, ok := compartmentColors[a.Compartment]
		if !ok {
			return fmt.Errorf("undefined compartment %d in snapshot", a.Compartment)
		}
		block := image.Rect(a.X*v.scale, a.Y*v.scale, (a.X+1)*v.scale, (a.Y+1)*v.scale)
		draw.Draw(img, block, image.NewUniform(c), image.Point{}, draw.Src)
	}

	v.buf.Reset()
	if err := jpeg.Encode(&v.buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if err := v.aw.AddFrame(v.buf.Bytes()); err != nil {
		return fmt.Errorf("append frame: %w", err)
	}
	return nil
}

// Close finalizes the AVI file.
func (v *VideoRecorder) Close() error {
	return v.aw.Close()
}
