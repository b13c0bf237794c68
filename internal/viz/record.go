package viz

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"

	"github.com/san-kum/gravbox/internal/dynamo"
)

// Recording accumulates canvas frames for an animated GIF.
type Recording struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewRecording() *Recording {
	palette := color.Palette{color.Black, color.White}
	for _, c := range []dynamo.Color{dynamo.Orange, dynamo.Green, "#d2b48c", "#a0a0a0", "#00ffff"} {
		r, g, b := parseHex(string(c))
		palette = append(palette, color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff})
	}
	return &Recording{palette: palette}
}

func (r *Recording) Len() int { return len(r.frames) }

// Capture rasterises the canvas, one 4x4 block per dot.
func (r *Recording) Capture(c *Canvas) {
	const charW, charH = 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), r.palette)

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			idx := uint8(1)
			if hex := c.Colors[row][col]; hex != "" && hex != dynamo.Black {
				cr, cg, cb := parseHex(string(hex))
				idx = uint8(r.palette.Index(color.RGBA{R: uint8(cr), G: uint8(cg), B: uint8(cb), A: 0xff}))
			}
			baseX, baseY := col*charW, row*charH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

func (r *Recording) Encode(out io.Writer) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	return gif.EncodeAll(out, &anim)
}

// Save writes the recording to path. An empty recording writes nothing.
func (r *Recording) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.Encode(f)
}
