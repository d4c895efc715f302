package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	charW = 8
	charH = 16
)

// CanvasImage rasterizes c with each dot drawn in its cell color. The
// palette holds black plus the first 255 distinct colors found.
func CanvasImage(c *Canvas, fallback string) *image.Paletted {
	palette := color.Palette{color.Black}
	index := map[string]uint8{}

	lookup := func(hex string) uint8 {
		if i, ok := index[hex]; ok {
			return i
		}
		if len(palette) == 256 {
			return uint8(len(palette) - 1)
		}
		col, err := colorful.Hex(hex)
		if err != nil {
			col = colorful.Color{R: 1, G: 1, B: 1}
		}
		palette = append(palette, col)
		i := uint8(len(palette) - 1)
		index[hex] = i
		return i
	}

	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), nil)
	dotW, dotH := charW/2, charH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - blank)
			if pattern == 0 {
				continue
			}
			hex := c.Colors[row][col]
			if hex == "" {
				hex = fallback
			}
			ci := lookup(hex)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(col*charW+dx*dotW+px, row*charH+dy*dotH+py, ci)
						}
					}
				}
			}
		}
	}
	img.Palette = palette
	return img
}

func SaveGIF(path string, frames []*image.Paletted) error {
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
