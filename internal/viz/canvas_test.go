package viz

import (
	"bytes"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
)

func TestCanvasSet(t *testing.T) {
	tests := []struct {
		x, y int
		want rune
	}{
		{0, 0, 0x2801},
		{1, 0, 0x2808},
		{0, 3, 0x2840},
		{1, 3, 0x2880},
	}

	for _, tt := range tests {
		c := NewCanvas(1, 1)
		c.Set(tt.x, tt.y)
		if c.Grid[0][0] != tt.want {
			t.Errorf("Set(%d, %d) = %U, want %U", tt.x, tt.y, c.Grid[0][0], tt.want)
		}
		if !c.IsSet(tt.x, tt.y) {
			t.Errorf("IsSet(%d, %d) = false", tt.x, tt.y)
		}
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(-1, 0)
	c.Set(0, -1)
	c.SetColor(4, 0, "#ffffff")
	c.Set(0, 8)
	for _, row := range c.Grid {
		for _, r := range row {
			if r != blank {
				t.Fatalf("expected untouched canvas, got %U", r)
			}
		}
	}
}

func TestCanvasColorAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetColor(2, 1, "#ff0000")
	if c.Colors[0][1] != "#ff0000" {
		t.Errorf("expected cell color, got %q", c.Colors[0][1])
	}
	c.Clear()
	if c.Grid[0][1] != blank || c.Colors[0][1] != "" {
		t.Error("clear did not reset the cell")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0, "")
	for x := 0; x < 8; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("expected (%d, 0) set", x)
		}
	}
}

func TestCanvasFillCircle(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillCircle(10, 10, 3, "#00ff00")
	if !c.IsSet(10, 10) || !c.IsSet(13, 10) || !c.IsSet(10, 7) {
		t.Error("expected center and edge points set")
	}
	if c.IsSet(13, 13) {
		t.Error("corner of bounding box should stay clear")
	}

	c.Clear()
	c.FillCircle(4, 4, 0.2, "")
	if !c.IsSet(4, 4) {
		t.Error("sub-pixel radius should still draw one dot")
	}
}

func TestCanvasRender(t *testing.T) {
	c := NewCanvas(3, 1)
	c.SetColor(0, 0, "#ff0000")
	plain := c.String()
	if plain != string([]rune{0x2801, blank, blank})+"\n" {
		t.Errorf("unexpected plain render %q", plain)
	}
	if !strings.Contains(c.Render("#ffffff"), string(rune(blank))) {
		t.Error("colored render lost the blank cells")
	}
}

func TestViewportRoundTrip(t *testing.T) {
	c := NewCanvas(40, 20)
	v := NewViewport(physics.BoundaryView{X: 960, Y: 540, Radius: 540}, c)

	// the boundary spans the shorter canvas side minus the margin
	if want := 78.0 / 1080; v.Scale() != want {
		t.Errorf("expected scale %f, got %f", want, v.Scale())
	}

	x, y := v.ToCanvas(dynamo.Vec2{X: 960, Y: 540})
	if x != 40 || y != 40 {
		t.Errorf("expected center at (40, 40), got (%d, %d)", x, y)
	}

	p := v.ToWorld(x, y)
	if d := p.Sub(dynamo.Vec2{X: 960, Y: 540}).Length(); d > 1/v.Scale() {
		t.Errorf("round trip moved %f world units", d)
	}

	cell := v.CellToWorld(20, 10)
	if d := cell.Sub(dynamo.Vec2{X: 960, Y: 540}).Length(); d > 3/v.Scale() {
		t.Errorf("cell at canvas center maps %f units off", d)
	}
}

func TestDrawFrame(t *testing.T) {
	c := NewCanvas(40, 20)
	f := physics.Frame{
		Boundary:  physics.BoundaryView{X: 0, Y: 0, Radius: 100},
		Particles: []physics.ParticleView{{X: 0, Y: 0, Radius: 10, Color: "#123456"}},
	}
	v := NewViewport(f.Boundary, c)
	DrawFrame(c, v, f, "#444444")

	x, y := v.ToCanvas(dynamo.Vec2{})
	if !c.IsSet(x, y) {
		t.Error("particle center not drawn")
	}
	if c.Colors[y/4][x/2] != "#123456" {
		t.Errorf("particle color not applied, got %q", c.Colors[y/4][x/2])
	}
	bx, by := v.ToCanvas(dynamo.Vec2{X: 100})
	if !c.IsSet(bx, by) && !c.IsSet(bx-1, by) {
		t.Error("boundary edge not drawn")
	}
}

func TestSaveGIF(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillCircle(3, 3, 2, "#ff8800")
	c.Set(7, 7)
	img := CanvasImage(c, "#ffffff")

	if len(img.Palette) != 3 {
		t.Errorf("expected black plus two colors, got %d", len(img.Palette))
	}
	if b := img.Bounds(); b.Dx() != 4*charW || b.Dy() != 2*charH {
		t.Errorf("unexpected bounds %v", b)
	}

	path := filepath.Join(t.TempDir(), "out.gif")
	if err := SaveGIF(path, []*image.Paletted{img, img}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("expected 2 frames, got %d", len(anim.Image))
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("unexpected sparkline %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
}
