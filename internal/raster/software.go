package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	gomath "math"
	"os"

	"github.com/chewxy/math32"
	"golang.org/x/image/vector"

	"github.com/Faultbox/biocartoon/internal/engine/camera"
	"github.com/Faultbox/biocartoon/internal/engine/lighting"
	"github.com/Faultbox/biocartoon/pkg/math"
)

// capSegments is the number of edges used for a half-circle cap.
const capSegments = 8

// Software is a z-buffered software rasterizer. Triangles are Gouraud
// shaded with a headlight; cylinders, cones and lines are anti-aliased
// through x/image/vector coverage masks and shaded as round tubes.
//
// Depth is the view distance carried in ScreenPoint.Z; smaller is closer.
type Software struct {
	img        *image.RGBA
	depth      []float32
	background color.RGBA
	color      color.RGBA
	light      lighting.Light

	vr      *vector.Rasterizer
	maskBuf []uint8
	poly    []math.Vec2

	// Stats counts what was drawn since the last Clear.
	Stats Stats
}

// Stats counts rasterized primitives and pixels.
type Stats struct {
	Triangles int
	Shapes    int // cylinders, cones and lines
	Pixels    int // pixels that passed the depth test
}

// NewSoftware creates a w x h rasterizer cleared to background.
func NewSoftware(w, h int, background color.RGBA) *Software {
	s := &Software{
		img:        image.NewRGBA(image.Rect(0, 0, w, h)),
		depth:      make([]float32, w*h),
		background: background,
		color:      color.RGBA{255, 255, 255, 255},
		light:      lighting.Default(),
		vr:         vector.NewRasterizer(0, 0),
	}
	s.Clear()
	return s
}

// Clear fills the image with the background and resets depth and stats.
func (s *Software) Clear() {
	pix := s.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = s.background.R, s.background.G, s.background.B, s.background.A
	}
	if n := len(s.depth); n > 0 {
		s.depth[0] = gomath.MaxFloat32
		for i := 1; i < n; i *= 2 {
			copy(s.depth[i:], s.depth[:i])
		}
	}
	s.Stats = Stats{}
}

// Image returns the rendered image. It is reused by later frames.
func (s *Software) Image() *image.RGBA { return s.img }

// Width returns the image width.
func (s *Software) Width() int { return s.img.Rect.Dx() }

// Height returns the image height.
func (s *Software) Height() int { return s.img.Rect.Dy() }

// WritePNG encodes the image as PNG.
func (s *Software) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// SavePNG writes the image to a PNG file.
func (s *Software) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := s.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func (s *Software) SetColor(c color.RGBA) { s.color = c }

// SetLight sets the light used for triangles and the ambient level of
// tubes, which are always lit from the viewer.
func (s *Software) SetLight(l lighting.Light) { s.light = l }

// shade returns the light intensity for a view-space normal. Both faces
// are lit.
func (s *Software) shade(n math.Vec3) float32 {
	return s.light.Intensity(n)
}

// plot writes one pixel if it passes the depth test. Partial coverage is
// blended and only writes depth at half coverage or more.
func (s *Software) plot(x, y int, z, intensity float32, alpha uint8) {
	i := y*s.Width() + x
	if z >= s.depth[i] {
		return
	}
	intensity = min(max(intensity, 0), 1)
	r := float32(s.color.R) * intensity
	g := float32(s.color.G) * intensity
	b := float32(s.color.B) * intensity
	o := s.img.PixOffset(x, y)
	pix := s.img.Pix[o : o+4 : o+4]
	if alpha < 255 {
		a := float32(alpha) / 255
		r = r*a + float32(pix[0])*(1-a)
		g = g*a + float32(pix[1])*(1-a)
		b = b*a + float32(pix[2])*(1-a)
	}
	pix[0], pix[1], pix[2], pix[3] = uint8(r), uint8(g), uint8(b), 255
	if alpha >= 128 {
		s.depth[i] = z
	}
	s.Stats.Pixels++
}

// FillTriangle rasterizes a triangle with barycentric interpolation of
// depth and intensity. Triangles of either winding are drawn.
func (s *Software) FillTriangle(a, b, c camera.ScreenVertex) {
	area := edge(a.ScreenPoint, b.ScreenPoint, c.X, c.Y)
	if area == 0 {
		return
	}
	s.Stats.Triangles++
	ia, ib, ic := s.shade(a.Normal), s.shade(b.Normal), s.shade(c.Normal)

	minX := max(0, int(math32.Floor(min(a.X, b.X, c.X))))
	maxX := min(s.Width()-1, int(math32.Ceil(max(a.X, b.X, c.X))))
	minY := max(0, int(math32.Floor(min(a.Y, b.Y, c.Y))))
	maxY := min(s.Height()-1, int(math32.Ceil(max(a.Y, b.Y, c.Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float32(x)+0.5, float32(y)+0.5
			w0 := edge(b.ScreenPoint, c.ScreenPoint, px, py) / area
			w1 := edge(c.ScreenPoint, a.ScreenPoint, px, py) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.Z + w1*b.Z + w2*c.Z
			if z <= 0 {
				continue
			}
			s.plot(x, y, z, w0*ia+w1*ib+w2*ic, 255)
		}
	}
}

// edge is twice the signed area of (a, b, p).
func edge(a, b camera.ScreenPoint, px, py float32) float32 {
	return (b.X-a.X)*(py-a.Y) - (b.Y-a.Y)*(px-a.X)
}

// FillQuad splits the quad into (a, b, c) and (a, c, d).
func (s *Software) FillQuad(a, b, c, d camera.ScreenVertex) {
	s.FillTriangle(a, b, c)
	s.FillTriangle(a, c, d)
}

// FillCylinder fills a cylinder seen side on, optionally with round ends.
func (s *Software) FillCylinder(a, b camera.ScreenPoint, diameter float32, roundCaps bool) {
	r := max(diameter/2, 0.5)
	s.poly = tubeOutline(s.poly[:0], xy(a), xy(b), r, r, roundCaps)
	s.fillShape(a, b, r, r, true)
}

// FillCone fills a cone from a round base to a point.
func (s *Software) FillCone(base, tip camera.ScreenPoint, diameter float32) {
	r := max(diameter/2, 0.5)
	s.poly = tubeOutline(s.poly[:0], xy(base), xy(tip), r, 0, false)
	s.fillShape(base, tip, r, 0, true)
}

// DrawLine draws a one pixel line at full intensity.
func (s *Software) DrawLine(a, b camera.ScreenPoint) {
	s.poly = tubeOutline(s.poly[:0], xy(a), xy(b), 0.5, 0.5, false)
	s.fillShape(a, b, 0.5, 0.5, false)
}

func xy(p camera.ScreenPoint) math.Vec2 { return math.Vec2{X: p.X, Y: p.Y} }

// tubeOutline appends the outline of a tapered tube from a (radius ra) to
// b (radius rb). With round caps both ends get half circles.
func tubeOutline(out []math.Vec2, a, b math.Vec2, ra, rb float32, round bool) []math.Vec2 {
	dir := b.Sub(a).Normalize()
	if dir == (math.Vec2{}) {
		// Seen end on: a disc.
		r := max(ra, rb)
		out = append(out, a.Add(math.Vec2{X: r}))
		return arc(out, a, math.Vec2{X: 1}, r, 2*capSegments)
	}
	n := dir.Perp()
	out = append(out, a.Add(n.Scale(ra)), b.Add(n.Scale(rb)))
	if round && rb > 0 {
		out = arc(out, b, n, rb, capSegments)
	}
	out = append(out, b.Sub(n.Scale(rb)), a.Sub(n.Scale(ra)))
	if round && ra > 0 {
		out = arc(out, a, n.Scale(-1), ra, capSegments)
	}
	return out
}

// arc appends the interior points of an arc of segs steps of pi/capSegments
// around center, starting from direction from. The start and end points
// are not included.
func arc(out []math.Vec2, center, from math.Vec2, r float32, segs int) []math.Vec2 {
	step := -math32.Pi / capSegments
	for k := 1; k < segs; k++ {
		sin, cos := math32.Sincos(step * float32(k))
		d := math.Vec2{X: from.X*cos - from.Y*sin, Y: from.X*sin + from.Y*cos}
		out = append(out, center.Add(d.Scale(r)))
	}
	return out
}

// fillShape rasterizes s.poly through a coverage mask and shades each
// pixel by its position across the axis from a to b.
func (s *Software) fillShape(a, b camera.ScreenPoint, ra, rb float32, tube bool) {
	if len(s.poly) < 3 || a.Z <= 0 && b.Z <= 0 {
		return
	}
	minP, maxP := s.poly[0], s.poly[0]
	for _, p := range s.poly[1:] {
		minP = math.Vec2{X: min(minP.X, p.X), Y: min(minP.Y, p.Y)}
		maxP = math.Vec2{X: max(maxP.X, p.X), Y: max(maxP.Y, p.Y)}
	}
	bounds := image.Rect(
		int(math32.Floor(minP.X)), int(math32.Floor(minP.Y)),
		int(math32.Ceil(maxP.X))+1, int(math32.Ceil(maxP.Y))+1,
	).Intersect(s.img.Rect)
	if bounds.Empty() {
		return
	}
	s.Stats.Shapes++

	w, h := bounds.Dx(), bounds.Dy()
	ox, oy := float32(bounds.Min.X), float32(bounds.Min.Y)
	s.vr.Reset(w, h)
	s.vr.MoveTo(s.poly[0].X-ox, s.poly[0].Y-oy)
	for _, p := range s.poly[1:] {
		s.vr.LineTo(p.X-ox, p.Y-oy)
	}
	s.vr.ClosePath()

	if cap(s.maskBuf) < w*h {
		s.maskBuf = make([]uint8, w*h)
	}
	mask := &image.Alpha{Pix: s.maskBuf[:w*h], Stride: w, Rect: image.Rect(0, 0, w, h)}
	clear(mask.Pix)
	s.vr.Draw(mask, mask.Rect, image.Opaque, image.Point{})

	axis := xy(b).Sub(xy(a))
	len2 := axis.Dot(axis)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			alpha := mask.Pix[y*w+x]
			if alpha == 0 {
				continue
			}
			p := math.Vec2{X: float32(x) + ox + 0.5, Y: float32(y) + oy + 0.5}
			rel := p.Sub(xy(a))
			var t float32
			if len2 > 0 {
				t = min(max(rel.Dot(axis)/len2, 0), 1)
			}
			z := a.Z + (b.Z-a.Z)*t
			intensity := float32(1)
			if tube {
				r := ra + (rb-ra)*t
				q := float32(1)
				if r > 0 {
					q = min(rel.Sub(axis.Scale(t)).Length()/r, 1)
				}
				intensity = s.light.Ambient + (1-s.light.Ambient)*math32.Sqrt(1-q*q)
			}
			s.plot(x+bounds.Min.X, y+bounds.Min.Y, z, intensity, alpha)
		}
	}
}
