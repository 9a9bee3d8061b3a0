package processing

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/Prathmesh2931/vision-processing-microservice/pkg/types"
)

// ErrNothingToAnnotate is returned when no detection carries a bounding
// box; callers fall back to the unannotated image.
var ErrNothingToAnnotate = errors.New("no bounding boxes to draw")

var boxColor = color.NRGBA{R: 0, G: 220, B: 60, A: 255}

const boxThickness = 3

// Annotate draws detection boxes on a copy of the image. The original is
// never modified. Detections without a box are skipped; if none has one,
// ErrNothingToAnnotate is returned so the caller can keep the original.
func (p *Processor) Annotate(img image.Image, dets []types.Detection) (image.Image, error) {
	boxes := 0
	for _, d := range dets {
		if d.BBox != nil {
			boxes++
		}
	}
	if boxes == 0 {
		return nil, ErrNothingToAnnotate
	}

	out := imaging.Clone(img)
	for _, d := range dets {
		if d.BBox == nil {
			continue
		}
		drawRect(out, d.BBox.X, d.BBox.Y, d.BBox.Width, d.BBox.Height)
	}
	return out, nil
}

func drawRect(img *image.NRGBA, x, y, w, h int) {
	for t := 0; t < boxThickness; t++ {
		drawHLine(img, x, x+w, y+t, boxColor)
		drawHLine(img, x, x+w, y+h-1-t, boxColor)
		drawVLine(img, x+t, y, y+h, boxColor)
		drawVLine(img, x+w-1-t, y, y+h, boxColor)
	}
}

func drawHLine(img *image.NRGBA, x0, x1, y int, c color.NRGBA) {
	if y < 0 || y >= img.Bounds().Dy() {
		return
	}
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if x1 <= 0 || x0 >= img.Bounds().Dx() {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > img.Bounds().Dx() {
		x1 = img.Bounds().Dx()
	}
	i := y*img.Stride + x0*4
	for x := x0; x < x1; x++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += 4
	}
}

func drawVLine(img *image.NRGBA, x, y0, y1 int, c color.NRGBA) {
	if x < 0 || x >= img.Bounds().Dx() {
		return
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	if y1 <= 0 || y0 >= img.Bounds().Dy() {
		return
	}
	if y0 < 0 {
		y0 = 0
	}
	if y1 > img.Bounds().Dy() {
		y1 = img.Bounds().Dy()
	}
	i := y0*img.Stride + x*4
	for y := y0; y < y1; y++ {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
		i += img.Stride
	}
}
