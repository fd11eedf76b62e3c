// Package overlay draws detection boxes and confidence labels onto an image.
package overlay

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/clone"
	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/internal/logger"
	"github.com/dj-oyu/rdk-x5_smart-pet-camera/ipc-dog/pkg/types"
)

// Pixel em size of the label face at FontScale 1.0.
const labelPixelsPerScale = 30.0

// DefaultJPEGQuality matches the usual encoder default for annotated frames.
const DefaultJPEGQuality = 95

// Result is an annotated image plus what was drawn on it.
type Result struct {
	Image  *image.RGBA
	Boxes  int
	Labels int
}

// Annotator renders detections with a fixed style. It is not safe for
// concurrent use because the font face keeps glyph state.
type Annotator struct {
	style Style
	face  font.Face
}

// NewAnnotator parses the embedded Go Regular face at the style's scale.
func NewAnnotator(style Style) (*Annotator, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse label font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    style.FontScale * labelPixelsPerScale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create label face: %w", err)
	}

	return &Annotator{style: style, face: face}, nil
}

// Close releases the font face.
func (a *Annotator) Close() error {
	if a.face == nil {
		return nil
	}
	err := a.face.Close()
	a.face = nil
	return err
}

// Label formats the text drawn above a detection, e.g. "dog 0.87".
func (a *Annotator) Label(d types.Detection) string {
	return fmt.Sprintf("%s %.2f", a.style.LabelPrefix, d.Confidence)
}

// Annotate draws dets onto a copy of src. src is never modified, and with no
// detections the copy is pixel-identical to it. Coordinates are relative to
// the image origin.
func (a *Annotator) Annotate(src image.Image, dets []types.Detection) (*Result, error) {
	if a.face == nil {
		return nil, errors.New("annotator closed")
	}

	dst := clone.AsRGBA(src)
	origin := dst.Bounds().Min
	res := &Result{Image: dst}

	for i, d := range dets {
		x, y := origin.X+int(d.X), origin.Y+int(d.Y)
		box := image.Rect(x, y, x+int(d.W), y+int(d.H))

		strokeRect(dst, box, a.style.Color, a.style.LineThickness)
		res.Boxes++

		label := a.Label(d)
		drawText(dst, a.face, image.Pt(x, y-a.style.LabelOffset), label, a.style.Color, a.style.TextThickness)
		res.Labels++

		logger.Debug("Overlay", "#%d class=%d %q box=(%d,%d)-(%d,%d)",
			i, d.ClassID, label, d.X, d.Y, d.X+d.W, d.Y+d.H)
	}

	return res, nil
}

// LoadImage decodes the image at path, applying EXIF orientation.
func LoadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	return img, nil
}

// SaveImage encodes img to path, choosing the format from the extension.
// The image is encoded into a temporary file in the same directory and
// renamed over path, so a failed write never leaves a partial file behind.
func SaveImage(img image.Image, path string, jpegQuality int) (err error) {
	if jpegQuality <= 0 || jpegQuality > 100 {
		jpegQuality = DefaultJPEGQuality
	}
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := imaging.Encode(tmp, img, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save image %s: %w", path, err)
	}
	return nil
}
