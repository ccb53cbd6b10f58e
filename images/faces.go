package images

import (
	"image"
	"os"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
)

// FaceBlurrer obscures any faces found in a stored image.
type FaceBlurrer interface {
	BlurFile(path string) error
}

// minFaceQuality filters out low-confidence cascade detections.
const minFaceQuality = 5.0

// PigoBlurrer finds faces with a pigo cascade classifier and blurs
// them beyond recognition.
type PigoBlurrer struct {
	classifier *pigo.Pigo
}

// NewPigoBlurrer loads the binary cascade file at cascadePath.
func NewPigoBlurrer(cascadePath string) (*PigoBlurrer, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, err
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, err
	}
	return &PigoBlurrer{classifier: classifier}, nil
}

// BlurFile detects faces in the image at path and overwrites the file
// with the blurred version. A photo with no faces is left untouched.
func (b *PigoBlurrer) BlurFile(path string) error {
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	regions := b.detect(img)
	if len(regions) == 0 {
		return nil
	}
	return imaging.Save(BlurRegions(img, regions), path)
}

func (b *PigoBlurrer) detect(img image.Image) []image.Rectangle {
	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()

	gray := imaging.Grayscale(img)
	pixels := make([]uint8, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			pixels[y*cols+x] = gray.Pix[gray.PixOffset(x, y)]
		}
	}

	params := pigo.CascadeParams{
		MinSize:     40,
		MaxSize:     1200,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}
	dets := b.classifier.ClusterDetections(b.classifier.RunCascade(params, 0.0), 0.2)

	var regions []image.Rectangle
	for _, d := range dets {
		if d.Q < minFaceQuality {
			continue
		}
		half := d.Scale / 2
		r := image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half).Intersect(bounds)
		if !r.Empty() {
			regions = append(regions, r)
		}
	}
	return regions
}

// BlurRegions returns a copy of img with each region blurred hard
// enough that a face is unrecognizable. Pixels outside the regions are
// untouched.
func BlurRegions(img image.Image, regions []image.Rectangle) *image.NRGBA {
	out := imaging.Clone(img)
	for _, r := range regions {
		r = r.Intersect(out.Bounds())
		if r.Empty() {
			continue
		}
		blurred := imaging.Blur(imaging.Crop(out, r), 30)
		out = imaging.Paste(out, blurred, r.Min)
	}
	return out
}
