package vin

import "github.com/otiai10/gosseract/v2"

// TesseractEngine implements Engine on top of a local Tesseract
// install via gosseract. A fresh client is created per call; the
// underlying C API is not safe for concurrent reuse.
type TesseractEngine struct{}

// SparseText runs Tesseract in sparse-text mode, which finds scattered
// words in no particular order. Works well when the VIN plate is a
// small region of a larger photo.
func (TesseractEngine) SparseText(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return "", err
	}
	return client.Text()
}

// BlockText runs Tesseract over the image as a single uniform block,
// restricted to the VIN alphabet so ambiguous glyphs resolve toward
// valid characters.
func (TesseractEngine) BlockText(image []byte) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", err
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", err
	}
	if err := client.SetWhitelist(Alphabet); err != nil {
		return "", err
	}
	return client.Text()
}
