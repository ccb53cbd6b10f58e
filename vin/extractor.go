package vin

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Engine runs OCR over a raw image and returns the recognized text.
// Pass 1 favors sparse scattered text, pass 2 reads the image as a
// single uniform block with the recognizer restricted to the VIN
// alphabet.
type Engine interface {
	SparseText(image []byte) (string, error)
	BlockText(image []byte) (string, error)
}

var (
	vinPattern  = regexp.MustCompile(`[A-HJ-NPR-Z0-9]{17}`)
	nonAlphaNum = regexp.MustCompile(`[^A-Z0-9]`)
)

// Extractor pulls a VIN out of a photo using a two-pass OCR strategy.
type Extractor struct {
	Engine Engine
}

// Extract returns the first valid VIN found in the image, or the empty
// string when nothing plausible is recognized. OCR failures are
// logged and degrade to the empty string; the caller never sees an
// error from a bad photo.
func (e *Extractor) Extract(image []byte) string {
	if text, err := e.Engine.SparseText(image); err != nil {
		zap.S().Warnw("vin ocr sparse pass failed", "error", err)
	} else if v := scanLines(text); v != "" {
		return v
	}

	text, err := e.Engine.BlockText(image)
	if err != nil {
		zap.S().Warnw("vin ocr block pass failed", "error", err)
		return ""
	}
	if v := scanBlock(text); v != "" {
		return v
	}
	zap.S().Debugw("no vin recognized in image")
	return ""
}

// scanLines checks each recognized line on its own. Plates usually put
// the VIN on a single line, so stripping separators line by line keeps
// neighboring text from gluing onto the number.
func scanLines(text string) string {
	for _, line := range strings.Split(text, "\n") {
		cleaned := nonAlphaNum.ReplaceAllString(strings.ToUpper(line), "")
		if m := vinPattern.FindString(cleaned); m != "" && Validate(m) {
			return m
		}
	}
	return ""
}

// scanBlock searches the whole recognized block after collapsing it to
// the VIN alphabet.
func scanBlock(text string) string {
	cleaned := nonAlphaNum.ReplaceAllString(strings.ToUpper(text), "")
	if m := vinPattern.FindString(cleaned); m != "" && Validate(m) {
		return m
	}
	return ""
}
