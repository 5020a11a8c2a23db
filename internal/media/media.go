// Package media validates and prepares the binary payloads arriving at the
// HTTP boundary: audio for transcription and screenshots for the vision
// locator.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

var (
	ErrEmptyPayload     = errors.New("media: empty payload")
	ErrUnknownFormat    = errors.New("media: unrecognized format")
	ErrPayloadTooLarge  = errors.New("media: payload exceeds size limit")
	ErrNotAnImage       = errors.New("media: payload is not a decodable image")
)

// maxVisionDimension bounds the longest screenshot side before the vision
// call; larger images only add latency and token cost.
const maxVisionDimension = 1024

// ValidateAudio sniffs the payload's magic bytes for the accepted audio
// container formats and enforces the size limit.
func ValidateAudio(data []byte, maxBytes int64) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	switch {
	case isWAV(data), isOGG(data), isMP3(data), isM4A(data), isFLAC(data), isWebM(data):
		return nil
	default:
		return ErrUnknownFormat
	}
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

func isOGG(data []byte) bool {
	return bytes.HasPrefix(data, []byte("OggS"))
}

func isMP3(data []byte) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	// Raw MPEG frame sync.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func isM4A(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp"))
}

func isFLAC(data []byte) bool {
	return bytes.HasPrefix(data, []byte("fLaC"))
}

func isWebM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0x1A, 0x45, 0xDF, 0xA3})
}

// PrepareScreenshot validates the image payload and downscales anything
// larger than the vision dimension bound, re-encoding as JPEG. Payloads
// already within bounds come back unchanged.
func PrepareScreenshot(data []byte, maxBytes int64) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPayload
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	if cfg.Width <= maxVisionDimension && cfg.Height <= maxVisionDimension {
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnImage, err)
	}
	resized := imaging.Fit(img, maxVisionDimension, maxVisionDimension, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
