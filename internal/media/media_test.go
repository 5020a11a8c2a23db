package media

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"
)

func TestValidateAudio_Formats(t *testing.T) {
	wav := append([]byte("RIFF"), 0, 0, 0, 0)
	wav = append(wav, []byte("WAVE")...)

	cases := []struct {
		name string
		data []byte
		ok   bool
	}{
		{"wav", wav, true},
		{"ogg", []byte("OggS....."), true},
		{"mp3 id3", []byte("ID3....."), true},
		{"mp3 frame", []byte{0xFF, 0xFB, 0x90, 0x00}, true},
		{"m4a", append([]byte{0, 0, 0, 0x20}, []byte("ftypM4A ")...), true},
		{"flac", []byte("fLaC...."), true},
		{"webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x00}, true},
		{"text", []byte("hello world"), false},
	}

	for _, tc := range cases {
		err := ValidateAudio(tc.data, 0)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected rejection", tc.name)
		}
	}
}

func TestValidateAudio_Empty(t *testing.T) {
	if err := ValidateAudio(nil, 0); !errors.Is(err, ErrEmptyPayload) {
		t.Errorf("expected ErrEmptyPayload, got %v", err)
	}
}

func TestValidateAudio_SizeLimit(t *testing.T) {
	wav := append([]byte("RIFF"), 0, 0, 0, 0)
	wav = append(wav, []byte("WAVE")...)
	wav = append(wav, make([]byte, 100)...)

	if err := ValidateAudio(wav, 10); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestPrepareScreenshot_SmallImageUnchanged(t *testing.T) {
	data := encodePNG(t, 400, 300)

	out, err := PrepareScreenshot(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, data) {
		t.Error("in-bounds image should pass through unchanged")
	}
}

func TestPrepareScreenshot_DownscalesLargeImage(t *testing.T) {
	data := encodePNG(t, 2048, 1536)

	out, err := PrepareScreenshot(data, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg output, got %s", format)
	}
	if cfg.Width > 1024 || cfg.Height > 1024 {
		t.Errorf("output not downscaled: %dx%d", cfg.Width, cfg.Height)
	}
}

func TestPrepareScreenshot_RejectsGarbage(t *testing.T) {
	if _, err := PrepareScreenshot([]byte("not an image"), 0); !errors.Is(err, ErrNotAnImage) {
		t.Errorf("expected ErrNotAnImage, got %v", err)
	}
}

func TestPrepareScreenshot_SizeLimit(t *testing.T) {
	data := encodePNG(t, 100, 100)
	if _, err := PrepareScreenshot(data, 10); !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("expected ErrPayloadTooLarge, got %v", err)
	}
}
