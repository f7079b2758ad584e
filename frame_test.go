package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

// encodeDataURI is what canvas.toDataURL("image/png") sends.
func encodeDataURI(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return pngDataURI(buf.Bytes()), nil
}

func TestDataURIRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.Set(3, 2, color.RGBA{R: 255, A: 255})
	uri, err := encodeDataURI(src)
	if err != nil {
		t.Fatalf("encodeDataURI: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix: %.30s", uri)
	}
	img, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 6 {
		t.Fatalf("bounds changed: %v", img.Bounds())
	}
	if r, _, _, _ := img.At(3, 2).RGBA(); r != 0xffff {
		t.Fatalf("pixel lost in round trip")
	}
}

func TestDecodeDataURIEmptyMeansNoCamera(t *testing.T) {
	img, err := DecodeDataURI("  ")
	if img != nil || err != nil {
		t.Fatalf("expected nil, nil; got %v, %v", img, err)
	}
}

func TestDecodeDataURIRejectsGarbage(t *testing.T) {
	for _, s := range []string{
		"hello",
		"data:text/plain;base64,aGVsbG8=",
		"data:image/png,rawbytes",
		"data:image/png;base64,!!!",
		"data:image/png;base64,aGVsbG8=",
	} {
		if _, err := DecodeDataURI(s); err == nil {
			t.Errorf("DecodeDataURI(%q) succeeded", s)
		}
	}
}

func TestFitFrame(t *testing.T) {
	out := FitFrame(image.NewRGBA(image.Rect(0, 0, 640, 480)), 400, 300)
	if out.Bounds() != image.Rect(0, 0, 400, 300) {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	black := FitFrame(nil, 10, 10)
	if _, _, _, a := black.At(5, 5).RGBA(); a != 0xffff {
		t.Fatalf("nil frame should fit to opaque black")
	}
}
