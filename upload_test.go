package vkreplay

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestRGBAToBGRA(t *testing.T) {
	got := rgbaToBGRA([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	want := []byte{3, 2, 1, 4, 7, 6, 5, 8}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLoadSourceImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 128, A: 128})

	file := filepath.Join(t.TempDir(), "source.png")
	f, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	pix, extent, err := LoadSourceImage(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if extent.Width != 2 || extent.Height != 1 {
		t.Fatalf("extent: %+v", extent)
	}
	if !bytes.Equal(pix[:4], []byte{0, 0, 255, 255}) {
		t.Fatalf("first pixel: %v", pix[:4])
	}
	if pix[4] != 128 || pix[6] != 0 || pix[7] != 128 {
		t.Fatalf("second pixel: %v", pix[4:8])
	}
}

func TestLoadSourceImageMissing(t *testing.T) {
	if _, _, err := LoadSourceImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadSourceImageBMP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	img.Set(2, 1, color.RGBA{G: 255, A: 255})

	file := filepath.Join(t.TempDir(), "source.bmp")
	f, err := os.Create(file)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	pix, extent, err := LoadSourceImage(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if extent.Width != 3 || extent.Height != 2 || len(pix) != 3*2*4 {
		t.Fatalf("extent %+v, %d bytes", extent, len(pix))
	}
	last := pix[len(pix)-4:]
	if !bytes.Equal(last, []byte{0, 255, 0, 255}) {
		t.Fatalf("last pixel: %v", last)
	}
}
