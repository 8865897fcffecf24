package detect

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
}

func TestDirFrameSource(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "gold.png"))
	writePNG(t, filepath.Join(dir, "shop.png"))
	// A crop mid-rewrite reads as corrupt and is skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "board.png"), []byte("partial"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Non-png files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDirFrameSource(dir)
	if err != nil {
		t.Fatal(err)
	}
	frame, err := src.Next(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := frame.Region(ZoneGold); !ok {
		t.Error("gold zone missing")
	}
	if _, ok := frame.Region(ZoneShop); !ok {
		t.Error("shop zone missing")
	}
	if _, ok := frame.Region(ZoneBoard); ok {
		t.Error("corrupt board crop should be skipped")
	}
	if frame.Captured.IsZero() {
		t.Error("frame must carry a capture time")
	}
}

func TestDirFrameSourceEmptyDir(t *testing.T) {
	src, err := NewDirFrameSource(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := src.Next(context.Background()); err == nil {
		t.Error("an empty frame dir should error rather than produce a blank frame")
	}
}

func TestNewDirFrameSourceRejectsMissingDir(t *testing.T) {
	if _, err := NewDirFrameSource(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("missing dir must error at construction")
	}
}
