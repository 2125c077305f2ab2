package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ironsheep/gcode-tools-mcp/internal/config"
	"github.com/ironsheep/gcode-tools-mcp/internal/toolpath"
)

func writeSquarePNG(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= 4 && x < 12 && y >= 4 && y < 12 {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(dir, "square.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	input := writeSquarePNG(t, dir)
	output := filepath.Join(dir, "out.gcode")
	previewPath := filepath.Join(dir, "preview.png")

	err := runConvert(config.Default(), zerolog.Nop(), []string{
		"-input", input,
		"-output", output,
		"-preview", previewPath,
		"-feed", "600",
	})
	if err != nil {
		t.Fatalf("runConvert failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	text := string(data)
	if !strings.HasPrefix(text, toolpath.Banner+"\n") {
		t.Errorf("program should start with the banner")
	}
	if !strings.Contains(text, "F600 ; Set feed rate") {
		t.Errorf("program should use the requested feed")
	}
	if !strings.Contains(text, "; Path 1") {
		t.Errorf("program should contain at least one path")
	}

	if _, err := os.Stat(previewPath); err != nil {
		t.Errorf("preview not written: %v", err)
	}
}

func TestRunConvert_MissingInput(t *testing.T) {
	err := runConvert(config.Default(), zerolog.Nop(), []string{"-output", filepath.Join(t.TempDir(), "x.gcode")})
	if err == nil {
		t.Error("runConvert should fail without -input")
	}
}

func TestRunConvert_BadImage(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(input, []byte("not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	err := runConvert(config.Default(), zerolog.Nop(), []string{"-input", input, "-output", filepath.Join(dir, "x.gcode")})
	if err == nil {
		t.Error("runConvert should fail for an undecodable image")
	}
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	if !strings.Contains(buf.String(), "convert") {
		t.Error("usage should mention the convert command")
	}
}
