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

	"github.com/cristianadrielbraun/qrlogo/internal/scan"
)

func defaultOptions(out string) renderOptions {
	return renderOptions{
		Text:        "https://example.com/qrlogo",
		Out:         out,
		LogoPercent: 20,
		ECC:         "medium",
		Scale:       8,
		Border:      4,
		Encoder:     "skip2",
		Filter:      "lanczos",
	}
}

func TestRenderWithLogoScans(t *testing.T) {
	dir := t.TempDir()
	logoPath := filepath.Join(dir, "logo.png")
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(logoPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	o := defaultOptions(filepath.Join(dir, "out.png"))
	o.Logo = logoPath
	if err := runRender(o); err != nil {
		t.Fatalf("render: %v", err)
	}
	got, err := scan.File(o.Out)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got != o.Text {
		t.Fatalf("scanned %q, want %q", got, o.Text)
	}
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]func(*renderOptions){
		"ecc":      func(o *renderOptions) { o.ECC = "ultra" },
		"encoder":  func(o *renderOptions) { o.Encoder = "zint" },
		"scale":    func(o *renderOptions) { o.Scale = 0 },
		"logo":     func(o *renderOptions) { o.Logo = filepath.Join(dir, "missing.png") },
		"too long": func(o *renderOptions) { o.Text = strings.Repeat("a", 4000) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			o := defaultOptions(filepath.Join(dir, name+".png"))
			mutate(&o)
			if err := runRender(o); err == nil {
				t.Fatal("expected an error")
			}
			if _, err := os.Stat(o.Out); !os.IsNotExist(err) {
				t.Fatal("output written despite the error")
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "qrlogo ") {
		t.Fatalf("output = %q", out.String())
	}
}
