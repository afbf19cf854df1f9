package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"panelforge/internal/config"
	"panelforge/internal/pkg/imagegen"
	"panelforge/internal/pkg/storage"
	"panelforge/internal/pkg/storage/local"
)

func testConfig() *config.Config {
	return &config.Config{
		AI: config.AIConfig{Provider: "openai", Model: "test-model"},
		Image: config.ImageConfig{
			Provider:     imagegen.ProviderPollinations,
			DefaultStyle: "manga",
			Width:        320,
			Height:       240,
		},
		Pipeline: config.PipelineConfig{
			PanelCount:    6,
			LinesPerPanel: 2,
			SegmentPolicy: config.SegmentPolicyNormalize,
			DialogueMode:  config.DialogueModeLLM,
			Concurrency:   3,
			StepTimeout:   10 * time.Second,
		},
		Placement: config.PlacementConfig{Margin: 12, MinWidth: 100, MaxWidth: 240},
		Render:    config.RenderConfig{FontSize: 20, LineSpacing: 5, Padding: 20},
		Cache:     config.CacheConfig{Type: "memory", TTL: time.Minute},
	}
}

func newTestStorage(t *testing.T) storage.Storage {
	t.Helper()
	s, err := local.NewLocalStorage(t.TempDir(), "http://localhost:8000/download", 3600)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := uint8(200)
			// 右下角画满条纹，左上角保持平坦
			if x > w/2 && y > h/2 && (x+y)%4 < 2 {
				c = 20
			}
			img.Set(x, y, color.RGBA{R: c, G: c, B: c, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

// fakeProvider 返回固定图片的后端
type fakeProvider struct {
	data  []byte
	err   error
	calls int
	last  imagegen.Request
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(_ context.Context, req imagegen.Request) (*imagegen.Result, error) {
	f.calls++
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &imagegen.Result{Data: f.data, SourceURL: "https://example.com/x.png"}, nil
}

// minimalPNG 1x1 白色 PNG
var minimalPNG = func() []byte {
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}()
