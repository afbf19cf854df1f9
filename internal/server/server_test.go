package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelforge/internal/ai"
	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/imagegen"
	"panelforge/internal/pkg/jwt"
	"panelforge/internal/pkg/storage"
	"panelforge/internal/pkg/storage/local"
)

type fakeImages struct{ data []byte }

func (f *fakeImages) Name() string { return "fake" }

func (f *fakeImages) Generate(context.Context, imagegen.Request) (*imagegen.Result, error) {
	return &imagegen.Result{Data: f.data}, nil
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 160, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Mode: "test"},
		Services: config.ServicesConfig{
			Orchestrator: config.EndpointConfig{Port: 8000},
			Scenes:       config.EndpointConfig{Port: 8001},
			Images:       config.EndpointConfig{Port: 8002},
			Dialogue:     config.EndpointConfig{Port: 8003},
			Placement:    config.EndpointConfig{Port: 8004},
			Renderer:     config.EndpointConfig{Port: 8005},
		},
		AI:    config.AIConfig{Provider: "openai", Model: "test"},
		Image: config.ImageConfig{Provider: "pollinations", DefaultStyle: "manga", Width: 256, Height: 256},
		Pipeline: config.PipelineConfig{
			PanelCount:    6,
			LinesPerPanel: 2,
			SegmentPolicy: config.SegmentPolicyNormalize,
			DialogueMode:  config.DialogueModeLLM,
			Concurrency:   3,
			StepTimeout:   30 * time.Second,
		},
		Placement: config.PlacementConfig{Margin: 10, MinWidth: 80, MaxWidth: 200},
		Render:    config.RenderConfig{FontSize: 18, LineSpacing: 5, Padding: 16},
		Auth:      config.AuthConfig{ServiceSecret: "test-secret", TokenExpiry: time.Minute},
		Storage: config.StorageConfig{
			Type:  "local",
			Local: &config.LocalConfig{BasePath: dir, BaseURL: "http://localhost:8000/download", PresignExpiry: 3600},
		},
	}
}

type cluster struct {
	cfg          *config.Config
	store        storage.Storage
	orchestrator *httptest.Server
	services     map[string]*httptest.Server
}

func (c *cluster) Close() {
	c.orchestrator.Close()
	for _, s := range c.services {
		s.Close()
	}
}

func newCluster(t *testing.T) *cluster {
	t.Helper()
	dir := t.TempDir()
	cfg := testConfig(dir)
	store, err := local.NewLocalStorage(dir, cfg.Storage.Local.BaseURL, 3600)
	require.NoError(t, err)

	sceneLLM := ai.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "1. A fox walks through the forest.\n2. The fox sees a bear.\n3. The bear growls.\n" +
			"4. The fox smiles. The fox offers berries.\n5. They share the berries.", nil
	})
	dialogueLLM := ai.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `[{"panel":1,"lines":[{"text":"What a lovely day.","bubble_type":"thought","speaker":"Fox"}]},
			{"panel":3,"lines":[{"text":"GRRR!","bubble_type":"shout","speaker":"Bear"},{"text":"Who are you?","bubble_type":"speech","speaker":"Bear"}]},
			{"panel":4,"lines":[{"text":"Want some berries?","bubble_type":"speech","speaker":"Fox"}]}]`, nil
	})

	c := &cluster{cfg: cfg, store: store, services: map[string]*httptest.Server{}}
	deps := map[string][]Option{
		config.ServiceScenes:    {WithTextGenerator(sceneLLM)},
		config.ServiceDialogue:  {WithTextGenerator(dialogueLLM)},
		config.ServiceImages:    {WithStorage(store), WithImageProvider(&fakeImages{data: testPNG(t, 256, 256)})},
		config.ServicePlacement: {WithStorage(store)},
		config.ServiceRenderer:  {WithStorage(store)},
	}
	for name, opts := range deps {
		srv, err := New(cfg, name, opts...)
		require.NoError(t, err)
		c.services[name] = httptest.NewServer(srv.Engine())

		ep, err := cfg.Services.Endpoint(name)
		require.NoError(t, err)
		ep.URL = c.services[name].URL
	}

	orch, err := New(cfg, config.ServiceOrchestrator, WithStorage(store))
	require.NoError(t, err)
	c.orchestrator = httptest.NewServer(orch.Engine())
	return c
}

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Detail  string            `json:"detail"`
	Fields  map[string]string `json:"fields"`
	Data    json.RawMessage   `json:"data"`
}

func postJSON(t *testing.T, url string, body any, header http.Header) (*http.Response, envelope) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestEndToEnd_FoxMeetsBear(t *testing.T) {
	c := newCluster(t)
	defer c.Close()

	resp, env := postJSON(t, c.orchestrator.URL+"/api/v1/books", comic.CreateBookRequest{Story: "A fox meets a bear"},
		http.Header{"X-Request-Id": []string{"e2e-1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, "detail: %s", env.Detail)
	assert.Equal(t, "e2e-1", resp.Header.Get("X-Request-ID"))

	var data struct {
		Book       comic.Book `json:"book"`
		Composites []string   `json:"composites"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))

	require.Len(t, data.Composites, 6)
	require.Len(t, data.Book.Panels, 6)
	assert.Equal(t, comic.BookStatusCompleted, data.Book.Status)

	for i, p := range data.Book.Panels {
		assert.Equal(t, i+1, p.Index)
		assert.NotEmpty(t, p.Description)
		require.NotNil(t, p.Composite)
		assert.Equal(t, data.Composites[i], p.Composite.URL)
		assert.True(t, strings.HasSuffix(p.Composite.Key, fmt.Sprintf("panel_%02d.png", i+1)))
		assert.Equal(t, 256, p.Composite.Width)
		assert.Equal(t, 256, p.Composite.Height)
		assert.Len(t, p.Placements, len(p.Dialogue))

		data, err := storage.ReadAll(context.Background(), c.store, p.Composite.Key)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
	assert.Len(t, data.Book.Panels[2].Dialogue, 2)
	assert.Len(t, data.Book.Pages, 2)

	// 产物可以通过编排器下载
	dl, err := http.Get(c.orchestrator.URL + "/download/" + data.Book.Panels[0].Composite.Key)
	require.NoError(t, err)
	defer dl.Body.Close()
	assert.Equal(t, http.StatusOK, dl.StatusCode)
	assert.Equal(t, "image/png", dl.Header.Get("Content-Type"))

	require.NotNil(t, data.Book.PDF)
	pdf, err := http.Get(c.orchestrator.URL + "/download/" + data.Book.PDF.Key)
	require.NoError(t, err)
	defer pdf.Body.Close()
	assert.Equal(t, http.StatusOK, pdf.StatusCode)
	assert.Equal(t, "application/pdf", pdf.Header.Get("Content-Type"))
}

func TestOrchestrator_Validation(t *testing.T) {
	c := newCluster(t)
	defer c.Close()

	tests := []struct {
		name      string
		body      any
		wantField string
	}{
		{name: "missing story", body: map[string]any{}, wantField: "story"},
		{name: "whitespace story", body: map[string]any{"story": "   "}, wantField: "story"},
		{name: "unknown style", body: map[string]any{"story": "x", "style": "oil"}, wantField: "style"},
		{name: "panel count too large", body: map[string]any{"story": "x", "panel_count": 50}, wantField: "panel_count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := postJSON(t, c.orchestrator.URL+"/api/v1/books", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, 40001, env.Code)
			assert.Contains(t, env.Fields, tt.wantField)
		})
	}
}

func TestServices_RequireToken(t *testing.T) {
	c := newCluster(t)
	defer c.Close()

	url := c.services[config.ServiceScenes].URL + "/api/v1/scenes"
	resp, env := postJSON(t, url, comic.SplitScenesRequest{Story: "A fox"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 40101, env.Code)

	// 发给其他服务的令牌不能复用
	token, err := jwt.NewJWT(c.cfg.Auth.ServiceSecret, time.Minute).GenerateToken("orchestrator", config.ServiceImages)
	require.NoError(t, err)
	resp, env = postJSON(t, url, comic.SplitScenesRequest{Story: "A fox"}, http.Header{"Authorization": []string{"Bearer " + token}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 40102, env.Code)

	token, err = jwt.NewJWT(c.cfg.Auth.ServiceSecret, time.Minute).GenerateToken("orchestrator", config.ServiceScenes)
	require.NoError(t, err)
	resp, env = postJSON(t, url, comic.SplitScenesRequest{Story: "A fox"}, http.Header{"Authorization": []string{"Bearer " + token}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var scenes comic.SplitScenesResponse
	require.NoError(t, json.Unmarshal(env.Data, &scenes))
	assert.Len(t, scenes.Scenes, 6)
}

func TestOrchestrator_Health(t *testing.T) {
	c := newCluster(t)
	defer c.Close()

	get := func() comic.HealthReport {
		resp, err := http.Get(c.orchestrator.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		var report comic.HealthReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		return report
	}

	report := get()
	assert.Equal(t, "healthy", report.Status)
	require.Len(t, report.Services, 5)
	for _, s := range report.Services {
		assert.Equal(t, "online", s.Status, s.Name)
	}

	c.services[config.ServiceRenderer].Close()
	report = get()
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "offline", report.Services[4].Status)
}

func TestImages_Styles(t *testing.T) {
	c := newCluster(t)
	defer c.Close()

	resp, err := http.Get(c.services[config.ServiceImages].URL + "/styles")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	var styles comic.StylesResponse
	require.NoError(t, json.Unmarshal(env.Data, &styles))
	assert.Len(t, styles.Styles, 6)
	assert.Equal(t, "fake", styles.Provider)
}

func TestOrchestrator_GetBookWithoutMongo(t *testing.T) {
	c := newCluster(t)
	defer c.Close()

	resp, err := http.Get(c.orchestrator.URL + "/api/v1/books/00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestNewRenderer_FontFallback(t *testing.T) {
	tests := []struct {
		name     string
		fontPath string
	}{
		{name: "built-in font", fontPath: ""},
		{name: "missing font file falls back", fontPath: "/nonexistent/font.ttf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t.TempDir())
			cfg.Render.FontPath = tt.fontPath

			renderer, err := newRenderer(&cfg.Render)
			require.NoError(t, err)
			require.NotNil(t, renderer)

			srv, err := New(cfg, config.ServiceRenderer)
			require.NoError(t, err)
			assert.NotNil(t, srv.renderer)
		})
	}
}
