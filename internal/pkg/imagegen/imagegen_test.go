package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panelforge/internal/config"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPollinations_Generate(t *testing.T) {
	pngData := tinyPNG(t)
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	}))
	defer srv.Close()

	p := NewPollinations(srv.URL, srv.Client())
	res, err := p.Generate(context.Background(), Request{Prompt: "a fox, at night", Width: 512, Height: 256})
	require.NoError(t, err)

	assert.Equal(t, pngData, res.Data)
	assert.Equal(t, "/prompt/a%20fox%2C%20at%20night", gotPath)
	assert.Contains(t, gotQuery, "width=512")
	assert.Contains(t, gotQuery, "height=256")
	assert.Contains(t, gotQuery, "nologo=true")
	assert.True(t, strings.HasPrefix(res.SourceURL, srv.URL+"/prompt/"))
}

func TestPollinations_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-2xx", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}},
		{"empty body", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
		}},
		{"html body", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html>rate limited</html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewPollinations(srv.URL, srv.Client()).Generate(context.Background(), Request{Prompt: "x", Width: 64, Height: 64})
			assert.Error(t, err)
		})
	}

	t.Run("status error carries code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := NewPollinations(srv.URL, srv.Client()).Generate(context.Background(), Request{Prompt: "x"})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	})
}

func TestFal_Generate(t *testing.T) {
	pngData := tinyPNG(t)
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var gotAuth string
	var gotBody falRequest
	mux.HandleFunc("/fal-ai/flux-pro", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"images": []map[string]string{{"url": srv.URL + "/files/out.png"}},
		})
	})
	mux.HandleFunc("/files/out.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(pngData)
	})

	f := NewFal(srv.URL, "", "secret", srv.Client())
	res, err := f.Generate(context.Background(), Request{Prompt: "a bear", Width: 512, Height: 512})
	require.NoError(t, err)

	assert.Equal(t, "Key secret", gotAuth)
	assert.Equal(t, "a bear", gotBody.Prompt)
	require.NotNil(t, gotBody.ImageSize)
	assert.Equal(t, 512, gotBody.ImageSize.Width)
	assert.Equal(t, pngData, res.Data)
	assert.Equal(t, srv.URL+"/files/out.png", res.SourceURL)
}

func TestFal_Failures(t *testing.T) {
	t.Run("missing key fails at call time", func(t *testing.T) {
		f := NewFal("http://127.0.0.1:1", "", "", http.DefaultClient)
		_, err := f.Generate(context.Background(), Request{Prompt: "x"})
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("no images", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"images":[]}`))
		}))
		defer srv.Close()

		_, err := NewFal(srv.URL, "", "k", srv.Client()).Generate(context.Background(), Request{Prompt: "x"})
		assert.Error(t, err)
	})

	t.Run("unauthorized", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		}))
		defer srv.Close()

		_, err := NewFal(srv.URL, "", "k", srv.Client()).Generate(context.Background(), Request{Prompt: "x"})
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
		assert.Contains(t, err.Error(), "bad key")
	})
}

func TestArk_MissingKey(t *testing.T) {
	_, err := NewArk("", "", "").Generate(context.Background(), Request{Prompt: "x", Width: 64, Height: 64})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{"", ProviderPollinations, false},
		{"pollinations", ProviderPollinations, false},
		{"fal", ProviderFal, false},
		{"ark", ProviderArk, false},
		{"dalle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			p, err := New(&config.ImageConfig{Provider: tt.provider})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestStyles(t *testing.T) {
	names := make([]string, 0)
	for _, s := range Styles() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"manga", "sketch", "anime", "comic", "ink", "webtoon"}, names)

	s, ok := LookupStyle("ink")
	require.True(t, ok)
	assert.Equal(t, "ink drawing, traditional ink art, brush strokes, monochrome, a crane", s.Enhance("a crane"))

	_, ok = LookupStyle("watercolor")
	assert.False(t, ok)
}
