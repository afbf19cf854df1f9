package client

import (
	"context"
	"net/http"
	"sync"

	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/jwt"
)

// Services 五个下游服务的客户端集合
type Services struct {
	Scenes    *Client
	Images    *Client
	Dialogue  *Client
	Placement *Client
	Renderer  *Client
}

// NewServices 根据配置创建客户端，auth.service_secret 为空时不签发令牌
func NewServices(cfg *config.Config, httpClient *http.Client) *Services {
	var jwtUtil *jwt.JWT
	if cfg.Auth.ServiceSecret != "" {
		jwtUtil = jwt.NewJWT(cfg.Auth.ServiceSecret, cfg.Auth.TokenExpiry)
	}
	s := &cfg.Services
	return &Services{
		Scenes:    New(config.ServiceScenes, s.Scenes.URL, jwtUtil, httpClient),
		Images:    New(config.ServiceImages, s.Images.URL, jwtUtil, httpClient),
		Dialogue:  New(config.ServiceDialogue, s.Dialogue.URL, jwtUtil, httpClient),
		Placement: New(config.ServicePlacement, s.Placement.URL, jwtUtil, httpClient),
		Renderer:  New(config.ServiceRenderer, s.Renderer.URL, jwtUtil, httpClient),
	}
}

// SplitScenes 调用场景切分服务
func (s *Services) SplitScenes(ctx context.Context, req *comic.SplitScenesRequest) (*comic.SplitScenesResponse, error) {
	var out comic.SplitScenesResponse
	if err := s.Scenes.Post(ctx, "/api/v1/scenes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDialogue 调用台词生成服务
func (s *Services) GenerateDialogue(ctx context.Context, req *comic.GenerateDialogueRequest) (*comic.GenerateDialogueResponse, error) {
	var out comic.GenerateDialogueResponse
	if err := s.Dialogue.Post(ctx, "/api/v1/dialogue", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateImage 调用图片生成服务
func (s *Services) GenerateImage(ctx context.Context, req *comic.GenerateImageRequest) (*comic.GenerateImageResponse, error) {
	var out comic.GenerateImageResponse
	if err := s.Images.Post(ctx, "/api/v1/images", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlaceBubbles 调用气泡布局服务
func (s *Services) PlaceBubbles(ctx context.Context, req *comic.PlaceBubblesRequest) (*comic.PlaceBubblesResponse, error) {
	var out comic.PlaceBubblesResponse
	if err := s.Placement.Post(ctx, "/api/v1/placements", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Render 调用气泡渲染服务
func (s *Services) Render(ctx context.Context, req *comic.RenderRequest) (*comic.RenderResponse, error) {
	var out comic.RenderResponse
	if err := s.Renderer.Post(ctx, "/api/v1/render", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Probe 并发探测所有服务，结果按固定顺序
func (s *Services) Probe(ctx context.Context) []comic.ServiceStatus {
	clients := []*Client{s.Scenes, s.Images, s.Dialogue, s.Placement, s.Renderer}
	out := make([]comic.ServiceStatus, len(clients))

	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out[i] = comic.ServiceStatus{Name: c.Service(), URL: c.BaseURL(), Status: c.Probe(ctx)}
		}()
	}
	wg.Wait()
	return out
}
