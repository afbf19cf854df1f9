package comic

// 各服务的请求/响应结构，服务端 handler 与编排器客户端共用

// SplitScenesRequest 场景切分请求
type SplitScenesRequest struct {
	Story      string `json:"story" binding:"required"`
	PanelCount int    `json:"panel_count,omitempty" binding:"omitempty,min=1,max=12"`
}

// SplitScenesResponse 场景切分响应
type SplitScenesResponse struct {
	Scenes []PanelDescription `json:"scenes"`
	Raw    int                `json:"raw_segments"` // 模型原始返回的有效段落数
}

// GenerateImageRequest 图片生成请求
type GenerateImageRequest struct {
	Prompt    string `json:"prompt" binding:"required"`
	Style     string `json:"style,omitempty"`
	Width     int    `json:"width,omitempty" binding:"omitempty,min=64,max=2048"`
	Height    int    `json:"height,omitempty" binding:"omitempty,min=64,max=2048"`
	OutputKey string `json:"output_key,omitempty"`
}

// GenerateImageResponse 图片生成响应
type GenerateImageResponse struct {
	ImageArtifact
	StyleUsed      string `json:"style_used"`
	EnhancedPrompt string `json:"enhanced_prompt"`
	Provider       string `json:"provider"`
}

// StyleInfo 画风信息
type StyleInfo struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// StylesResponse 画风列表响应
type StylesResponse struct {
	Styles   []StyleInfo `json:"styles"`
	Default  string      `json:"default"`
	Provider string      `json:"provider"`
}

// GenerateDialogueRequest 台词生成请求
type GenerateDialogueRequest struct {
	Descriptions  []string `json:"descriptions" binding:"required,min=1,max=12,dive,required"`
	LinesPerPanel *int     `json:"lines_per_panel,omitempty" binding:"omitempty,min=0,max=6"`
}

// GenerateDialogueResponse 台词生成响应
type GenerateDialogueResponse struct {
	Panels []PanelDialogue `json:"panels"`
	Mode   string          `json:"mode"`
}

// PlaceBubblesRequest 气泡布局请求
type PlaceBubblesRequest struct {
	Width    int            `json:"width,omitempty" binding:"omitempty,min=1"`
	Height   int            `json:"height,omitempty" binding:"omitempty,min=1"`
	ImageKey string         `json:"image_key,omitempty"`
	Lines    []DialogueLine `json:"lines" binding:"max=6,dive"`
}

// PlaceBubblesResponse 气泡布局响应
type PlaceBubblesResponse struct {
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Placements []Placement `json:"placements"`
}

// RenderRequest 气泡渲染请求
type RenderRequest struct {
	ImageKey   string      `json:"image_key" binding:"required"`
	Placements []Placement `json:"placements"`
	OutputKey  string      `json:"output_key,omitempty"`
}

// RenderResponse 气泡渲染响应
type RenderResponse struct {
	Composite
}

// CreateBookRequest 绘本生成请求
type CreateBookRequest struct {
	Story         string `json:"story" binding:"required"`
	Style         string `json:"style,omitempty"`
	PanelCount    int    `json:"panel_count,omitempty" binding:"omitempty,min=1,max=12"`
	LinesPerPanel *int   `json:"lines_per_panel,omitempty" binding:"omitempty,min=0,max=6"`
	Width         int    `json:"width,omitempty" binding:"omitempty,min=64,max=2048"`
	Height        int    `json:"height,omitempty" binding:"omitempty,min=64,max=2048"`
}

// ServiceStatus 下游服务状态
type ServiceStatus struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Status string `json:"status"` // online, error, offline
}

// HealthReport 编排器健康检查结果
type HealthReport struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceStatus `json:"services"`
}
