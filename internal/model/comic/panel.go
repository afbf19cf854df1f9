package comic

// PanelDescription 分镜描述（由场景切分服务产出，序号从 1 开始）
type PanelDescription struct {
	Index       int    `json:"index" bson:"index"`
	Description string `json:"description" bson:"description"`
}

// DialogueLine 单句台词
type DialogueLine struct {
	Text       string     `json:"text" bson:"text" binding:"required"`
	BubbleType BubbleType `json:"bubble_type" bson:"bubble_type"`
	Speaker    string     `json:"speaker,omitempty" bson:"speaker,omitempty"`
}

// PanelDialogue 一格的台词集合
type PanelDialogue struct {
	Index int            `json:"index" bson:"index"`
	Lines []DialogueLine `json:"lines" bson:"lines"`
}

// ImageArtifact 生成的原始画面
type ImageArtifact struct {
	Key       string `json:"image_key" bson:"image_key"`
	URL       string `json:"image_url" bson:"image_url"`
	LocalFile string `json:"local_file,omitempty" bson:"local_file,omitempty"`
	SourceURL string `json:"source_url,omitempty" bson:"source_url,omitempty"` // 后端返回的远程地址
	Width     int    `json:"width" bson:"width"`
	Height    int    `json:"height" bson:"height"`
	Size      int64  `json:"size" bson:"size"`
}

// Placement 单个气泡的几何描述，(X, Y) 为气泡主体左上角
type Placement struct {
	Index         int           `json:"index" bson:"index"`
	Text          string        `json:"text" bson:"text"`
	BubbleType    BubbleType    `json:"bubble_type" bson:"bubble_type"`
	Speaker       string        `json:"speaker,omitempty" bson:"speaker,omitempty"`
	X             int           `json:"x" bson:"x"`
	Y             int           `json:"y" bson:"y"`
	Width         int           `json:"width" bson:"width"`
	Height        int           `json:"height" bson:"height"`
	TailDirection TailDirection `json:"tail_direction" bson:"tail_direction"`
	FontSize      float64       `json:"font_size" bson:"font_size"`
	Region        string        `json:"region,omitempty" bson:"region,omitempty"`
}

// Composite 合成后的最终画面
type Composite struct {
	Key          string `json:"image_key" bson:"image_key"`
	URL          string `json:"image_url" bson:"image_url"`
	LocalFile    string `json:"local_file,omitempty" bson:"local_file,omitempty"`
	Width        int    `json:"width" bson:"width"`
	Height       int    `json:"height" bson:"height"`
	BubblesAdded int    `json:"bubbles_added" bson:"bubbles_added"`
}
