package comic

// BubbleType 气泡类型
type BubbleType string

const (
	BubbleSpeech  BubbleType = "speech"  // 对白：圆角矩形 + 尖角
	BubbleThought BubbleType = "thought" // 心声：椭圆 + 小圆点
	BubbleShout   BubbleType = "shout"   // 喊叫：锯齿多边形
)

// Valid 是否为已知的气泡类型
func (t BubbleType) Valid() bool {
	switch t {
	case BubbleSpeech, BubbleThought, BubbleShout:
		return true
	}
	return false
}

// TailDirection 气泡尖角方向
type TailDirection string

const (
	TailBottom      TailDirection = "bottom"
	TailBottomLeft  TailDirection = "bottom-left"
	TailBottomRight TailDirection = "bottom-right"
	TailTop         TailDirection = "top"
	TailTopLeft     TailDirection = "top-left"
	TailTopRight    TailDirection = "top-right"
)

// Valid 是否为已知的尖角方向
func (d TailDirection) Valid() bool {
	switch d {
	case TailBottom, TailBottomLeft, TailBottomRight, TailTop, TailTopLeft, TailTopRight:
		return true
	}
	return false
}

// PointsDown 尖角是否朝下
func (d TailDirection) PointsDown() bool {
	return d == TailBottom || d == TailBottomLeft || d == TailBottomRight
}

// BookStatus 绘本生成状态
type BookStatus string

const (
	BookStatusRunning   BookStatus = "running"
	BookStatusCompleted BookStatus = "completed"
	BookStatusFailed    BookStatus = "failed"
)
