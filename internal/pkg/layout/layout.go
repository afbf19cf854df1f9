package layout

import (
	"image"
	"math"
	"sort"
	"unicode"

	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/comictools"
)

// Options 布局参数
type Options struct {
	Margin   int     // 气泡之间以及与图片边缘的间距
	MinWidth int     // 气泡最小宽度
	MaxWidth int     // 气泡最大宽度
	Padding  float64 // 文字与气泡边缘的内边距
}

// DefaultOptions 默认布局参数
func DefaultOptions() Options {
	return Options{Margin: 12, MinWidth: 120, MaxWidth: 320, Padding: 20}
}

// Place 为每句台词计算气泡位置
// scores 与 Regions(w, h) 一一对应，越小越适合；为 nil 时按固定顺序
// 结果数量等于 lines 数量，且每个气泡都完整位于图片内
func Place(w, h int, scores []float64, lines []comic.DialogueLine, opts Options) []comic.Placement {
	placements := make([]comic.Placement, 0, len(lines))
	if w <= 0 || h <= 0 {
		return placements
	}

	regions := rankRegions(Regions(w, h), scores)
	var placed []image.Rectangle

	for i, line := range lines {
		bt := comictools.NormalizeBubbleType(string(line.BubbleType), line.Text)
		fontSize := comictools.FontSize(bt, line.Text)
		bw, bh := bubbleSize(line.Text, fontSize, w, h, opts)

		box, region := choose(regions, placed, bw, bh, w, h, opts.Margin)
		placed = append(placed, box)

		placements = append(placements, comic.Placement{
			Index:         i + 1,
			Text:          line.Text,
			BubbleType:    bt,
			Speaker:       line.Speaker,
			X:             box.Min.X,
			Y:             box.Min.Y,
			Width:         box.Dx(),
			Height:        box.Dy(),
			TailDirection: TailFor(box, w, h),
			FontSize:      fontSize,
			Region:        region,
		})
	}
	return placements
}

// rankRegions 按分数升序排序，分数相同保持固定顺序
func rankRegions(regions []Region, scores []float64) []Region {
	if len(scores) != len(regions) {
		return regions
	}
	idx := make([]int, len(regions))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scores[idx[a]] < scores[idx[b]]
	})
	out := make([]Region, len(regions))
	for i, j := range idx {
		out[i] = regions[j]
	}
	return out
}

// choose 依次尝试：空闲区域 -> 列内堆叠 -> 允许重叠的最佳区域
func choose(regions []Region, placed []image.Rectangle, bw, bh, w, h, margin int) (image.Rectangle, string) {
	for _, r := range regions {
		box := centerIn(r.Rect, bw, bh, w, h, margin)
		if !overlapsAny(box, placed, margin) {
			return box, r.Name
		}
	}

	if box, ok := stack(placed, bw, bh, w, h, margin); ok {
		return box, "stacked"
	}

	return centerIn(regions[0].Rect, bw, bh, w, h, margin), regions[0].Name
}

// centerIn 将气泡居中放入区域，并限制在图片内
func centerIn(r image.Rectangle, bw, bh, w, h, margin int) image.Rectangle {
	cx := (r.Min.X + r.Max.X) / 2
	cy := (r.Min.Y + r.Max.Y) / 2
	x := clamp(cx-bw/2, inset(margin, bw, w), w-bw-inset(margin, bw, w))
	y := clamp(cy-bh/2, inset(margin, bh, h), h-bh-inset(margin, bh, h))
	return image.Rect(x, y, x+bw, y+bh)
}

// inset 尺寸允许时保留边距
func inset(margin, size, total int) int {
	if size+2*margin <= total {
		return margin
	}
	return 0
}

// stack 在左中右三列中，按剩余纵向空间从多到少寻找第一个不重叠的位置
func stack(placed []image.Rectangle, bw, bh, w, h, margin int) (image.Rectangle, bool) {
	type column struct {
		x    int
		free int
	}
	m := inset(margin, bw, w)
	xs := []int{m, (w - bw) / 2, w - bw - m}
	cols := make([]column, 0, len(xs))
	for _, x := range xs {
		span := image.Rect(x, 0, x+bw, h)
		used := 0
		for _, p := range placed {
			if p.Overlaps(span) {
				used += p.Dy() + margin
			}
		}
		cols = append(cols, column{x: x, free: h - used})
	}
	sort.SliceStable(cols, func(a, b int) bool { return cols[a].free > cols[b].free })

	my := inset(margin, bh, h)
	for _, c := range cols {
		ys := []int{my}
		for _, p := range placed {
			ys = append(ys, p.Max.Y+margin, p.Min.Y-margin-bh)
		}
		sort.Ints(ys)
		for _, y := range ys {
			if y < 0 || y+bh > h {
				continue
			}
			box := image.Rect(c.x, y, c.x+bw, y+bh)
			if !overlapsAny(box, placed, margin) {
				return box, true
			}
		}
	}
	return image.Rectangle{}, false
}

func overlapsAny(box image.Rectangle, placed []image.Rectangle, margin int) bool {
	grown := box.Inset(-margin)
	for _, p := range placed {
		if grown.Overlaps(p) {
			return true
		}
	}
	return false
}

// bubbleSize 按估算的文字宽度计算气泡尺寸
func bubbleSize(text string, fontSize float64, w, h int, opts Options) (int, int) {
	pad := opts.Padding
	textW := TextWidth(text, fontSize)

	bw := int(math.Ceil(textW + 2*pad))
	bw = clamp(bw, opts.MinWidth, opts.MaxWidth)
	if limit := w - 2*opts.Margin; bw > limit {
		bw = limit
	}
	if bw > w {
		bw = w
	}
	if bw < 1 {
		bw = 1
	}

	inner := float64(bw) - 2*pad
	if inner < fontSize {
		inner = fontSize
	}
	lines := int(math.Ceil(textW / inner))
	if lines < 1 {
		lines = 1
	}

	lineHeight := fontSize + 5
	bh := int(math.Ceil(float64(lines)*lineHeight + 2*pad + TailLength(0)))
	if limit := h - 2*opts.Margin; bh > limit {
		bh = limit
	}
	if bh > h {
		bh = h
	}
	if bh < 1 {
		bh = 1
	}
	return bw, bh
}

// TextWidth 估算文字宽度：CJK 按整字宽，其余按 0.55 字宽
func TextWidth(text string, fontSize float64) float64 {
	var n float64
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Han, r), unicode.Is(unicode.Hiragana, r),
			unicode.Is(unicode.Katakana, r), unicode.Is(unicode.Hangul, r):
			n += 1
		case unicode.IsSpace(r):
			n += 0.3
		case unicode.IsUpper(r):
			n += 0.68
		default:
			n += 0.55
		}
	}
	return n * fontSize
}

// TailLength 尖角长度；height 为 0 时返回布局时预留的长度
func TailLength(height float64) float64 {
	const max = 30
	if height <= 0 {
		return max
	}
	return math.Min(max, height/4)
}

// TailFor 由几何位置决定尖角方向
// 位于上方三分之二的气泡朝下，底部三分之一朝上；左右两侧的气泡朝向中心
func TailFor(box image.Rectangle, w, h int) comic.TailDirection {
	cx := (box.Min.X + box.Max.X) / 2
	cy := (box.Min.Y + box.Max.Y) / 2

	vertical := "bottom"
	if cy >= 2*h/3 {
		vertical = "top"
	}
	switch {
	case cx < w/3:
		return comic.TailDirection(vertical + "-right")
	case cx > 2*w/3:
		return comic.TailDirection(vertical + "-left")
	default:
		return comic.TailDirection(vertical)
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
