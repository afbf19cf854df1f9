// Package bubble 在画面上绘制对白气泡
package bubble

import (
	"errors"
	"fmt"
	"image"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"

	"panelforge/internal/config"
	"panelforge/internal/model/comic"
	"panelforge/internal/pkg/layout"
	"panelforge/internal/pkg/raster"
)

const (
	minFontSize = 8
	lineWidth   = 4
	spikeCount  = 16
)

// ErrGeometry 气泡几何不合法
var ErrGeometry = errors.New("invalid bubble geometry")

// Options 渲染参数
type Options struct {
	FontPath    string  // 为空时使用内置 Go Bold 字体
	FontSize    float64 // 未指定字号时的默认值
	LineSpacing float64 // 行间距（像素）
	Padding     float64 // 文字与气泡边缘的距离
}

// OptionsFromConfig 从配置构造渲染参数
func OptionsFromConfig(cfg *config.RenderConfig) Options {
	opts := Options{FontSize: 20, LineSpacing: 5, Padding: 20}
	if cfg == nil {
		return opts
	}
	opts.FontPath = cfg.FontPath
	if cfg.FontSize > 0 {
		opts.FontSize = cfg.FontSize
	}
	if cfg.LineSpacing > 0 {
		opts.LineSpacing = cfg.LineSpacing
	}
	if cfg.Padding > 0 {
		opts.Padding = cfg.Padding
	}
	return opts
}

// Renderer 气泡渲染器，可并发使用
type Renderer struct {
	font    *truetype.Font
	opts    Options
	wrapper *Wrapper
}

// NewRenderer 创建渲染器并加载字体
func NewRenderer(opts Options) (*Renderer, error) {
	data := gobold.TTF
	if opts.FontPath != "" {
		b, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", opts.FontPath, err)
		}
		data = b
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 20
	}
	if opts.Padding < 0 {
		opts.Padding = 0
	}
	return &Renderer{font: f, opts: opts, wrapper: NewWrapper()}, nil
}

// Validate 检查所有气泡都落在 w×h 的画面内且类型、尖角合法
func Validate(w, h int, placements []comic.Placement) error {
	for i, p := range placements {
		switch {
		case p.Width <= 0 || p.Height <= 0:
			return fmt.Errorf("%w: placement %d has non-positive size %dx%d", ErrGeometry, i, p.Width, p.Height)
		case p.X < 0 || p.Y < 0 || p.X+p.Width > w || p.Y+p.Height > h:
			return fmt.Errorf("%w: placement %d (%d,%d %dx%d) exceeds image %dx%d", ErrGeometry, i, p.X, p.Y, p.Width, p.Height, w, h)
		case p.BubbleType != "" && !p.BubbleType.Valid():
			return fmt.Errorf("%w: placement %d has unknown bubble type %q", ErrGeometry, i, p.BubbleType)
		case p.TailDirection != "" && !p.TailDirection.Valid():
			return fmt.Errorf("%w: placement %d has unknown tail direction %q", ErrGeometry, i, p.TailDirection)
		}
	}
	return nil
}

// Render 将气泡绘制到 base 的副本上并编码为 PNG
// 相同输入总是得到相同字节
func (r *Renderer) Render(base image.Image, placements []comic.Placement) ([]byte, error) {
	dst := raster.ToRGBA(base)
	b := dst.Bounds()
	if err := Validate(b.Dx(), b.Dy(), placements); err != nil {
		return nil, err
	}
	if len(placements) == 0 {
		return raster.EncodePNG(dst)
	}

	dc := gg.NewContextForRGBA(dst)
	dc.SetLineJoin(gg.LineJoinRound)
	for _, p := range placements {
		if p.BubbleType == "" {
			p.BubbleType = comic.BubbleSpeech
		}
		if p.TailDirection == "" {
			p.TailDirection = layout.TailFor(image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height), b.Dx(), b.Dy())
		}
		r.draw(dc, p)
	}
	return raster.EncodePNG(dst)
}

// RenderBytes 解码图片后渲染
func (r *Renderer) RenderBytes(data []byte, placements []comic.Placement) ([]byte, error) {
	img, _, err := raster.Decode(data)
	if err != nil {
		return nil, err
	}
	return r.Render(img, placements)
}

// geometry 气泡主体与尖角区域
type geometry struct {
	x, y, w, h float64 // 整个占位框
	bodyY      float64 // 主体上边
	bodyH      float64
	tail       float64 // 尖角长度
	down       bool
	shift      float64 // 尖角末端水平偏移，-1 左 / 0 中 / 1 右
}

func geometryOf(p comic.Placement) geometry {
	g := geometry{
		x: float64(p.X), y: float64(p.Y),
		w: float64(p.Width), h: float64(p.Height),
		down: p.TailDirection.PointsDown(),
	}
	g.tail = layout.TailLength(g.h)
	g.bodyH = g.h - g.tail
	g.bodyY = g.y
	if !g.down {
		g.bodyY = g.y + g.tail
	}
	switch {
	case strings.HasSuffix(string(p.TailDirection), "-left"):
		g.shift = -1
	case strings.HasSuffix(string(p.TailDirection), "-right"):
		g.shift = 1
	}
	return g
}

func (r *Renderer) draw(dc *gg.Context, p comic.Placement) {
	g := geometryOf(p)
	// 先描边再填充，主体与尖角的交界线被白色覆盖
	var textX, textY, textW, textH float64
	switch p.BubbleType {
	case comic.BubbleThought:
		r.thoughtPath(dc, g)
		textX, textY = g.x+g.w*0.15, g.bodyY+g.bodyH*0.15
		textW, textH = g.w*0.7, g.bodyH*0.7
	case comic.BubbleShout:
		r.shoutPath(dc, g)
		textX, textY = g.x+g.w*0.2, g.y+g.h*0.2
		textW, textH = g.w*0.6, g.h*0.6
	default:
		r.speechPath(dc, g)
		textX, textY = g.x, g.bodyY
		textW, textH = g.w, g.bodyH
	}
	r.drawText(dc, p, textX, textY, textW, textH)
}

func (r *Renderer) strokeThenFill(dc *gg.Context, paths ...func()) {
	dc.SetLineWidth(lineWidth)
	dc.SetRGB(0, 0, 0)
	for _, path := range paths {
		path()
		dc.Stroke()
	}
	dc.SetRGB(1, 1, 1)
	for _, path := range paths {
		path()
		dc.Fill()
	}
}

func (r *Renderer) speechPath(dc *gg.Context, g geometry) {
	radius := math.Min(15, math.Min(g.w, g.bodyH)/4)
	body := func() { dc.DrawRoundedRectangle(g.x, g.bodyY, g.w, g.bodyH, radius) }

	cx := g.x + g.w/2
	half := math.Min(15, g.w/6)
	tipX := clampf(cx+g.shift*g.w/4, g.x+lineWidth, g.x+g.w-lineWidth)
	tail := func() {
		if g.down {
			baseY := g.bodyY + g.bodyH - lineWidth
			dc.MoveTo(cx-half, baseY)
			dc.LineTo(tipX, g.y+g.h-lineWidth/2)
			dc.LineTo(cx+half, baseY)
		} else {
			baseY := g.bodyY + lineWidth
			dc.MoveTo(cx-half, baseY)
			dc.LineTo(tipX, g.y+lineWidth/2)
			dc.LineTo(cx+half, baseY)
		}
		dc.ClosePath()
	}
	r.strokeThenFill(dc, body, tail)
}

func (r *Renderer) thoughtPath(dc *gg.Context, g geometry) {
	cx := g.x + g.w/2
	body := func() {
		dc.DrawEllipse(cx, g.bodyY+g.bodyH/2, g.w/2-lineWidth/2, g.bodyH/2-lineWidth/2)
	}
	// 两个逐渐变小的圆点从主体伸向说话者
	big := math.Max(2, g.tail*0.28)
	small := math.Max(1.5, g.tail*0.16)
	dx := g.shift * g.w / 8
	var y1, y2 float64
	if g.down {
		y1 = g.bodyY + g.bodyH + g.tail*0.35
		y2 = g.bodyY + g.bodyH + g.tail*0.78
	} else {
		y1 = g.bodyY - g.tail*0.35
		y2 = g.bodyY - g.tail*0.78
	}
	dot1 := func() { dc.DrawCircle(clampf(cx+dx, g.x+big, g.x+g.w-big), y1, big) }
	dot2 := func() { dc.DrawCircle(clampf(cx+2*dx, g.x+small, g.x+g.w-small), y2, small) }
	r.strokeThenFill(dc, body, dot1, dot2)
}

func (r *Renderer) shoutPath(dc *gg.Context, g geometry) {
	cx, cy := g.x+g.w/2, g.y+g.h/2
	rx, ry := g.w/2-lineWidth/2, g.h/2-lineWidth/2
	depth := math.Min(15, math.Min(rx, ry)/4)
	star := func() {
		for i := 0; i < spikeCount*2; i++ {
			angle := float64(i) * math.Pi / spikeCount
			sx, sy := rx, ry
			if i%2 == 1 {
				sx, sy = rx-depth, ry-depth
			}
			px, py := cx+sx*math.Cos(angle), cy+sy*math.Sin(angle)
			if i == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.ClosePath()
	}
	r.strokeThenFill(dc, star)
}

// drawText 在文字区内居中绘制，放不下时逐步缩小字号
func (r *Renderer) drawText(dc *gg.Context, p comic.Placement, x, y, w, h float64) {
	size := p.FontSize
	if size <= 0 {
		size = r.opts.FontSize
	}
	pad := math.Min(r.opts.Padding, w/4)
	maxWidth := math.Max(1, w-2*pad)

	var lines []string
	var face font.Face
	for {
		face = truetype.NewFace(r.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		dc.SetFontFace(face)
		lines = r.wrapper.Wrap(p.Text, maxWidth, func(s string) float64 {
			width, _ := dc.MeasureString(s)
			return width
		})
		if r.fits(dc, lines, maxWidth, h, size) || size <= minFontSize {
			break
		}
		face.Close()
		size = math.Max(minFontSize, size-1)
	}
	defer face.Close()

	lineHeight := size + r.opts.LineSpacing
	total := lineHeight * float64(len(lines))
	top := y + h/2 - total/2 + lineHeight/2
	dc.SetRGB(0, 0, 0)
	for i, line := range lines {
		dc.DrawStringAnchored(line, x+w/2, top+float64(i)*lineHeight, 0.5, 0.35)
	}
}

func (r *Renderer) fits(dc *gg.Context, lines []string, maxWidth, h, size float64) bool {
	if float64(len(lines))*(size+r.opts.LineSpacing) > h {
		return false
	}
	for _, line := range lines {
		if width, _ := dc.MeasureString(line); width > maxWidth {
			return false
		}
	}
	return true
}

func clampf(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
