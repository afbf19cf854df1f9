package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage 空图片数据
var ErrEmptyImage = errors.New("empty image data")

// Decode 解码 PNG/JPEG/GIF/WebP
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyImage
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// DecodeConfig 只读取尺寸
func DecodeConfig(data []byte) (width, height int, err error) {
	if len(data) == 0 {
		return 0, 0, ErrEmptyImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// EncodePNG 编码为 PNG（默认压缩级别，输出稳定）
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPNG 将任意支持格式的图片转为 PNG，返回数据与尺寸
func ToPNG(data []byte) ([]byte, int, int, error) {
	img, format, err := Decode(data)
	if err != nil {
		return nil, 0, 0, err
	}
	b := img.Bounds()
	if format == "png" {
		return data, b.Dx(), b.Dy(), nil
	}
	out, err := EncodePNG(img)
	if err != nil {
		return nil, 0, 0, err
	}
	return out, b.Dx(), b.Dy(), nil
}

// ToRGBA 复制为以 (0,0) 为原点的 RGBA 图
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Busyness 区域内平均亮度梯度（0..255），越低越适合放气泡
// 为控制开销按 step 采样
func Busyness(img image.Image, r image.Rectangle) float64 {
	b := img.Bounds()
	r = r.Add(b.Min).Intersect(b)
	if r.Dx() < 2 || r.Dy() < 2 {
		return 0
	}

	step := 1
	if n := r.Dx() * r.Dy(); n > 160000 {
		step = 1 + n/160000
	}

	var sum float64
	var count int
	for y := r.Min.Y; y < r.Max.Y-1; y += step {
		for x := r.Min.X; x < r.Max.X-1; x += step {
			l := luminance(img.At(x, y))
			dx := luminance(img.At(x+1, y)) - l
			dy := luminance(img.At(x, y+1)) - l
			sum += abs(dx) + abs(dy)
			count++
		}
	}
	if count == 0 {
		return 0
	}
	v := sum / float64(count)
	if v > 255 {
		v = 255
	}
	return v
}

func luminance(c color.Color) float64 {
	g := color.GrayModel.Convert(c).(color.Gray)
	return float64(g.Y)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
