package pdfbook

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func pagePNG(t *testing.T, w, h int) Page {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 120, B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return Page{Data: buf.Bytes(), Width: w, Height: h}
}

func TestWrite(t *testing.T) {
	Convey("写入 PDF 绘本", t, func() {
		Convey("每张图片一页", func() {
			var out bytes.Buffer
			err := Write(&out, "A fox meets a bear", []Page{pagePNG(t, 64, 48), pagePNG(t, 64, 24)})
			So(err, ShouldBeNil)
			So(bytes.HasPrefix(out.Bytes(), []byte("%PDF-")), ShouldBeTrue)
			So(out.String(), ShouldContainSubstring, "/Count 2")
		})

		Convey("没有页面", func() {
			err := Write(&bytes.Buffer{}, "", nil)
			So(errors.Is(err, ErrNoPages), ShouldBeTrue)
		})

		Convey("空页面", func() {
			err := Write(&bytes.Buffer{}, "", []Page{{Width: 10, Height: 10}})
			So(err, ShouldNotBeNil)
		})

		Convey("无法解析的图片", func() {
			err := Write(&bytes.Buffer{}, "", []Page{{Data: []byte("not a png"), Width: 10, Height: 10}})
			So(err, ShouldNotBeNil)
		})
	})
}
