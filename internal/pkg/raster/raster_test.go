package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecodeEncode(t *testing.T) {
	Convey("编解码", t, func() {
		data, err := EncodePNG(solid(30, 20, color.White))
		So(err, ShouldBeNil)

		w, h, err := DecodeConfig(data)
		So(err, ShouldBeNil)
		So(w, ShouldEqual, 30)
		So(h, ShouldEqual, 20)

		img, format, err := Decode(data)
		So(err, ShouldBeNil)
		So(format, ShouldEqual, "png")
		So(img.Bounds().Dx(), ShouldEqual, 30)

		Convey("JPEG 转为 PNG", func() {
			var buf bytes.Buffer
			So(jpeg.Encode(&buf, solid(16, 8, color.Black), nil), ShouldBeNil)
			out, w, h, err := ToPNG(buf.Bytes())
			So(err, ShouldBeNil)
			So(w, ShouldEqual, 16)
			So(h, ShouldEqual, 8)
			_, format, err := Decode(out)
			So(err, ShouldBeNil)
			So(format, ShouldEqual, "png")
		})

		Convey("空数据与非法数据", func() {
			_, _, err := Decode(nil)
			So(err, ShouldEqual, ErrEmptyImage)
			_, _, err = Decode([]byte("<html>"))
			So(err, ShouldNotBeNil)
			_, _, err = DecodeConfig([]byte("nope"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestBusyness(t *testing.T) {
	Convey("纯色区域不忙，棋盘格区域很忙", t, func() {
		img := solid(100, 100, color.White)
		for y := 0; y < 100; y++ {
			for x := 50; x < 100; x++ {
				if (x+y)%2 == 0 {
					img.Set(x, y, color.Black)
				}
			}
		}
		flat := Busyness(img, image.Rect(0, 0, 50, 100))
		busy := Busyness(img, image.Rect(50, 0, 100, 100))
		So(flat, ShouldEqual, 0)
		So(busy, ShouldBeGreaterThan, 100)
		So(busy, ShouldBeLessThanOrEqualTo, 255)

		So(Busyness(img, image.Rect(200, 200, 300, 300)), ShouldEqual, 0)
	})
}

func TestComposeGrid(t *testing.T) {
	Convey("2x2 排版", t, func() {
		opts := DefaultGridOptions()
		opts.CellWidth, opts.CellHeight, opts.Gutter = 100, 100, 10

		panels := []image.Image{
			solid(200, 200, color.Black),
			solid(200, 100, color.Black),
			solid(50, 50, color.Black),
		}
		page := ComposeGrid(panels, opts)
		So(page.Bounds().Dx(), ShouldEqual, 2*100+3*10)
		So(page.Bounds().Dy(), ShouldEqual, 2*100+3*10)

		// 第一格填满，第四格为空白
		So(color.GrayModel.Convert(page.At(60, 60)).(color.Gray).Y, ShouldBeLessThan, 10)
		So(color.GrayModel.Convert(page.At(170, 170)).(color.Gray).Y, ShouldEqual, 255)
		// 第二格宽图上下留白
		So(color.GrayModel.Convert(page.At(170, 15)).(color.Gray).Y, ShouldEqual, 255)
	})
}
