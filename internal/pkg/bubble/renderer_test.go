package bubble

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"panelforge/internal/model/comic"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	return img
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return img
}

func TestRender(t *testing.T) {
	Convey("气泡渲染", t, func() {
		r, err := NewRenderer(Options{FontSize: 20, LineSpacing: 5, Padding: 20})
		So(err, ShouldBeNil)
		base := testImage(400, 300)

		placements := []comic.Placement{
			{Text: "Hello there!", BubbleType: comic.BubbleSpeech, X: 20, Y: 20, Width: 200, Height: 100, TailDirection: comic.TailBottomRight, FontSize: 20},
			{Text: "I wonder...", BubbleType: comic.BubbleThought, X: 230, Y: 20, Width: 160, Height: 100, TailDirection: comic.TailBottomLeft, FontSize: 20},
			{Text: "RUN!", BubbleType: comic.BubbleShout, X: 100, Y: 190, Width: 200, Height: 100, TailDirection: comic.TailTop, FontSize: 24},
		}

		Convey("输出尺寸与原图一致", func() {
			out, err := r.Render(base, placements)
			So(err, ShouldBeNil)
			img := decode(t, out)
			So(img.Bounds().Dx(), ShouldEqual, 400)
			So(img.Bounds().Dy(), ShouldEqual, 300)
		})

		Convey("相同输入得到相同字节", func() {
			a, err := r.Render(base, placements)
			So(err, ShouldBeNil)
			b, err := r.Render(base, placements)
			So(err, ShouldBeNil)
			So(bytes.Equal(a, b), ShouldBeTrue)
		})

		Convey("气泡内部被填成白色，框外保持原样", func() {
			out, err := r.Render(base, placements[:1])
			So(err, ShouldBeNil)
			img := decode(t, out)

			// 主体左上角内侧，避开文字
			cr, cg, cb, _ := img.At(30, 40).RGBA()
			So(cr>>8, ShouldEqual, 255)
			So(cg>>8, ShouldEqual, 255)
			So(cb>>8, ShouldEqual, 255)

			or, og, ob, _ := img.At(350, 250).RGBA()
			er, eg, eb, _ := base.At(350, 250).RGBA()
			So([]uint32{or, og, ob}, ShouldResemble, []uint32{er, eg, eb})
		})

		Convey("没有气泡时原样输出", func() {
			out, err := r.Render(base, nil)
			So(err, ShouldBeNil)
			img := decode(t, out)
			for _, pt := range []image.Point{{0, 0}, {123, 45}, {399, 299}} {
				gr, gg, gb, _ := img.At(pt.X, pt.Y).RGBA()
				er, eg, eb, _ := base.At(pt.X, pt.Y).RGBA()
				So([]uint32{gr, gg, gb}, ShouldResemble, []uint32{er, eg, eb})
			}
		})

		Convey("长文本会缩小字号而不是报错", func() {
			long := comic.Placement{
				Text:       "This is a much longer line of dialogue that cannot possibly fit at the requested size",
				BubbleType: comic.BubbleSpeech, X: 10, Y: 10, Width: 150, Height: 80,
				TailDirection: comic.TailBottom, FontSize: 22,
			}
			_, err := r.Render(base, []comic.Placement{long})
			So(err, ShouldBeNil)
		})

		Convey("中文文本按词折行", func() {
			cjk := comic.Placement{
				Text: "我们一起去森林里找狐狸吧", BubbleType: comic.BubbleSpeech,
				X: 10, Y: 10, Width: 200, Height: 120, TailDirection: comic.TailBottom, FontSize: 20,
			}
			_, err := r.Render(base, []comic.Placement{cjk})
			So(err, ShouldBeNil)
		})
	})
}

func TestValidate(t *testing.T) {
	ok := comic.Placement{Text: "hi", BubbleType: comic.BubbleSpeech, X: 0, Y: 0, Width: 100, Height: 60, TailDirection: comic.TailBottom}

	tests := []struct {
		name    string
		mutate  func(p *comic.Placement)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *comic.Placement) {}},
		{name: "empty bubble type defaults to speech", mutate: func(p *comic.Placement) { p.BubbleType = "" }},
		{name: "empty tail is derived", mutate: func(p *comic.Placement) { p.TailDirection = "" }},
		{name: "zero width", mutate: func(p *comic.Placement) { p.Width = 0 }, wantErr: true},
		{name: "negative height", mutate: func(p *comic.Placement) { p.Height = -5 }, wantErr: true},
		{name: "negative x", mutate: func(p *comic.Placement) { p.X = -1 }, wantErr: true},
		{name: "exceeds right edge", mutate: func(p *comic.Placement) { p.X = 250 }, wantErr: true},
		{name: "exceeds bottom edge", mutate: func(p *comic.Placement) { p.Y = 250 }, wantErr: true},
		{name: "unknown bubble type", mutate: func(p *comic.Placement) { p.BubbleType = "whisper" }, wantErr: true},
		{name: "unknown tail", mutate: func(p *comic.Placement) { p.TailDirection = "sideways" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ok
			tt.mutate(&p)
			err := Validate(300, 300, []comic.Placement{p})
			if tt.wantErr {
				if !errors.Is(err, ErrGeometry) {
					t.Errorf("Validate() error = %v, want ErrGeometry", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestRender_InvalidGeometry(t *testing.T) {
	r, err := NewRenderer(Options{})
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	_, err = r.Render(testImage(100, 100), []comic.Placement{{Text: "x", X: 50, Y: 50, Width: 100, Height: 100}})
	if !errors.Is(err, ErrGeometry) {
		t.Errorf("Render() error = %v, want ErrGeometry", err)
	}
}

func TestNewRenderer_MissingFont(t *testing.T) {
	if _, err := NewRenderer(Options{FontPath: "/nonexistent/font.ttf"}); err == nil {
		t.Error("NewRenderer() expected error for missing font file")
	}
}
