package layout

import (
	"fmt"
	"image"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"panelforge/internal/model/comic"
)

func lines(n int) []comic.DialogueLine {
	out := make([]comic.DialogueLine, n)
	for i := range out {
		out[i] = comic.DialogueLine{Text: fmt.Sprintf("Line number %d is here.", i+1), BubbleType: comic.BubbleSpeech}
	}
	return out
}

func rect(p comic.Placement) image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

func TestPlace_Invariants(t *testing.T) {
	sizes := []struct{ w, h int }{
		{1024, 1024}, {512, 768}, {300, 200}, {64, 64}, {2048, 512},
	}
	for _, s := range sizes {
		for n := 0; n <= 6; n++ {
			t.Run(fmt.Sprintf("%dx%d/%d", s.w, s.h, n), func(t *testing.T) {
				got := Place(s.w, s.h, nil, lines(n), DefaultOptions())
				if len(got) != n {
					t.Fatalf("len = %d, want %d", len(got), n)
				}
				for _, p := range got {
					if p.X < 0 || p.Y < 0 || p.X+p.Width > s.w || p.Y+p.Height > s.h {
						t.Errorf("placement %d out of bounds: %+v", p.Index, p)
					}
					if p.Width <= 0 || p.Height <= 0 {
						t.Errorf("placement %d has empty size: %+v", p.Index, p)
					}
					if !p.TailDirection.Valid() {
						t.Errorf("placement %d tail %q", p.Index, p.TailDirection)
					}
				}
			})
		}
	}
}

func TestPlace(t *testing.T) {
	Convey("Place 贪心布局", t, func() {
		opts := DefaultOptions()

		Convey("大图上的气泡互不重叠", func() {
			got := Place(1024, 1024, nil, lines(6), opts)
			for i := range got {
				for j := i + 1; j < len(got); j++ {
					So(rect(got[i]).Overlaps(rect(got[j])), ShouldBeFalse)
				}
			}
		})

		Convey("无图片时按固定顺序，第一句在左上", func() {
			got := Place(1024, 1024, nil, lines(2), opts)
			So(got[0].Region, ShouldEqual, "top-left")
			So(got[0].Index, ShouldEqual, 1)
			So(got[1].Index, ShouldEqual, 2)
		})

		Convey("优先选择分数最低的区域", func() {
			scores := []float64{90, 90, 90, 90, 90, 90, 1, 90}
			got := Place(1024, 1024, scores, lines(1), opts)
			So(got[0].Region, ShouldEqual, "bottom-right")
			So(got[0].TailDirection, ShouldEqual, comic.TailTopLeft)
		})

		Convey("结果是确定的", func() {
			a := Place(800, 600, []float64{3, 1, 4, 1, 5, 9, 2, 6}, lines(5), opts)
			b := Place(800, 600, []float64{3, 1, 4, 1, 5, 9, 2, 6}, lines(5), opts)
			So(a, ShouldResemble, b)
		})

		Convey("宽度限制在最小与最大值之间", func() {
			short := Place(1024, 1024, nil, []comic.DialogueLine{{Text: "Hi"}}, opts)
			So(short[0].Width, ShouldEqual, opts.MinWidth)

			long := Place(1024, 1024, nil, []comic.DialogueLine{{Text: "This is a much longer line of dialogue that will surely need to wrap across lines"}}, opts)
			So(long[0].Width, ShouldEqual, opts.MaxWidth)
			So(long[0].Height, ShouldBeGreaterThan, short[0].Height)
		})

		Convey("缺失的气泡类型被推断", func() {
			got := Place(512, 512, nil, []comic.DialogueLine{{Text: "RUN!"}}, opts)
			So(got[0].BubbleType, ShouldEqual, comic.BubbleShout)
			So(got[0].FontSize, ShouldEqual, 24)
		})

		Convey("空间不足时仍在图内", func() {
			got := Place(200, 150, nil, lines(6), opts)
			So(len(got), ShouldEqual, 6)
			for _, p := range got {
				So(p.X+p.Width, ShouldBeLessThanOrEqualTo, 200)
				So(p.Y+p.Height, ShouldBeLessThanOrEqualTo, 150)
			}
		})
	})
}

func TestTailFor(t *testing.T) {
	tests := []struct {
		box  image.Rectangle
		want comic.TailDirection
	}{
		{image.Rect(0, 0, 100, 100), comic.TailBottomRight},
		{image.Rect(450, 0, 550, 100), comic.TailBottom},
		{image.Rect(900, 0, 1000, 100), comic.TailBottomLeft},
		{image.Rect(0, 900, 100, 1000), comic.TailTopRight},
		{image.Rect(450, 900, 550, 1000), comic.TailTop},
		{image.Rect(900, 900, 1000, 1000), comic.TailTopLeft},
	}
	for _, tt := range tests {
		if got := TailFor(tt.box, 1000, 1000); got != tt.want {
			t.Errorf("TailFor(%v) = %s, want %s", tt.box, got, tt.want)
		}
	}
}
