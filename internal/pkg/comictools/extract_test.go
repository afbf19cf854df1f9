package comictools

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"panelforge/internal/model/comic"
)

func TestExtractDialogue(t *testing.T) {
	Convey("ExtractDialogue 从描述中提取引语", t, func() {
		Convey("按顺序提取并判断类型与说话人", func() {
			desc := `Fox said, "Good morning." "GET OUT!" roared Bear. Fox wondered, "Was that rude?"`
			lines := ExtractDialogue(desc, 6)
			So(len(lines), ShouldEqual, 3)

			So(lines[0], ShouldResemble, comic.DialogueLine{Text: "Good morning.", BubbleType: comic.BubbleSpeech, Speaker: "Fox"})
			So(lines[1].BubbleType, ShouldEqual, comic.BubbleShout)
			So(lines[1].Speaker, ShouldEqual, "Bear")
			So(lines[2].BubbleType, ShouldEqual, comic.BubbleThought)
		})

		Convey("支持中文引号", func() {
			lines := ExtractDialogue("狐狸说：“你好。”", 2)
			So(len(lines), ShouldEqual, 1)
			So(lines[0].Text, ShouldEqual, "你好。")
		})

		Convey("数量上限", func() {
			lines := ExtractDialogue(`"a" "b" "c"`, 2)
			So(len(lines), ShouldEqual, 2)
		})

		Convey("没有引语时返回空切片", func() {
			lines := ExtractDialogue("A fox walks through the snow.", 2)
			So(lines, ShouldNotBeNil)
			So(lines, ShouldBeEmpty)
		})
	})
}
