package ctxutil

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestID(t *testing.T) {
	Convey("请求ID存取", t, func() {
		_, ok := GetRequestID(context.Background())
		So(ok, ShouldBeFalse)

		ctx := WithRequestID(context.Background(), "rid-1")
		got, ok := GetRequestID(ctx)
		So(ok, ShouldBeTrue)
		So(got, ShouldEqual, "rid-1")

		_, ok = GetRequestID(WithRequestID(context.Background(), ""))
		So(ok, ShouldBeFalse)
	})
}
