package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"validation", Field("scenes.split", "story", "required"), http.StatusBadRequest, CodeValidation},
		{"upstream", Upstream("images.generate", errors.New("timeout")), http.StatusBadGateway, CodeUpstream},
		{"render", Renderf("render.compose", "bubble out of bounds"), http.StatusInternalServerError, CodeRender},
		{"not found", NotFound("books.get", "book not found"), http.StatusNotFound, CodeNotFound},
		{"unavailable", Unavailable("books.get", "mongo not configured"), http.StatusServiceUnavailable, CodeUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := HTTPStatus(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("HTTPStatus() = (%d, %d), want (%d, %d)", status, code, tt.wantStatus, tt.wantCode)
			}
		})
	}
}

func TestError_Wrapping(t *testing.T) {
	Convey("错误类别在 %w 包装后仍可识别", t, func() {
		base := Upstream("dialogue.generate", errors.New("connection refused"))
		wrapped := fmt.Errorf("panel 3: %w", base)

		So(KindOf(wrapped), ShouldEqual, KindUpstream)
		So(Is(wrapped, KindUpstream), ShouldBeTrue)
		So(Is(wrapped, KindRender), ShouldBeFalse)
		So(wrapped.Error(), ShouldContainSubstring, "connection refused")
	})

	Convey("校验错误的消息包含字段详情", t, func() {
		err := Validation("images.generate", "invalid request", map[string]string{
			"style":  "unknown style",
			"prompt": "required",
		})
		So(err.Error(), ShouldEqual, "images.generate: invalid request (prompt: required; style: unknown style)")
	})

	Convey("FromStatus 保留下游的校验错误", t, func() {
		err := FromStatus("scenes", http.StatusBadRequest, "invalid request", map[string]string{"story": "required"})
		So(err.Kind, ShouldEqual, KindValidation)
		So(err.Fields["story"], ShouldEqual, "required")

		err = FromStatus("scenes", http.StatusBadGateway, "model timeout", nil)
		So(err.Kind, ShouldEqual, KindUpstream)
		So(err.Message, ShouldContainSubstring, "model timeout")
	})
}
