// Package apperr 定义服务间统一的错误分类
//
// 三类错误与 HTTP 状态的对应关系：
//   - ValidationError: 请求体不合法，400，带字段级详情
//   - UpstreamError:   外部 API 或下游服务失败，502，透传上游消息
//   - RenderError:     合成阶段几何或图片数据错误，500
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind 错误类别
type Kind string

const (
	KindValidation  Kind = "validation"
	KindUpstream    Kind = "upstream"
	KindRender      Kind = "render"
	KindNotFound    Kind = "not_found"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// 业务错误码
const (
	CodeValidation  = 40001
	CodeNotFound    = 40401
	CodeRender      = 50001
	CodeInternal    = 50000
	CodeUpstream    = 50201
	CodeUnavailable = 50301
)

// Error 带类别的错误
type Error struct {
	Kind    Kind
	Op      string            // 出错的操作，如 "scenes.split"
	Message string            // 对外消息
	Fields  map[string]string // 字段级详情（仅 ValidationError）
	Err     error             // 原始错误
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, "; "))
		b.WriteString(")")
	}
	if e.Err != nil && e.Err.Error() != e.Message {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation 创建校验错误
func Validation(op, message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Fields: fields}
}

// Field 创建单字段校验错误
func Field(op, field, reason string) *Error {
	return Validation(op, "invalid request", map[string]string{field: reason})
}

// Upstream 创建上游错误
func Upstream(op string, err error) *Error {
	msg := "upstream call failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindUpstream, Op: op, Message: msg, Err: err}
}

// Upstreamf 创建格式化的上游错误
func Upstreamf(op, format string, args ...any) *Error {
	return &Error{Kind: KindUpstream, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Render 创建渲染错误
func Render(op string, err error) *Error {
	msg := "render failed"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: KindRender, Op: op, Message: msg, Err: err}
}

// Renderf 创建格式化的渲染错误
func Renderf(op, format string, args ...any) *Error {
	return &Error{Kind: KindRender, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFound 创建资源不存在错误
func NotFound(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}

// Unavailable 创建依赖不可用错误
func Unavailable(op, message string) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Message: message}
}

// KindOf 获取错误类别，非 *Error 视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于某类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus 返回错误对应的 HTTP 状态码与业务错误码
func HTTPStatus(err error) (status int, code int) {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest, CodeValidation
	case KindNotFound:
		return http.StatusNotFound, CodeNotFound
	case KindUpstream:
		return http.StatusBadGateway, CodeUpstream
	case KindRender:
		return http.StatusInternalServerError, CodeRender
	case KindUnavailable:
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// FromStatus 根据下游响应的 HTTP 状态恢复错误类别
// 编排器不做翻译：下游的校验错误原样冒泡为校验错误，其余都视为上游错误
func FromStatus(op string, status int, message string, fields map[string]string) *Error {
	if status == http.StatusBadRequest {
		return &Error{Kind: KindValidation, Op: op, Message: message, Fields: fields}
	}
	return &Error{Kind: KindUpstream, Op: op, Message: fmt.Sprintf("HTTP %d: %s", status, message)}
}
