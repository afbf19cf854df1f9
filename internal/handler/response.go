package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"panelforge/internal/pkg/apperr"
	httpresp "panelforge/internal/pkg/http"
)

// OK 返回成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, httpresp.NewSuccessResponse("success", data))
}

// Error 按错误类别返回统一错误外壳
func Error(c *gin.Context, err error) {
	status, code := apperr.HTTPStatus(err)

	resp := httpresp.NewErrorResponse(code, http.StatusText(status), err.Error())
	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.WithFields(ae.Fields)
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Int("status", status).Msg("request failed")
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

// BindError 将请求体绑定错误转换为带字段详情的校验错误
func BindError(c *gin.Context, op string, err error) {
	Error(c, ValidationFromBinding(op, err))
}

// ValidationFromBinding 从 validator 错误中提取字段级详情
func ValidationFromBinding(op string, err error) *apperr.Error {
	fields := map[string]string{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fieldName(fe)] = describe(fe)
		}
	case errors.As(err, &typeErr):
		fields[typeErr.Field] = "must be " + typeErr.Type.String()
	default:
		fields["body"] = err.Error()
	}
	return apperr.Validation(op, "invalid request", fields)
}

// fieldName 将 SplitScenesRequest.PanelCount 转换为 panel_count
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '[' {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
