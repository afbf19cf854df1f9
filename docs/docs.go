// Package docs 注册 Swagger 文档，由 swag init 根据 handler 注解重新生成
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/books": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["绘本"],
                "summary": "生成绘本",
                "parameters": [{"description": "故事与参数", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/comic.CreateBookRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "请求参数错误", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "下游服务失败", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/books/{book_id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["绘本"],
                "summary": "查询绘本",
                "parameters": [{"type": "string", "description": "绘本ID", "name": "book_id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "绘本不存在", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/api/v1/scenes": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["分镜"],
                "summary": "拆分分镜",
                "parameters": [{"description": "故事", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/comic.SplitScenesRequest"}}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/images": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["画面"],
                "summary": "生成画面",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/dialogue": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["台词"],
                "summary": "生成台词",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/placements": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["布局"],
                "summary": "计算气泡位置",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/v1/render": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["渲染"],
                "summary": "渲染气泡",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "comic.CreateBookRequest": {
            "type": "object",
            "required": ["story"],
            "properties": {
                "story": {"type": "string"},
                "style": {"type": "string"},
                "panel_count": {"type": "integer"},
                "lines_per_panel": {"type": "integer"},
                "width": {"type": "integer"},
                "height": {"type": "integer"}
            }
        },
        "comic.SplitScenesRequest": {
            "type": "object",
            "required": ["story"],
            "properties": {
                "story": {"type": "string"},
                "panel_count": {"type": "integer"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "detail": {"type": "string"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Panelforge API",
	Description:      "故事转六格漫画的微服务接口",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
