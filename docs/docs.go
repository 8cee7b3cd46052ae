// Package docs holds the swagger document served under /swagger. It follows
// the swag output layout and is kept in step with the handler annotations by
// the router tests; regenerate with `swag init -g cmd/api/main.go` after
// changing annotations.
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
        "/chat/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "현재 채팅 상태 조회",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ChatStateDTO"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/chat/stream": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["text/event-stream"],
                "tags": ["chat"],
                "summary": "채팅 상태 스트림 (SSE)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ChatStateDTO"}}
                }
            }
        },
        "/chat/messages": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "질의 제출",
                "parameters": [
                    {"description": "submit request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitMessageRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SubmitMessageResponseDTO"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}},
                    "404": {"description": "템플릿 없음", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}},
                    "409": {"description": "이미 처리 중인 질의가 있음", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/chat/select": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "세션 전환",
                "parameters": [
                    {"description": "select request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SelectSessionRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SelectSessionResponseDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/chat/sample-case": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["chat"],
                "summary": "예시 케이스 생성",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SampleCaseResponseDTO"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/sessions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "대화 세션 목록 조회",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListSessionsResponseDTO"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "대화 세션 생성",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.CreateSessionResponseDTO"}}
                }
            }
        },
        "/sessions/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "대화 세션 이름 변경",
                "parameters": [
                    {"type": "string", "description": "세션 ID", "name": "id", "in": "path", "required": true},
                    {"description": "rename request", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.RenameSessionRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponseDTO"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "대화 세션 삭제",
                "parameters": [
                    {"type": "string", "description": "세션 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponseDTO"}},
                    "409": {"description": "처리 중인 활성 세션", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/templates": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "분석 템플릿 목록",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ListTemplatesResponseDTO"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "분석 템플릿 생성",
                "parameters": [
                    {"description": "template", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SaveTemplateRequestDTO"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.TemplateDTO"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponseDTO"}}
                }
            }
        },
        "/templates/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "분석 템플릿 수정",
                "parameters": [
                    {"type": "string", "description": "템플릿 ID", "name": "id", "in": "path", "required": true},
                    {"description": "template", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SaveTemplateRequestDTO"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.TemplateDTO"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "분석 템플릿 삭제",
                "parameters": [
                    {"type": "string", "description": "템플릿 ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.MessageResponseDTO"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponseDTO": {"type": "object", "properties": {"error": {"type": "string", "example": "invalid_request"}}},
        "dto.MessageResponseDTO": {"type": "object", "properties": {"message": {"type": "string", "example": "deleted"}}},
        "dto.ChatMessageDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "text": {"type": "string"},
                "is_user": {"type": "boolean"},
                "documents": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "analysis": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "dto.ChatStateDTO": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/dto.ChatMessageDTO"}},
                "loading_documents": {"type": "boolean"},
                "loading_analysis": {"type": "boolean"}
            }
        },
        "dto.SubmitMessageRequestDTO": {
            "type": "object",
            "required": ["message"],
            "properties": {
                "message": {"type": "string"},
                "template_id": {"type": "string"},
                "template_name": {"type": "string"}
            }
        },
        "dto.SubmitMessageResponseDTO": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "outcome": {"type": "string", "example": "completed"},
                "state": {"$ref": "#/definitions/dto.ChatStateDTO"}
            }
        },
        "dto.SelectSessionRequestDTO": {"type": "object", "properties": {"session_id": {"type": "string"}}},
        "dto.SelectSessionResponseDTO": {
            "type": "object",
            "properties": {
                "session_id": {"type": "string"},
                "state": {"$ref": "#/definitions/dto.ChatStateDTO"}
            }
        },
        "dto.SampleCaseResponseDTO": {"type": "object", "properties": {"case": {"type": "string"}}},
        "dto.SessionSummaryDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "display_title": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.ListSessionsResponseDTO": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/dto.SessionSummaryDTO"}}}},
        "dto.CreateSessionResponseDTO": {"type": "object", "properties": {"id": {"type": "string"}}},
        "dto.RenameSessionRequestDTO": {"type": "object", "required": ["title"], "properties": {"title": {"type": "string"}}},
        "dto.TemplateDTO": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "content": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "dto.ListTemplatesResponseDTO": {"type": "object", "properties": {"items": {"type": "array", "items": {"$ref": "#/definitions/dto.TemplateDTO"}}}},
        "dto.SaveTemplateRequestDTO": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "content": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Research Chat API",
	Description:      "Chat sessions over clinical research retrieval and analysis",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
