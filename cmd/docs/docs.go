// Package docs holds the swagger spec served at /swagger. Regenerate with swag init -g cmd/packhouse_backend/main.go -o cmd/docs.
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
        "/health": {
            "get": {
                "description": "Liveness probe. Not behind the session check.",
                "produces": ["application/json"],
                "tags": ["root"],
                "summary": "Show the status of server.",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/handlers.HealthResponse"}
                    }
                }
            }
        },
        "/login": {
            "get": {
                "description": "Returns the data the login page renders. Signed-in users are redirected to their landing page.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login page data",
                "parameters": [
                    {"type": "string", "description": "Path to return to after sign-in", "name": "next", "in": "query"},
                    {"type": "string", "description": "Error banner", "name": "error", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/dto.LoginPageResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "handlers.HealthResponse": {
            "type": "object",
            "properties": {"status": {"type": "string"}}
        },
        "dto.LoginPageResponse": {
            "type": "object",
            "properties": {
                "next": {"type": "string"},
                "error": {"type": "string"},
                "success": {"type": "string"},
                "googleLoginUrl": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "CookieAuth": {"type": "apiKey", "name": "atid", "in": "cookie"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Packhouse Portal API",
	Description:      "Role-based packhouse portal: grower work items, quality control, management KPIs and user administration.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
