// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/server/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/register": {
            "post": {
                "tags": ["Users"],
                "summary": "Register a user",
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/login": {
            "post": {
                "tags": ["Users"],
                "summary": "Log in with username or email",
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/me": {
            "get": {
                "tags": ["Users"],
                "summary": "Current user",
                "security": [{"BearerAuth": []}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users (admin)",
                "security": [{"BearerAuth": []}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/users/{id}": {
            "put": {
                "tags": ["Users"],
                "summary": "Update name and email",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/users/{id}/password": {
            "put": {
                "tags": ["Users"],
                "summary": "Change password",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/users/{id}/role": {
            "put": {
                "tags": ["Users"],
                "summary": "Change a user's role (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/users/{id}/active": {
            "put": {
                "tags": ["Users"],
                "summary": "Activate or deactivate a user (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/users/{id}/tasks": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List tasks assigned to a user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects": {
            "post": {
                "tags": ["Projects"],
                "summary": "Create a project",
                "security": [{"BearerAuth": []}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "get": {
                "tags": ["Projects"],
                "summary": "List projects",
                "security": [{"BearerAuth": []}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}": {
            "get": {
                "tags": ["Projects"],
                "summary": "Get a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "put": {
                "tags": ["Projects"],
                "summary": "Rename or describe a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "delete": {
                "tags": ["Projects"],
                "summary": "Delete a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}/deactivate": {
            "post": {
                "tags": ["Projects"],
                "summary": "Deactivate a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}/reactivate": {
            "post": {
                "tags": ["Projects"],
                "summary": "Reactivate a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}/transfer": {
            "post": {
                "tags": ["Projects"],
                "summary": "Transfer project ownership",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}/stats": {
            "get": {
                "tags": ["Projects"],
                "summary": "Task counts per status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}/tasks": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Create a task in a project",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "get": {
                "tags": ["Tasks"],
                "summary": "List a project's tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/projects/{id}/tasks/overdue": {
            "get": {
                "tags": ["Tasks"],
                "summary": "List a project's overdue tasks",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["Tasks"],
                "summary": "Get a task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "put": {
                "tags": ["Tasks"],
                "summary": "Patch a task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Delete a task and its comments",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/tasks/{id}/status": {
            "put": {
                "tags": ["Tasks"],
                "summary": "Move a task to another status",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/tasks/{id}/assign": {
            "post": {
                "tags": ["Tasks"],
                "summary": "Assign a user to a task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "delete": {
                "tags": ["Tasks"],
                "summary": "Remove the assignee from a task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/tasks/{id}/comments": {
            "post": {
                "tags": ["Comments"],
                "summary": "Comment on a task",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "get": {
                "tags": ["Comments"],
                "summary": "List a task's comments, newest first",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        },
        "/comments/{id}": {
            "put": {
                "tags": ["Comments"],
                "summary": "Edit a comment (author only)",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            },
            "delete": {
                "tags": ["Comments"],
                "summary": "Delete a comment",
                "security": [{"BearerAuth": []}],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"default": {"description": "see handler.ErrorResponse on failure"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Taskflow API",
	Description:      "Users own projects, projects contain tasks, tasks carry comments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
