// Package docs registers the OpenAPI description served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/login": {
            "post": {
                "tags": ["users"],
                "summary": "Exchange credentials for a token",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AuthResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/register": {
            "post": {
                "tags": ["users"],
                "summary": "Create an employee account",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "List users for assignment",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.UserResponse"}}}
                }
            }
        },
        "/sprints": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["sprints"],
                "summary": "List sprints, completing the ones past their end date",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.SprintResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["sprints"],
                "summary": "Create a sprint (managers only)",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SprintRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.SprintResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/sprints/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["sprints"],
                "summary": "Edit a sprint (managers only)",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true, "description": "Sprint ID"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.SprintRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SprintResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "List every task with assignee and sprint resolved",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TaskResponse"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Create a task in an open sprint",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.TaskRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.TaskResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/batch-update": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Move several tasks to one status",
                "description": "Returns the full task list so the board can resynchronise.",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.BatchUpdateRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.TaskResponse"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Edit a task",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true, "description": "Task ID"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/handler.TaskRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.TaskResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true, "description": "Task ID"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.MessageResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.MessageResponse": {"type": "object", "properties": {"message": {"type": "string"}}},
        "handler.LoginRequest": {"type": "object", "required": ["username", "password"], "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "handler.AuthResponse": {"type": "object", "properties": {"token": {"type": "string"}, "role": {"type": "string"}}},
        "handler.RegisterRequest": {"type": "object", "required": ["username", "email", "password"], "properties": {"username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}}},
        "handler.SprintRequest": {"type": "object", "properties": {"name": {"type": "string"}, "startDate": {"type": "string"}, "endDate": {"type": "string"}, "status": {"type": "string", "enum": ["Pending", "Active", "Completed"]}}},
        "handler.SprintResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "startDate": {"type": "string"}, "endDate": {"type": "string"}, "status": {"type": "string"}}},
        "handler.TaskRequest": {"type": "object", "properties": {"title": {"type": "string"}, "description": {"type": "string"}, "status": {"type": "string", "enum": ["Planning", "Execution", "Review"]}, "priority": {"type": "string", "enum": ["high", "medium", "low"]}, "assignedTo": {"type": "string"}, "sprint": {"type": "string"}}},
        "handler.BatchUpdateRequest": {"type": "object", "properties": {"taskIds": {"type": "array", "items": {"type": "string"}}, "newStatus": {"type": "string", "enum": ["Planning", "Execution", "Review"]}}},
        "handler.TaskResponse": {"type": "object", "properties": {"id": {"type": "string"}, "title": {"type": "string"}, "description": {"type": "string"}, "status": {"type": "string"}, "priority": {"type": "string"}, "assigneeId": {"type": "string"}, "assignedTo": {"$ref": "#/definitions/handler.UserResponse"}, "sprintId": {"type": "string"}, "sprint": {"$ref": "#/definitions/handler.SprintResponse"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Task Board API",
	Description:      "Sprints, tasks and batch status transitions for a team task board.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
