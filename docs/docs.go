// Package docs holds the generated swagger spec. Regenerate with:
//
//	swag init -g runtime/main.go -o docs
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
        "/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Ping",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "registerRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "loginRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/forgotpassword": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Request a password reset",
                "parameters": [
                    {
                        "description": "Account email",
                        "name": "forgotPasswordRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ForgotPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/resetpassword": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Reset password",
                "parameters": [
                    {
                        "description": "Email, reset code and new password",
                        "name": "resetPasswordRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ResetPasswordRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/tasks": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List quests",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Create a quest",
                "parameters": [
                    {
                        "description": "Quest details",
                        "name": "createTaskRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CreateTaskRequest"}
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/shared.Response"}
                    }
                }
            }
        },
        "/api/v1/tasks/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a quest",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Quest ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Update a quest",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Quest ID"},
                    {
                        "description": "Fields to update",
                        "name": "updateTaskRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.UpdateTaskRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Delete a quest",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Quest ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/tasks/{id}/complete": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Complete a quest",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Quest ID"},
                    {
                        "description": "Actual time spent in minutes",
                        "name": "completeTaskRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.CompleteTaskRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["achievements"],
                "summary": "Get user stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/achievements/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["achievements"],
                "summary": "Get achievement stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/challenges/daily": {
            "get": {
                "produces": ["application/json"],
                "tags": ["challenges"],
                "summary": "Get the daily challenge",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/challenges/{id}/complete": {
            "put": {
                "produces": ["application/json"],
                "tags": ["challenges"],
                "summary": "Complete a challenge",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true, "description": "Challenge ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/leaderboard": {
            "get": {
                "produces": ["application/json"],
                "tags": ["leaderboard"],
                "summary": "Get the leaderboard",
                "parameters": [
                    {"type": "string", "name": "timeframe", "in": "query", "description": "weekly | monthly | all-time"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/profile": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Update profile",
                "parameters": [
                    {
                        "description": "Fields to update",
                        "name": "updateProfileRequest",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.UpdateProfileRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/profile/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Get profile stats",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/profile/avatar": {
            "put": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["profile"],
                "summary": "Upload avatar",
                "parameters": [
                    {"type": "file", "name": "avatar", "in": "formData", "required": true, "description": "Avatar image"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        }
    },
    "definitions": {
        "shared.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {}
            }
        },
        "dto.RegisterRequest": {
            "type": "object",
            "required": ["email", "username", "password"],
            "properties": {
                "email": {"type": "string"},
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.LoginRequest": {
            "type": "object",
            "required": ["emailOrUsername", "password"],
            "properties": {
                "emailOrUsername": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.ForgotPasswordRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "dto.ResetPasswordRequest": {
            "type": "object",
            "required": ["email", "code", "password"],
            "properties": {
                "email": {"type": "string"},
                "code": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "dto.CreateTaskRequest": {
            "type": "object",
            "required": ["name", "difficulty", "estimatedTime"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
                "estimatedTime": {"type": "integer"}
            }
        },
        "dto.UpdateTaskRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "difficulty": {"type": "string", "enum": ["easy", "medium", "hard"]},
                "estimatedTime": {"type": "integer"}
            }
        },
        "dto.CompleteTaskRequest": {
            "type": "object",
            "required": ["actualTime"],
            "properties": {
                "actualTime": {"type": "integer"}
            }
        },
        "dto.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "bio": {"type": "string"},
                "techStack": {"type": "array", "items": {"type": "string"}},
                "learningGoals": {"type": "array", "items": {"type": "string"}}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "Dev Quest API",
	Description:      "Gamified developer productivity API: quests, XP, streaks, achievements and leaderboards",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
