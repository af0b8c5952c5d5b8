package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Connect API",
        "description": "Messaging, discussions and calendars for teachers, parents and students",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http"],
    "securityDefinitions": {"BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}},
    "tags": [
        {"name": "Authentication"},
        {"name": "Users"},
        {"name": "Semesters"},
        {"name": "Messages"},
        {"name": "Discussions"},
        {"name": "Calendar"},
        {"name": "Attachments"},
        {"name": "Realtime"}
    ],
    "paths": {
        "/health": {"get": {"summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}},
        "/ready": {
            "get": {
                "summary": "Readiness probe",
                "responses": {"200": {"description": "Ready"}, "503": {"description": "A dependency is unavailable"}}
            }
        },
        "/metrics": {
            "get": {
                "summary": "Prometheus metrics",
                "produces": ["text/plain"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ws": {
            "get": {
                "tags": ["Realtime"],
                "summary": "Notification WebSocket",
                "parameters": [{"name": "token", "in": "query", "type": "string", "required": false}],
                "responses": {
                    "101": {"description": "Switching Protocols"},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Rotate refresh token",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RefreshTokenRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "429": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke refresh token",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/RefreshTokenRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "parameters": [],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ChangePasswordRequest"}
                    }
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/users/me": {
            "put": {
                "tags": ["Users"],
                "summary": "Update own profile",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateProfileRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Public profile",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters": {
            "get": {
                "tags": ["Semesters"],
                "summary": "List own semesters",
                "parameters": [],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Semesters"],
                "summary": "Create semester",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateSemesterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters/current": {
            "get": {
                "tags": ["Semesters"],
                "summary": "Currently active semesters",
                "parameters": [],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters/{id}": {
            "get": {
                "tags": ["Semesters"],
                "summary": "Get semester",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "put": {
                "tags": ["Semesters"],
                "summary": "Update semester metadata",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateSemesterRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters/{id}/participants": {
            "post": {
                "tags": ["Semesters"],
                "summary": "Enroll participant",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/AddParticipantRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters/{id}/participants/{userId}": {
            "delete": {
                "tags": ["Semesters"],
                "summary": "Remove participant",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "userId", "in": "path", "type": "string", "required": true},
                    {"name": "version", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters/{id}/classes": {
            "post": {
                "tags": ["Semesters"],
                "summary": "Add class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ClassRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/semesters/{id}/classes/{classId}": {
            "put": {
                "tags": ["Semesters"],
                "summary": "Replace class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "classId", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ClassRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Semesters"],
                "summary": "Remove class",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "classId", "in": "path", "type": "string", "required": true},
                    {"name": "version", "in": "query", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/messages": {
            "post": {
                "tags": ["Messages"],
                "summary": "Send direct message",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/SendMessageRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/messages/conversations": {
            "get": {
                "tags": ["Messages"],
                "summary": "List conversations",
                "parameters": [{"name": "semesterId", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/messages/conversations/{userId}": {
            "get": {
                "tags": ["Messages"],
                "summary": "Conversation thread",
                "parameters": [
                    {"name": "userId", "in": "path", "type": "string", "required": true},
                    {"name": "semesterId", "in": "query", "type": "string", "required": true},
                    {"name": "page", "in": "query", "type": "integer", "required": false},
                    {"name": "page_size", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/messages/conversations/{userId}/read": {
            "put": {
                "tags": ["Messages"],
                "summary": "Mark conversation read",
                "parameters": [
                    {"name": "userId", "in": "path", "type": "string", "required": true},
                    {"name": "semesterId", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/messages/unread-count": {
            "get": {
                "tags": ["Messages"],
                "summary": "Unread message count",
                "parameters": [{"name": "semesterId", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/messages/contacts": {
            "get": {
                "tags": ["Messages"],
                "summary": "Messaging contacts",
                "parameters": [{"name": "semesterId", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions": {
            "get": {
                "tags": ["Discussions"],
                "summary": "List discussions",
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "string", "required": true},
                    {"name": "category", "in": "query", "type": "string", "required": false},
                    {"name": "page", "in": "query", "type": "integer", "required": false},
                    {"name": "page_size", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Discussions"],
                "summary": "Start discussion",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateDiscussionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions/search": {
            "get": {
                "tags": ["Discussions"],
                "summary": "Search discussions",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string", "required": true},
                    {"name": "semesterId", "in": "query", "type": "string", "required": true},
                    {"name": "page", "in": "query", "type": "integer", "required": false},
                    {"name": "page_size", "in": "query", "type": "integer", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions/{id}": {
            "get": {
                "tags": ["Discussions"],
                "summary": "Get discussion",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "put": {
                "tags": ["Discussions"],
                "summary": "Edit discussion",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateDiscussionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Discussions"],
                "summary": "Delete discussion",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions/{id}/replies": {
            "post": {
                "tags": ["Discussions"],
                "summary": "Reply",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ReplyRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions/{id}/replies/{replyId}": {
            "put": {
                "tags": ["Discussions"],
                "summary": "Edit reply",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "replyId", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/ReplyRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Discussions"],
                "summary": "Delete reply",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "replyId", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions/{id}/pin": {
            "put": {
                "tags": ["Discussions"],
                "summary": "Toggle pin",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/discussions/{id}/close": {
            "put": {
                "tags": ["Discussions"],
                "summary": "Toggle closed",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/calendar/events": {
            "get": {
                "tags": ["Calendar"],
                "summary": "List events",
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "string", "required": true},
                    {"name": "from", "in": "query", "type": "string", "required": false},
                    {"name": "to", "in": "query", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "post": {
                "tags": ["Calendar"],
                "summary": "Create event",
                "parameters": [
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/CreateCalendarEventRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/calendar/events/export": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Export events",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "semesterId", "in": "query", "type": "string", "required": true},
                    {"name": "format", "in": "query", "type": "string", "required": false}
                ],
                "responses": {
                    "200": {"description": "Document"},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/calendar/events/{id}": {
            "get": {
                "tags": ["Calendar"],
                "summary": "Get event",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "put": {
                "tags": ["Calendar"],
                "summary": "Update event",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateCalendarEventRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            },
            "delete": {
                "tags": ["Calendar"],
                "summary": "Delete event",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/calendar/events/{id}/toggle": {
            "patch": {
                "tags": ["Calendar"],
                "summary": "Toggle completion",
                "parameters": [{"name": "id", "in": "path", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/attachments": {
            "post": {
                "tags": ["Attachments"],
                "summary": "Upload attachment",
                "consumes": ["multipart/form-data"],
                "parameters": [{"name": "file", "in": "formData", "type": "file", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                },
                "security": [{"BearerAuth": []}]
            }
        },
        "/api/v1/attachments/download": {
            "get": {
                "tags": ["Attachments"],
                "summary": "Download attachment",
                "parameters": [{"name": "token", "in": "query", "type": "string", "required": true}],
                "responses": {
                    "200": {"description": "File"},
                    "401": {"description": "Error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "RegisterRequest": {
            "type": "object",
            "required": ["full_name", "email", "password", "role"],
            "properties": {
                "full_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "role": {"type": "string", "enum": ["TEACHER", "PARENT", "STUDENT"]},
                "student_id": {"type": "string"},
                "child_name": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "avatar_url": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "RefreshTokenRequest": {"type": "object", "required": ["refresh_token"], "properties": {"refresh_token": {"type": "string"}}},
        "ChangePasswordRequest": {
            "type": "object",
            "required": ["old_password", "new_password"],
            "properties": {"old_password": {"type": "string"}, "new_password": {"type": "string"}}
        },
        "UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "avatar_url": {"type": "string"},
                "child_name": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}}
            }
        },
        "CreateSemesterRequest": {
            "type": "object",
            "required": ["name", "school_year", "start_date", "end_date"],
            "properties": {
                "name": {"type": "string"},
                "school_year": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "is_active": {"type": "boolean"},
                "description": {"type": "string"}
            }
        },
        "UpdateSemesterRequest": {
            "type": "object",
            "required": ["version"],
            "properties": {
                "version": {"type": "integer"},
                "name": {"type": "string"},
                "school_year": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "is_active": {"type": "boolean"},
                "description": {"type": "string"}
            }
        },
        "AddParticipantRequest": {
            "type": "object",
            "required": ["version", "user_id", "role"],
            "properties": {
                "version": {"type": "integer"},
                "user_id": {"type": "string"},
                "role": {"type": "string"},
                "student_id": {"type": "string"}
            }
        },
        "ClassRequest": {
            "type": "object",
            "required": ["version", "name", "teacher_id"],
            "properties": {
                "version": {"type": "integer"},
                "name": {"type": "string"},
                "teacher_id": {"type": "string"},
                "student_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "Attachment": {
            "type": "object",
            "required": ["name", "url", "mime_type"],
            "properties": {
                "name": {"type": "string"},
                "url": {"type": "string"},
                "mime_type": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "SendMessageRequest": {
            "type": "object",
            "required": ["recipient_id", "semester_id", "content"],
            "properties": {
                "recipient_id": {"type": "string"},
                "semester_id": {"type": "string"},
                "content": {"type": "string"},
                "type": {"type": "string", "enum": ["text", "image", "file", "voice"]},
                "attachments": {"type": "array", "items": {"$ref": "#/definitions/Attachment"}}
            }
        },
        "CreateDiscussionRequest": {
            "type": "object",
            "required": ["title", "content", "semester_id"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "semester_id": {"type": "string"},
                "category": {"type": "string", "enum": ["general", "homework", "announcement", "question", "event"]},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateDiscussionRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "category": {"type": "string"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ReplyRequest": {"type": "object", "required": ["content"], "properties": {"content": {"type": "string"}}},
        "CreateCalendarEventRequest": {
            "type": "object",
            "required": ["title", "start", "end", "semester_id"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "priority": {"type": "string", "enum": ["high", "medium", "low"]},
                "type": {"type": "string", "enum": ["todo", "event"]},
                "link": {"type": "string"},
                "link_label": {"type": "string"},
                "semester_id": {"type": "string"}
            }
        },
        "UpdateCalendarEventRequest": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "start": {"type": "string", "format": "date-time"},
                "end": {"type": "string", "format": "date-time"},
                "priority": {"type": "string"},
                "type": {"type": "string"},
                "link": {"type": "string"},
                "link_label": {"type": "string"},
                "is_completed": {"type": "boolean"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "FieldError": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}},
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "array", "items": {"$ref": "#/definitions/FieldError"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
