package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EduBridge API",
        "description": "Role-based school management gateway",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Role login and session lifecycle"},
        {"name": "School", "description": "Role-scoped school view"},
        {"name": "Classes", "description": "Class management"},
        {"name": "Teachers", "description": "Teacher roster management"},
        {"name": "Students", "description": "Student records, scores, attendance, fees"},
        {"name": "Requests", "description": "Student admission request workflow"},
        {"name": "Notices", "description": "School notice board"},
        {"name": "EContent", "description": "Class learning material"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a role",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Login failed"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Revoke the current session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change own password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Admin password is configured, not stored"}
                }
            }
        },
        "/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current identity resolved against the live snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/school": {
            "get": {
                "tags": ["School"],
                "summary": "Role-scoped school view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List class names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create an empty class",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"name": {"type": "string"}}}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Class already exists"}
                }
            }
        },
        "/classes/{name}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get one class with members",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete a class and everything in it",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "confirm", "in": "query", "required": true, "type": "boolean"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Missing confirmation"}
                }
            }
        },
        "/classes/{name}/academic-head": {
            "put": {
                "tags": ["Classes"],
                "summary": "Designate the class academic head",
                "parameters": [
                    {"name": "name", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"type": "object", "properties": {"teacher_id": {"type": "string"}}}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Teacher already heads another class"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List visible students",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get one student record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Record not visible to this role"}
                }
            }
        },
        "/students/{id}/report-card": {
            "get": {
                "tags": ["Students"],
                "summary": "Download the report card as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        },
        "/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List admission requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Submit an admission request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/requests/{id}/approve": {
            "post": {
                "tags": ["Requests"],
                "summary": "Approve a pending request",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Student admitted"},
                    "409": {"description": "Already resolved or class gone"}
                }
            }
        },
        "/notices": {
            "get": {
                "tags": ["Notices"],
                "summary": "List visible notices, newest first",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Notices"],
                "summary": "Publish a notice",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "role": {"type": "string", "enum": ["Admin", "Teacher", "Parent", "Student"]},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "new_password": {"type": "string"}
            }
        },
        "StudentPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "class": {"type": "string"},
                "rollNumber": {"type": "integer"},
                "guardianName": {"type": "string"},
                "contact": {"type": "string"},
                "address": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
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
