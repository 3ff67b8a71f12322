package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Club Atlas Administration API",
        "description": "Role-gated management API for a sports club: roster, dues, attendance, events and certificates.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Users", "description": "Account administration"},
        {"name": "Players", "description": "Player roster"},
        {"name": "Guardians", "description": "Guardian accounts tied to a player"},
        {"name": "Dues", "description": "Monthly dues and bucket classification"},
        {"name": "Payments", "description": "Settlement records"},
        {"name": "Attendance", "description": "Per-session attendance and rates"},
        {"name": "Trainings", "description": "Training schedule"},
        {"name": "Events", "description": "Matches, tournaments and friendlies"},
        {"name": "Certificates", "description": "Issued documents and expiry tracking"},
        {"name": "Dashboard", "description": "Aggregated summaries"},
        {"name": "Reports", "description": "CSV and PDF exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/players": {
            "get": {
                "tags": ["Players"],
                "summary": "List players",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "categoria", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Players"],
                "summary": "Register player",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dues/classified": {
            "get": {
                "tags": ["Dues"],
                "summary": "Dues grouped into upcoming, pending and paid",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/payments": {
            "post": {
                "tags": ["Payments"],
                "summary": "Register payment, settling a linked due atomically",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/bulk": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Record attendance for every listed player in one session",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/summary/{playerId}": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Per-category and overall attendance rates",
                "parameters": [
                    {"name": "playerId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/certificates/{id}/download": {
            "get": {
                "tags": ["Certificates"],
                "summary": "Download certificate PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF document"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
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
                "fields": {"type": "object"},
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
