package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Alumni Hub API",
        "description": "College alumni community platform: events, registrations, directory, forum, messaging, jobs and mentorship",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Signup, login and session management"},
        {"name": "Events", "description": "Event lifecycle and registrations"},
        {"name": "Registrations", "description": "Admin registration management"},
        {"name": "Exports", "description": "CSV exports and certificates"},
        {"name": "Profiles", "description": "Alumni profiles and directory"},
        {"name": "Forum", "description": "Community discussion"},
        {"name": "Messages", "description": "Direct messaging"},
        {"name": "Jobs", "description": "Alumni job board"},
        {"name": "Mentorship", "description": "Mentorship matching"},
        {"name": "Announcements", "description": "Published notices"},
        {"name": "Notifications", "description": "Aggregated activity feed"},
        {"name": "Admin", "description": "Verification and dashboard"}
    ],
    "paths": {
        "/auth/signup": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register alumni account",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Account not verified"}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Events grouped by lifecycle status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create event (admin)",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/events/{id}/register": {
            "post": {
                "tags": ["Events"],
                "summary": "Register for an event",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Registered"},
                    "409": {"description": "Already registered"}
                }
            }
        },
        "/exports/events": {
            "post": {
                "tags": ["Exports"],
                "summary": "Export events as CSV (admin)",
                "responses": {
                    "200": {"description": "Signed download URL"}
                }
            }
        },
        "/directory": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Search the alumni directory",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
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
