package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Smart Attendance API",
        "description": "Attendance capture and ranking engine",
        "version": "0.1.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Attendance", "description": "Daily sheet workflow"},
        {"name": "Rankings", "description": "Leaderboard over the attendance history"},
        {"name": "Dashboard", "description": "Home screen summary"},
        {"name": "Exports", "description": "Finalized day reports"}
    ],
    "paths": {
        "/attendance/today": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Today's attendance sheet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Roster unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/today/marks": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Toggle a present/absent mark",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleMarkRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Student not on sheet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/today/submit": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Submit today's attendance",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Already submitted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/today/reset": {
            "post": {
                "tags": ["Attendance"],
                "summary": "Reset today's sheet",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Reset disabled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/attendance/history": {
            "get": {
                "tags": ["Attendance"],
                "summary": "Full attendance history",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/rankings/leaderboard": {
            "get": {
                "tags": ["Rankings"],
                "summary": "Attendance percentage leaderboard",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/dashboard/home": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Home dashboard summary",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/latest": {
            "get": {
                "tags": ["Exports"],
                "summary": "Latest day export with signed download tokens",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No export yet", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download an exported report",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "AttendanceMark": {
            "type": "object",
            "properties": {
                "roll_no": {"type": "string"},
                "name": {"type": "string"},
                "present": {"type": "boolean"},
                "absent": {"type": "boolean"}
            }
        },
        "DailySession": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "marks": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AttendanceMark"}
                },
                "submitted": {"type": "boolean"}
            }
        },
        "RankRecord": {
            "type": "object",
            "properties": {
                "roll_no": {"type": "string"},
                "name": {"type": "string"},
                "percentage": {"type": "integer"}
            }
        },
        "Leaderboard": {
            "type": "object",
            "properties": {
                "top": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RankRecord"}
                },
                "tied": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RankRecord"}
                }
            }
        },
        "ToggleMarkRequest": {
            "type": "object",
            "properties": {
                "roll_no": {"type": "string"},
                "flag": {"type": "string", "enum": ["present", "absent"]}
            },
            "required": ["roll_no", "flag"]
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
