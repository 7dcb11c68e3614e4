package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Room Planner API",
        "description": "Shared-room booking and reoptimization service",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Rooms", "description": "Static room registry"},
        {"name": "People", "description": "Person roster and room preferences"},
        {"name": "Bookings", "description": "Individual booking management"},
        {"name": "Recurring", "description": "Weekly recurring schedules"},
        {"name": "Reoptimize", "description": "Global room reassignment"},
        {"name": "Reports", "description": "Availability, slot search and grids"}
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
        "/rooms": {
            "get": {
                "tags": ["Rooms"],
                "summary": "List configured rooms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/people": {
            "get": {
                "tags": ["People"],
                "summary": "List people",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["People"],
                "summary": "Create person",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonPayload"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/people/{id}": {
            "get": {
                "tags": ["People"],
                "summary": "Get person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["People"],
                "summary": "Update person",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PersonPayload"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["People"],
                "summary": "Delete person and their bookings",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/people/{id}/recurring-schedule/preview": {
            "post": {
                "tags": ["Recurring"],
                "summary": "Preview a recurring schedule without writing",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecurringScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/people/{id}/recurring-schedule/commit": {
            "post": {
                "tags": ["Recurring"],
                "summary": "Apply a recurring schedule",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecurringScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings": {
            "get": {
                "tags": ["Bookings"],
                "summary": "List bookings",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string"},
                    {"name": "to", "in": "query", "type": "string"},
                    {"name": "personId", "in": "query", "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "conflictsOnly", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Bookings"],
                "summary": "Create booking with automatic room assignment",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/bookings/{id}": {
            "get": {
                "tags": ["Bookings"],
                "summary": "Get booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Bookings"],
                "summary": "Update booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateBookingRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Collision", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Bookings"],
                "summary": "Delete booking",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/reoptimize": {
            "post": {
                "tags": ["Reoptimize"],
                "summary": "Queue a global reassignment sweep",
                "responses": {
                    "202": {"description": "Accepted"}
                }
            }
        },
        "/reports/availability": {
            "get": {
                "tags": ["Reports"],
                "summary": "Free hours per room over a date range",
                "parameters": [
                    {"name": "from", "in": "query", "required": true, "type": "string"},
                    {"name": "to", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/slots": {
            "get": {
                "tags": ["Reports"],
                "summary": "Search bookable slots for a person",
                "parameters": [
                    {"name": "personId", "in": "query", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"},
                    {"name": "duration", "in": "query", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/weekly-grid.pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Weekly occupancy grid as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "personId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/reports/weekly-grid.csv": {
            "get": {
                "tags": ["Reports"],
                "summary": "Weekly occupancy grid as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "roomId", "in": "query", "type": "string"},
                    {"name": "personId", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "PersonPayload": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "defaultRoom": {"type": "string"},
                "altRooms": {
                    "type": "array",
                    "items": {"type": "string"},
                    "maxItems": 3
                },
                "color": {"type": "string"},
                "pattern": {"type": "string"}
            },
            "required": ["name", "defaultRoom"]
        },
        "CreateBookingRequest": {
            "type": "object",
            "properties": {
                "personId": {"type": "string"},
                "title": {"type": "string"},
                "date": {"type": "string", "example": "2026-09-01"},
                "startTime": {"type": "string", "example": "09:00"},
                "endTime": {"type": "string", "example": "10:00"},
                "roomId": {"type": "string"},
                "fixed": {"type": "boolean"}
            },
            "required": ["date", "startTime", "endTime"]
        },
        "UpdateBookingRequest": {
            "type": "object",
            "properties": {
                "date": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "roomId": {"type": "string"},
                "fixed": {"type": "boolean"}
            },
            "required": ["date", "startTime", "endTime", "roomId"]
        },
        "DayWindowRequest": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean"},
                "start": {"type": "string", "example": "09:00"},
                "end": {"type": "string", "example": "12:00"}
            }
        },
        "RecurringScheduleRequest": {
            "type": "object",
            "properties": {
                "startDate": {"type": "string", "example": "2026-09-01"},
                "endDate": {"type": "string", "example": "2026-12-18"},
                "week": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/DayWindowRequest"}
                }
            },
            "required": ["startDate", "endDate", "week"]
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
                "pagination": {"type": "object"},
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
