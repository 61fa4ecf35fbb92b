package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Ops Shift API",
        "description": "Shift scheduling, rule validation and duty resolution for the operations desk",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Staff", "description": "Staff scheduling profiles"},
        {"name": "Schedule", "description": "Schedule validation and bulk assignment"},
        {"name": "Assignments", "description": "Assignment moves"},
        {"name": "Duties", "description": "Current duty resolution"},
        {"name": "Observability", "description": "Metrics and health"}
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
        "/api/v1/staff-profiles": {
            "get": {
                "tags": ["Staff"],
                "summary": "List staff profiles",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "hasServerAccess", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sort", "in": "query", "type": "string"},
                    {"name": "order", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Staff"],
                "summary": "Create or update a staff profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertStaffProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Staff"],
                "summary": "Create or update a staff profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertStaffProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/staff-profiles/{id}": {
            "get": {
                "tags": ["Staff"],
                "summary": "Get staff profile",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/validate": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Validate a candidate schedule without persisting it",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ValidateScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/can-assign": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Check whether one slot could be added to a period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CanAssignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/schedule/periods/{id}/validation": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Validate the stored schedule of a period",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assignments": {
            "get": {
                "tags": ["Schedule"],
                "summary": "List stored assignments",
                "parameters": [
                    {"name": "periodId", "in": "query", "type": "string"},
                    {"name": "staffProfileId", "in": "query", "type": "string"},
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assignments/bulk": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Create a batch of assignments for a period",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkCreateAssignmentsRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/assignments/{id}/swap": {
            "post": {
                "tags": ["Assignments"],
                "summary": "Move the source assignment's holder onto a target slot",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SwapRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/duties/current": {
            "get": {
                "tags": ["Duties"],
                "summary": "Resolve who is on duty right now",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/v1/metrics/summary": {
            "get": {
                "tags": ["Observability"],
                "summary": "In-process metrics snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "StaffProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "staff_name": {"type": "string"},
                "can_work_night_shift": {"type": "boolean"},
                "can_work_weekend_day": {"type": "boolean"},
                "has_server_access": {"type": "boolean"},
                "has_sabbath_restriction": {"type": "boolean"},
                "max_night_shifts_per_month": {"type": "integer"},
                "min_days_between_night_shifts": {"type": "integer"},
                "active": {"type": "boolean"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "UpsertStaffProfileRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "staffName": {"type": "string"},
                "canWorkNightShift": {"type": "boolean"},
                "canWorkWeekendDay": {"type": "boolean"},
                "hasServerAccess": {"type": "boolean"},
                "hasSabbathRestriction": {"type": "boolean"},
                "maxNightShiftsPerMonth": {"type": "integer"},
                "minDaysBetweenNightShifts": {"type": "integer"},
                "active": {"type": "boolean"}
            },
            "required": ["staffName"]
        },
        "AssignmentEntry": {
            "type": "object",
            "properties": {
                "staffProfileId": {"type": "string"},
                "date": {"type": "string"},
                "shiftType": {"type": "string"}
            },
            "required": ["staffProfileId", "date", "shiftType"]
        },
        "ValidateScheduleRequest": {
            "type": "object",
            "properties": {
                "periodId": {"type": "string"},
                "assignments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssignmentEntry"}
                }
            },
            "required": ["periodId", "assignments"]
        },
        "BulkCreateAssignmentsRequest": {
            "type": "object",
            "properties": {
                "periodId": {"type": "string"},
                "assignments": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/AssignmentEntry"}
                }
            },
            "required": ["periodId", "assignments"]
        },
        "CanAssignRequest": {
            "type": "object",
            "properties": {
                "periodId": {"type": "string"},
                "staffProfileId": {"type": "string"},
                "date": {"type": "string"},
                "shiftType": {"type": "string"}
            },
            "required": ["periodId", "staffProfileId", "date", "shiftType"]
        },
        "SwapRequest": {
            "type": "object",
            "properties": {
                "targetDate": {"type": "string"},
                "targetShiftType": {"type": "string"},
                "reason": {"type": "string"}
            },
            "required": ["targetDate"]
        },
        "ValidationFinding": {
            "type": "object",
            "properties": {
                "rule": {"type": "string"},
                "severity": {"type": "string"},
                "message": {"type": "string"},
                "staff_profile_id": {"type": "string"},
                "date": {"type": "string"},
                "shift_type": {"type": "string"}
            }
        },
        "ValidationResult": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ValidationFinding"}
                },
                "warnings": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/ValidationFinding"}
                }
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
