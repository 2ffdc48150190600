package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Substitute Matcher API",
        "description": "Ranks substitute employees against open assignment requests.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Matching", "description": "Candidate matching and scoring"},
        {"name": "Metrics", "description": "Instrumentation"}
    ],
    "paths": {
        "/assignment-requests/{id}/match": {
            "post": {
                "tags": ["Matching"],
                "summary": "Compute candidates for an assignment request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MatchRunEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Request is assigned, closed or canceled", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "500": {"description": "Persistence failure", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Data unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/assignment-requests/{id}/candidates": {
            "get": {
                "tags": ["Matching"],
                "summary": "List stored candidates",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"},
                    {"name": "scenario", "in": "query", "type": "string", "enum": ["default", "fast", "near"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/CandidateListEnvelope"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/matching/settings": {
            "get": {
                "tags": ["Matching"],
                "summary": "Effective matching settings",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Matching"],
                "summary": "Update matching settings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MatchingSettings"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Instrumentation snapshot",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ScoringWeights": {
            "type": "object",
            "properties": {
                "speed": {"type": "number"},
                "logistics": {"type": "number"},
                "load": {"type": "number"}
            }
        },
        "LogisticsRules": {
            "type": "object",
            "properties": {
                "air_threshold_km": {"type": "number"},
                "rail_threshold_km": {"type": "number"},
                "air_speed_kmh": {"type": "number"},
                "rail_speed_kmh": {"type": "number"},
                "car_speed_kmh": {"type": "number"},
                "air_base_cost": {"type": "number"},
                "rail_base_cost": {"type": "number"},
                "car_base_cost": {"type": "number"},
                "air_cost_per_km": {"type": "number"},
                "rail_cost_per_km": {"type": "number"},
                "car_cost_per_km": {"type": "number"}
            }
        },
        "MatchingSettings": {
            "type": "object",
            "properties": {
                "logistics_rules": {"$ref": "#/definitions/LogisticsRules"},
                "weights": {"type": "object", "additionalProperties": {"$ref": "#/definitions/ScoringWeights"}}
            }
        },
        "MatchRunResult": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "run_id": {"type": "string"},
                "candidates_count": {"type": "integer"},
                "scenarios": {"type": "array", "items": {"type": "string"}},
                "scenario_counts": {"type": "object", "additionalProperties": {"type": "integer"}},
                "skipped": {"type": "integer"},
                "matched_at": {"type": "string", "format": "date-time"}
            }
        },
        "AssignmentCandidate": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "request_id": {"type": "string"},
                "substitute_id": {"type": "string"},
                "scenario_type": {"type": "string"},
                "rank": {"type": "integer"},
                "score": {"type": "number"},
                "detail": {"type": "object"},
                "eta_at": {"type": "string", "format": "date-time"},
                "run_id": {"type": "string"},
                "created_at": {"type": "string", "format": "date-time"}
            }
        },
        "CandidateList": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "scenario": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/AssignmentCandidate"}}
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
        },
        "MatchRunEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/MatchRunResult"},
                "error": {"$ref": "#/definitions/APIError"}
            }
        },
        "CandidateListEnvelope": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/CandidateList"},
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
