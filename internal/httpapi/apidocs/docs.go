// Package apidocs registers the evbus OpenAPI document with swag.
package apidocs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "produces": ["text/plain"],
                "responses": {"200": {"description": "ok", "schema": {"type": "string"}}}}
        },
        "/readyz": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["text/plain"],
                "responses": {
                    "200": {"description": "ready", "schema": {"type": "string"}},
                    "503": {"description": "loading", "schema": {"type": "string"}}}}
        },
        "/status": {
            "get": {"tags": ["status"], "summary": "Host and dispatcher status", "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
        },
        "/events": {
            "get": {"tags": ["events"], "summary": "Registered events", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.EventsResponse"}}}}
        },
        "/events/{id}/dispatch": {
            "post": {"tags": ["events"], "summary": "Dispatch an event",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "event id", "name": "id", "in": "path", "required": true},
                    {"description": "arguments", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/types.DispatchRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.DispatchResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
        },
        "/overlays": {
            "post": {"tags": ["overlays"], "summary": "Show an overlay view",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"description": "view", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.OverlayRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.OverlayResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
        },
        "/overlays/{guid}": {
            "delete": {"tags": ["overlays"], "summary": "Close an overlay view", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "description": "view guid", "name": "guid", "in": "path", "required": true},
                    {"type": "boolean", "description": "drop the cached view", "name": "destroy", "in": "query"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.OverlayResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}}}
        }
    },
    "definitions": {
        "types.ErrorResponse": {"type": "object", "properties": {
            "error": {"type": "string", "example": "invalid JSON body"},
            "code": {"type": "integer", "example": 400}}},
        "types.EventInfo": {"type": "object", "properties": {
            "id": {"type": "integer", "example": 1001},
            "listeners": {"type": "integer", "example": 2}}},
        "types.EventsResponse": {"type": "object", "properties": {
            "events": {"type": "array", "items": {"$ref": "#/definitions/types.EventInfo"}},
            "total": {"type": "integer", "example": 5}}},
        "types.DispatchRequest": {"type": "object", "properties": {
            "args": {"type": "array", "items": {}}}},
        "types.DispatchResponse": {"type": "object", "properties": {
            "id": {"type": "integer", "example": 7},
            "invoked": {"type": "integer", "example": 2},
            "conditions": {"type": "array", "items": {"type": "string"}}}},
        "types.OverlayRequest": {"type": "object", "properties": {
            "ui_id": {"type": "integer", "example": 12},
            "asset": {"type": "string", "example": "toast"},
            "content": {"type": "string", "example": "Saved."}}},
        "types.OverlayResponse": {"type": "object", "properties": {
            "guid": {"type": "string"},
            "ui_id": {"type": "integer", "example": 12}}},
        "types.StatsResponse": {"type": "object", "properties": {
            "dispatched": {"type": "integer"}, "invoked": {"type": "integer"},
            "not_found": {"type": "integer"}, "dead": {"type": "integer"},
            "loops": {"type": "integer"}, "duplicates": {"type": "integer"}}},
        "types.StatusResponse": {"type": "object", "properties": {
            "state": {"type": "string", "example": "ready"},
            "modules": {"type": "array", "items": {"type": "string"}},
            "updates": {"type": "integer"},
            "fixed_updates": {"type": "integer"},
            "overlays": {"type": "integer"},
            "stats": {"$ref": "#/definitions/types.StatsResponse"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "evbus API",
	Description:      "HTTP API for an in-process event dispatcher and its overlay layer.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
