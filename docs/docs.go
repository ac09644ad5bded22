// Package docs holds the OpenAPI description served at /swagger.
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
        "/fields": {
            "get": {"tags": ["validation"], "summary": "List invoice fields", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}}
        },
        "/validate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["validation"], "summary": "Validate invoice fields",
                "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.ValidateRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}}
        },
        "/documents": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "List documents", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"},
                    {"enum": ["uploaded", "extracted", "extraction_failed", "accepted"], "type": "string", "name": "status", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Upload an invoice",
                "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}}
        },
        "/documents/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Export the document list", "produces": ["text/csv"],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}}
        },
        "/documents/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Get document by ID",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Delete a document",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}}
        },
        "/documents/{id}/fields": {
            "put": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Edit and confirm fields",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/handler.UpdateFieldsRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "409": {"description": "Already accepted", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}}
        },
        "/documents/{id}/revalidate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Revalidate a document",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}}
        },
        "/documents/{id}/reextract": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Extract fields again",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}}
        },
        "/documents/{id}/validation": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Field-by-field validation report",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}}
        },
        "/documents/{id}/accept": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Accept a document",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "409": {"description": "Blocking verdicts", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}}
        },
        "/documents/{id}/download": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Presigned download link",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}}}}
        },
        "/documents/{id}/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Export fields",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"enum": ["json", "csv", "xlsx"], "type": "string", "default": "json", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}}
        },
        "/documents/{id}/history": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["documents"], "summary": "Review history",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 0, "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}}}
        }
    },
    "definitions": {
        "handler.APIError": {"type": "object", "properties": {"code": {"type": "string"}, "message": {"type": "string"}}},
        "handler.PagMeta": {"type": "object", "properties": {"limit": {"type": "integer"}, "offset": {"type": "integer"}, "total": {"type": "integer"}}},
        "handler.Response": {"type": "object", "properties": {"data": {}, "meta": {"$ref": "#/definitions/handler.PagMeta"}, "success": {"type": "boolean", "example": true}}},
        "handler.ErrorResponseBody": {"type": "object", "properties": {"error": {"$ref": "#/definitions/handler.APIError"}, "success": {"type": "boolean", "example": false}}},
        "handler.ValidateRequest": {"type": "object", "required": ["fields"], "properties": {"fields": {"type": "object", "additionalProperties": {"type": "string"}}}},
        "handler.UpdateFieldsRequest": {"type": "object", "required": ["fields"], "properties": {"fields": {"type": "object", "additionalProperties": {"type": "string"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "Bearer token. Optional when the server runs without a JWT secret.", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "invoicedesk API",
	Description:      "Upload, extract, review and accept supplier invoices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
