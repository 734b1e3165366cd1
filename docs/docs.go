// Package docs holds the OpenAPI description served under /swagger.
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
        "/documents/extract": {
            "post": {
                "description": "Extract the normalized record from one NFe, CFe or CTe XML.",
                "consumes": ["application/xml", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Extract a fiscal document",
                "parameters": [
                    {"type": "boolean", "default": false, "description": "Add the access-key barcode as a PNG data URL", "name": "barcode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Extracted record", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Missing body or malformed XML", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "422": {"description": "Not a fiscal document", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/batch": {
            "post": {
                "description": "Extract every XML in files[]. One failing file never fails the batch.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Extract many fiscal documents",
                "parameters": [
                    {"type": "file", "description": "XML files (max 100, 10MB each)", "name": "files[]", "in": "formData", "required": true},
                    {"type": "boolean", "default": false, "description": "Add barcode images", "name": "barcode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Per-file results", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "No files or too many files", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents": {
            "get": {
                "description": "Newest first",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "List stored records",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Offset for pagination", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit for pagination (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Stored records", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "503": {"description": "Persistence disabled", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{key}": {
            "get": {
                "description": "Get a previously extracted record by access key",
                "produces": ["application/json"],
                "tags": ["documents"],
                "summary": "Get a stored record",
                "parameters": [
                    {"type": "string", "description": "Access key (44 digits)", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Stored record", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "400": {"description": "Invalid access key", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "503": {"description": "Persistence disabled", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/documents/{key}/barcode": {
            "get": {
                "produces": ["image/png"],
                "tags": ["documents"],
                "summary": "Render the access-key barcode",
                "parameters": [
                    {"type": "string", "description": "Access key (44 digits)", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "PNG image", "schema": {"type": "file"}},
                    "400": {"description": "Invalid access key", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}},
                    "500": {"description": "Barcode generation failed", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/reports/export": {
            "post": {
                "description": "Flatten uploaded XMLs and/or stored records into a CSV or XLSX report.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/octet-stream"],
                "tags": ["reports"],
                "summary": "Export a report",
                "parameters": [
                    {"type": "string", "default": "csv", "description": "csv or xlsx", "name": "format", "in": "query"},
                    {"type": "string", "default": "parties", "description": "parties, products or icms", "name": "model", "in": "query"},
                    {"type": "string", "description": "Comma-separated column keys", "name": "columns", "in": "query"},
                    {"type": "string", "description": "Case-insensitive filter over every cell", "name": "search", "in": "query"},
                    {"type": "file", "description": "XML files", "name": "files[]", "in": "formData"},
                    {"type": "string", "description": "Comma-separated stored access keys", "name": "access_keys", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Report file", "schema": {"type": "file"}},
                    "400": {"description": "Unknown model, column or format", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        },
        "/logs": {
            "get": {
                "description": "Newest entries first",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List the processing log",
                "parameters": [
                    {"type": "integer", "default": 0, "description": "Offset for pagination", "name": "offset", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Limit for pagination (max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Log entries", "schema": {"$ref": "#/definitions/handler.Response"}},
                    "503": {"description": "Persistence disabled", "schema": {"$ref": "#/definitions/handler.ErrorResponseBody"}}
                }
            }
        }
    },
    "definitions": {
        "handler.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.PagMeta": {
            "type": "object",
            "properties": {
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "handler.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/handler.PagMeta"},
                "success": {"type": "boolean", "example": true}
            }
        },
        "handler.ErrorResponseBody": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/handler.APIError"},
                "success": {"type": "boolean", "example": false}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "NFe Extraction API",
	Description:      "Extracts normalized records from Brazilian NFe, CFe and CTe XML.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
