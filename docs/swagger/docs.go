// Package swagger 注册 /swagger 页面使用的 OpenAPI 文档
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/device": {
            "get": {
                "produces": ["application/json"],
                "tags": ["safe"],
                "summary": "Device address",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/safes/{address}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["safe"],
                "summary": "Safe info",
                "parameters": [{"type": "string", "description": "Safe address", "name": "address", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/safes/{address}/transactions": {
            "get": {
                "produces": ["application/json"],
                "tags": ["safe"],
                "summary": "Classified transactions",
                "parameters": [{"type": "string", "description": "Safe address", "name": "address", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/safes/{address}/transactions/{hash}/confirm": {
            "post": {
                "produces": ["application/json"],
                "tags": ["safe"],
                "summary": "Confirm transaction",
                "parameters": [
                    {"type": "string", "description": "Safe address", "name": "address", "in": "path", "required": true},
                    {"type": "string", "description": "safeTxHash", "name": "hash", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/safes/{address}/limits": {
            "get": {
                "produces": ["application/json"],
                "tags": ["limits"],
                "summary": "Transfer limits",
                "parameters": [{"type": "string", "description": "Safe address", "name": "address", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        },
        "/safes/{address}/limits/{token}/transfers": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["limits"],
                "summary": "Transfer within limit",
                "parameters": [
                    {"type": "string", "description": "Safe address", "name": "address", "in": "path", "required": true},
                    {"type": "string", "description": "Token address (zero for ETH)", "name": "token", "in": "path", "required": true},
                    {"description": "Transfer", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.TransferRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}
            }
        }
    },
    "definitions": {
        "request.TransferRequest": {
            "type": "object",
            "required": ["amount", "to"],
            "properties": {
                "amount": {"type": "string"},
                "to": {"type": "string"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "msg": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Safe Authenticator API",
	Description:      "Safe co-signer authenticator: device key, transaction confirmation and transfer limits",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
