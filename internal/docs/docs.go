// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/signup": {"post": {"tags": ["auth"], "summary": "Sign up", "responses": {"201": {"description": "User registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login user", "responses": {"200": {"description": "Session issued"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Refresh session", "responses": {"200": {"description": "Session issued"}}}},
        "/auth/logout": {"post": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Logout", "responses": {"200": {"description": "Logged out"}}}},
        "/auth/session": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Current session", "responses": {"200": {"description": "Current user"}}}},
        "/vendors": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["vendors"], "summary": "List vendors", "responses": {"200": {"description": "Vendors"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["vendors"], "summary": "Create a vendor", "responses": {"201": {"description": "Vendor created"}}}
        },
        "/vendors/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["vendors"], "summary": "Get vendor", "responses": {"200": {"description": "Vendor"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["vendors"], "summary": "Update vendor contact", "responses": {"200": {"description": "Updated vendor"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["vendors"], "summary": "Delete vendor", "responses": {"200": {"description": "Vendor deleted"}}}
        },
        "/vendors/{id}/budgets/{year}/{budget_type}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Get budget", "responses": {"200": {"description": "Budget or null"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Set budget", "responses": {"200": {"description": "Budget saved"}}}
        },
        "/vendors/{id}/charges": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["charges"], "summary": "List charges", "responses": {"200": {"description": "Charges"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["charges"], "summary": "Record a charge", "responses": {"201": {"description": "Charge recorded"}}}
        },
        "/charges/{id}": {
            "delete": {"security": [{"BearerAuth": []}], "tags": ["charges"], "summary": "Delete charge", "responses": {"200": {"description": "Charge deleted"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Budget Tool API",
	Description:      "Multi-tenant vendor budget tracking: vendors, annual budgets per category and dated charges.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
