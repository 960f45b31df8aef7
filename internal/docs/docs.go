// Package docs registers the OpenAPI description served by gin-swagger. The
// template is maintained by hand alongside the handler annotations.
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
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user", "responses": {"201": {"description": "User registered"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "Logged in"}}}},
        "/auth/refresh": {"post": {"tags": ["auth"], "summary": "Rotate tokens", "responses": {"200": {"description": "Tokens rotated"}}}},
        "/profile": {"get": {"security": [{"BearerAuth": []}], "tags": ["auth"], "summary": "Get user profile", "responses": {"200": {"description": "User profile"}}}},
        "/categories": {"get": {"security": [{"BearerAuth": []}], "tags": ["categories"], "summary": "Category catalog", "responses": {"200": {"description": "Catalog"}}}},
        "/transactions": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "List transactions", "responses": {"200": {"description": "Paginated transactions"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Create a transaction", "responses": {"201": {"description": "Transaction created"}}}
        },
        "/transactions/quick": {"post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Record a transaction from free text", "responses": {"201": {"description": "Transaction created"}}}},
        "/transactions/parse": {"post": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Preview free-text parsing", "responses": {"200": {"description": "Parsed entry"}}}},
        "/transactions/export": {"get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Export transactions as CSV", "produces": ["text/csv"], "responses": {"200": {"description": "CSV file"}}}},
        "/transactions/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Get transaction", "responses": {"200": {"description": "Transaction"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Update a transaction", "responses": {"200": {"description": "Transaction updated"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["transactions"], "summary": "Delete a transaction", "responses": {"200": {"description": "Transaction deleted"}}}
        },
        "/goals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "List goals", "responses": {"200": {"description": "Paginated goals"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Create a goal", "responses": {"201": {"description": "Goal created"}}}
        },
        "/goals/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Get goal", "responses": {"200": {"description": "Goal"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Update a goal", "responses": {"200": {"description": "Goal updated"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Delete a goal", "responses": {"200": {"description": "Goal deleted"}}}
        },
        "/goals/{id}/contribute": {"post": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Contribute to a goal", "responses": {"200": {"description": "Goal updated"}}}},
        "/goals/{id}/progress": {"get": {"security": [{"BearerAuth": []}], "tags": ["goals"], "summary": "Get goal progress", "responses": {"200": {"description": "Goal progress"}}}},
        "/budgets": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Get budgets", "responses": {"200": {"description": "Paginated budgets"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Create a budget", "responses": {"201": {"description": "Budget created"}}}
        },
        "/budgets/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Get budget", "responses": {"200": {"description": "Budget details"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Update a budget", "responses": {"200": {"description": "Budget updated"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Delete a budget", "responses": {"200": {"description": "Budget deleted"}}}
        },
        "/budgets/{id}/progress": {"get": {"security": [{"BearerAuth": []}], "tags": ["budgets"], "summary": "Get budget progress", "responses": {"200": {"description": "Budget progress"}}}},
        "/dashboard": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Dashboard", "responses": {"200": {"description": "Dashboard"}}}},
        "/analytics/overview": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Analytics overview", "responses": {"200": {"description": "Overview"}}}},
        "/analytics/metrics": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Metrics", "responses": {"200": {"description": "Metrics"}}}},
        "/analytics/insights": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Insights", "responses": {"200": {"description": "Insights"}}}},
        "/analytics/budgets": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Budget analysis", "responses": {"200": {"description": "Budget analysis"}}}},
        "/analytics/charts": {"get": {"security": [{"BearerAuth": []}], "tags": ["analytics"], "summary": "Charts", "responses": {"200": {"description": "Charts"}}}},
        "/pipeline/budgets/rollover": {"post": {"security": [{"ApiKeyAuth": []}], "tags": ["pipeline"], "summary": "Recompute budget spending", "responses": {"200": {"description": "Budgets updated"}}}}
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        },
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
	Title:            "Fintrack API",
	Description:      "Fintrack records income, expenses and loans, tracks savings goals and budgets, and reports on spending.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
