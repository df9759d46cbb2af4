package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>JoyJuncture API docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "joyjuncture", "version": "v0.1.0" },
  "components": { "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer" } } },
  "paths": {
    "/auth/signup": {
      "post": {
        "summary": "Create the user record (idempotent)",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"userId":{"type":"string"},"email":{"type":"string"},"name":{"type":"string"}}}}}},
        "responses": { "200": { "description": "created or already exists" }, "400": { "description": "missing userId" } }
      }
    },
    "/auth/logout": { "post": { "summary": "Blacklist the current access token", "security": [{"bearer": []}], "responses": { "200": { "description": "{success:true}" }, "401": { "description": "unauthenticated" } } } },
    "/auth/me": { "get": { "summary": "Caller identity and user record", "security": [{"bearer": []}], "responses": { "200": { "description": "identity" }, "401": { "description": "unauthenticated" } } } },
    "/admin/sudoku": {
      "post": {
        "summary": "Create a hidden, unassigned puzzle",
        "security": [{"bearer": []}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"levelId":{"type":"string"},"difficulty":{"type":"string","enum":["easy","medium","hard"]},"variationNo":{"type":"integer"},"puzzle":{"type":"array","items":{"type":"array","items":{"type":"integer"}}},"coins":{"type":"integer"}}}}}},
        "responses": { "201": { "description": "created" }, "400": { "description": "invalid puzzle" }, "403": { "description": "not admin" }, "409": { "description": "duplicate levelId" } }
      }
    },
    "/admin/sudoku/{levelId}": { "get": { "summary": "Get a puzzle", "security": [{"bearer": []}], "responses": { "200": { "description": "puzzle" }, "403": { "description": "not admin" }, "404": { "description": "not found" } } } },
    "/admin/sudoku/{levelId}/assign": { "put": { "summary": "Publish an unassigned puzzle", "security": [{"bearer": []}], "responses": { "200": { "description": "assigned" }, "404": { "description": "not found" }, "409": { "description": "already assigned" } } } },
    "/admin/sudoku/{levelId}/unpublish": { "put": { "summary": "Hide and unassign a puzzle", "security": [{"bearer": []}], "responses": { "200": { "description": "unpublished" }, "404": { "description": "not found" } } } },
    "/admin/sudoku/random": { "get": { "summary": "Pick a random unassigned puzzle", "security": [{"bearer": []}], "parameters": [{"name":"difficulty","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "puzzle" }, "400": { "description": "invalid difficulty" }, "404": { "description": "no candidates" } } } },
    "/admin/sudoku/claim": { "post": { "summary": "Pick and assign a random unassigned puzzle", "security": [{"bearer": []}], "parameters": [{"name":"difficulty","in":"query","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "assigned puzzle" }, "404": { "description": "no candidates" } } } },
    "/admin/sudoku/variation/{variationNo}": { "get": { "summary": "List puzzles of a variation", "security": [{"bearer": []}], "responses": { "200": { "description": "puzzles" } } } },
    "/admin/sudoku/export": { "post": { "summary": "Export the catalog to object storage", "security": [{"bearer": []}], "responses": { "200": { "description": "key, url, count" }, "503": { "description": "object storage not configured" } } } },
    "/admin/sudoku/imports": { "get": { "summary": "Recent puzzle pack imports", "security": [{"bearer": []}], "responses": { "200": { "description": "import runs" } } } },
    "/admin/sudoku/imports/{runId}": { "get": { "summary": "One puzzle pack import", "security": [{"bearer": []}], "parameters": [{"name": "runId", "in": "path", "required": true, "schema": {"type": "string"}}], "responses": { "200": { "description": "import run" }, "404": { "description": "unknown run" } } } },
    "/user/{userId}/calendar-status": { "get": { "summary": "Calendar connection state", "security": [{"bearer": []}], "responses": { "200": { "description": "connected, email" }, "403": { "description": "other user" }, "404": { "description": "user not found" } } } },
    "/user/{userId}/connect-calendar": { "post": { "summary": "Store calendar tokens", "security": [{"bearer": []}], "responses": { "200": { "description": "connected" } } } },
    "/user/{userId}/disconnect-calendar": { "post": { "summary": "Remove calendar tokens", "security": [{"bearer": []}], "responses": { "200": { "description": "disconnected" } } } },
    "/user/sudoku/levels": { "get": { "summary": "Visible levels", "responses": { "200": { "description": "levels" } } } },
    "/user/sudoku/history": { "get": { "summary": "Play history, newest first", "security": [{"bearer": []}], "responses": { "200": { "description": "records" }, "401": { "description": "unauthenticated" } } } },
    "/user/sudoku/complete": { "post": { "summary": "Record a finished game", "security": [{"bearer": []}], "responses": { "200": { "description": "record and reward" }, "404": { "description": "level or user not found" } } } },
    "/user/wallet": { "get": { "summary": "Coin balance", "security": [{"bearer": []}], "responses": { "200": { "description": "coins" } } } },
    "/user/wallet/history": { "get": { "summary": "Last 50 wallet records", "security": [{"bearer": []}], "responses": { "200": { "description": "records" }, "401": { "description": "unauthenticated" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
