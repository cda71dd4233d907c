// Package http contains the HTTP handlers for the dashboard API.
//
// Handlers are grouped by resource (data, insights, health) and mounted
// by the application router under /api. All error responses follow
// RFC 7807 via the shared ErrorHandler; success responses use a
// consistent {status, data, count} envelope rendered with go-chi/render.
//
// Dataset endpoints accept optional filter query parameters:
//
//	companies=Meta,Google     comma-separated company names
//	industries=Technology     comma-separated industry names
//	years=2022,2023           comma-separated years
//	months=1,2,11             comma-separated months (1-12)
package http
