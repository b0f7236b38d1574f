// Package http implements the HTTP handlers of the analytics API.
// It is a thin layer between transport and the service layer: handlers
// parse and validate query parameters, call a service, and render the
// result, with errors transformed to RFC 7807 problem documents.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Pipeline
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// All errors follow the RFC 7807 Problem Details specification:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Validation Error",
//	    "status": 400,
//	    "detail": "start_month requires start_year",
//	    "instance": "/api/analytics/summary"
//	}
//
// Handlers are tested with httptest against stubbed service interfaces.
package http
