// Package httpapi serves the agent over a JSON HTTP API built on gin.
//
// Routes:
//
//	POST /v1/index     {"uri": "..."}        -> IndexReport
//	DELETE /v1/index                         -> 204, collection emptied
//	POST /v1/query     {"question": "..."}   -> {"answer": "..."}
//	POST /v1/context   {"question": "..."}   -> {"context": "..."}
//	GET  /v1/count                           -> {"count": n}
//	GET  /v1/documents                       -> supported documents
//	GET  /healthz                            -> {"status": "ok"}
//
// Errors are returned as {"error": "..."} with a status derived from the
// domain sentinel the error wraps.
package httpapi
