// Package httpapi exposes the query service over HTTP.
//
// Routes:
//
//	POST /query    {"query": "..."} -> {"response", "compensation_data", "source_links"}
//	GET  /healthz  liveness check
//
// Any other method on /query is answered with 405 "Only POST allowed".
package httpapi
