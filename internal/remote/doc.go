// Package remote is the HTTP client for the document service: text
// recognition of a captured page and creation of the confirmed document.
//
// Requests and responses are JSON. Non-2xx responses are returned as
// *APIError carrying the service's "detail" message. Failures are never
// retried; the capture session returns to scanning instead.
package remote
