// Package api exposes the ledger over HTTP. Handlers decode and validate
// requests, call the services and map their errors to status codes through
// MapErrorToStatusCode and GetSafeErrorMessage.
package api
