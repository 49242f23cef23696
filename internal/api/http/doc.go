// Package http contains the Gin handlers for the storage, gallery, and
// health endpoints. Handlers validate and shape requests, delegate to the
// storage capability interface, and map typed failures onto transport
// status codes; they hold no filesystem logic of their own.
package http
