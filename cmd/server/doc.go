// Package main is the entry point for the stashbox storage server.
//
// The server exposes a resource-scoped file storage tree over HTTP:
// listing, uploads, downloads, folder and URL-shortcut creation, and
// recursive deletion, plus the read-only gallery convenience endpoints.
// Configuration is environment-based; see internal/infrastructure/config.
package main
