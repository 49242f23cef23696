// Package storage implements the resource-scoped file storage engine.
//
// The engine maps an opaque resource key plus a client-supplied relative
// path onto a physical location under a configured base directory and
// performs all filesystem operations there:
//   - resource roots: lazily created, sanitized per-resource directories
//   - path normalization: slash-normalized relative paths with a total
//     traversal guard
//   - operations: list, upload, download, create folder, create URL
//     shortcut, recursive delete
//   - projection: directory entries shaped into API items with icons
//
// Guarantees:
//   - Every resolved path stays inside its resource root
//   - Sibling name collisions resolve to "name (1)", "name (2)", ...
//   - Creations within one directory are serialized in-process
//   - Failed or canceled uploads leave no partial file behind
//
// The package is log-free and surfaces typed failures (ErrNotFound,
// ErrAccessDenied, ...) to its caller; mapping them to transport status
// codes is the HTTP layer's concern.
//
// Example Usage:
//
//	engine, err := storage.NewEngine(storage.Config{BasePath: "storage"})
//	result, err := engine.List(ctx, "team-a", "docs/reports")
package storage
