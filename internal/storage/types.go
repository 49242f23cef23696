package storage

import (
	"context"
	"io"
)

// EntryKind discriminates the externally visible item types.
type EntryKind int

const (
	KindFolder EntryKind = 0
	KindFile   EntryKind = 1
	KindURL    EntryKind = 2
)

// Entry is one filesystem child shaped for the API. Path is root-relative
// within the resource and doubles as the client-side address of the item.
type Entry struct {
	Kind                     EntryKind `json:"type"`
	Filename                 string    `json:"filename"`
	FilenameWithoutExtension string    `json:"filenameWithoutExtension"`
	Path                     string    `json:"path"`
	Icon                     string    `json:"icon"`
}

// ListResult is a single listing snapshot, subdirectories first.
type ListResult struct {
	CurrentPath string  `json:"currentPath"`
	Items       []Entry `json:"items"`
}

// UploadResult reports the entries stored by one upload request.
type UploadResult struct {
	Message string  `json:"message"`
	Files   []Entry `json:"files"`
}

// CreateResult wraps a single created entry.
type CreateResult struct {
	Message string `json:"message"`
	Item    Entry  `json:"item"`
}

// Download is an open read stream for a stored file. The caller owns the
// reader and must close it.
type Download struct {
	Reader      io.ReadCloser
	ContentType string
	Filename    string
	Size        int64
}

// Incoming is one file offered for upload. Open is invoked at most once,
// after the size checks pass.
type Incoming struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Service is the storage capability contract. Engine is the
// filesystem-as-truth implementation; callers depend on the interface so
// alternative backends can be substituted without touching the HTTP layer.
type Service interface {
	List(ctx context.Context, resource, path string) (*ListResult, error)
	Upload(ctx context.Context, resource, path string, files []Incoming) (*UploadResult, error)
	Download(ctx context.Context, resource, path string) (*Download, error)
	CreateFolder(ctx context.Context, resource, path, name string) (*CreateResult, error)
	CreateURL(ctx context.Context, resource, path, name, url string) (*CreateResult, error)
	Delete(ctx context.Context, resource, path string) error
}
