package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxUploadBytes is the per-file upload ceiling (1.5 GiB).
const DefaultMaxUploadBytes int64 = 1_610_612_736

const uploadBufferSize = 64 * 1024

// Config carries the immutable engine configuration. It is captured at
// construction; the engine never reads process-wide state afterwards.
type Config struct {
	BasePath       string
	MaxUploadBytes int64
	Icons          Icons
}

// Engine is the filesystem-as-truth implementation of Service. The
// filesystem is the single source of truth: every operation re-reads the
// directory from disk and no index is kept between requests.
type Engine struct {
	basePath  string
	maxUpload int64
	icons     Icons
	locks     *dirLocks
}

var _ Service = (*Engine)(nil)

// NewEngine creates a storage engine rooted at cfg.BasePath, creating the
// base directory if absent.
func NewEngine(cfg Config) (*Engine, error) {
	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "storage"
	}
	basePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	return &Engine{
		basePath:  basePath,
		maxUpload: maxUpload,
		icons:     cfg.Icons.normalized(),
		locks:     newDirLocks(),
	}, nil
}

// BasePath returns the absolute base storage directory.
func (e *Engine) BasePath() string {
	return e.basePath
}

// List returns the immediate children of a directory: subdirectories
// first, then files, each group sorted case-insensitively by name.
func (e *Engine) List(ctx context.Context, resource, path string) (*ListResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, _, err := e.resolveRoot(resource)
	if err != nil {
		return nil, err
	}
	relativePath, err := normalizePath(path, false)
	if err != nil {
		return nil, err
	}

	absolutePath := combine(root, relativePath)
	info, err := os.Stat(absolutePath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: folder does not exist", ErrNotFound)
	}

	entries, err := os.ReadDir(absolutePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var dirs, files []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		} else {
			files = append(files, entry.Name())
		}
	}
	sortCaseInsensitive(dirs)
	sortCaseInsensitive(files)

	items := make([]Entry, 0, len(dirs)+len(files))
	for _, name := range dirs {
		items = append(items, e.projectFolder(relativePath, name))
	}
	for _, name := range files {
		items = append(items, e.projectFile(relativePath, name))
	}

	return &ListResult{CurrentPath: relativePath, Items: items}, nil
}

// Upload stores the incoming files under the target directory, creating it
// if missing. Zero-length inputs are skipped; a file over the configured
// ceiling fails with ErrPayloadTooLarge. Content is streamed to disk and a
// failed or canceled transfer removes the partially written destination.
func (e *Engine) Upload(ctx context.Context, resource, path string, files []Incoming) (*UploadResult, error) {
	root, _, err := e.resolveRoot(resource)
	if err != nil {
		return nil, err
	}
	relativePath, err := normalizePath(path, false)
	if err != nil {
		return nil, err
	}

	absoluteDir := combine(root, relativePath)
	if err := os.MkdirAll(absoluteDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	stored := make([]Entry, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if file.Size == 0 {
			continue
		}
		if file.Size > e.maxUpload {
			return nil, fmt.Errorf("%w: file %q exceeds the %d byte limit", ErrPayloadTooLarge, file.Name, e.maxUpload)
		}

		name, err := e.storeFile(ctx, absoluteDir, file)
		if err != nil {
			return nil, err
		}
		stored = append(stored, e.projectFile(relativePath, name))
	}

	return &UploadResult{Message: "Files uploaded successfully", Files: stored}, nil
}

// storeFile reserves a unique destination name and streams one incoming
// file into it. The directory lock covers only the probe-and-create step;
// once the destination exists the name is taken and streaming can proceed
// without the lock.
func (e *Engine) storeFile(ctx context.Context, absoluteDir string, file Incoming) (string, error) {
	safeName := sanitizeName(file.Name, "item")

	lock := e.locks.get(absoluteDir)
	lock.Lock()
	name, err := uniqueName(absoluteDir, safeName)
	if err != nil {
		lock.Unlock()
		return "", err
	}
	destination := filepath.Join(absoluteDir, name)
	dst, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	lock.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to create %q: %w", name, err)
	}

	src, err := file.Open()
	if err != nil {
		dst.Close()
		os.Remove(destination)
		return "", fmt.Errorf("failed to open upload %q: %w", file.Name, err)
	}
	defer src.Close()

	if err := e.copyContext(ctx, dst, src); err != nil {
		dst.Close()
		os.Remove(destination)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(destination)
		return "", fmt.Errorf("failed to finish %q: %w", name, err)
	}

	return name, nil
}

// copyContext streams src into dst, checking for cancellation between
// chunks and enforcing the upload ceiling against the actual byte count
// (declared sizes are client-supplied and untrusted).
func (e *Engine) copyContext(ctx context.Context, dst io.Writer, src io.Reader) error {
	buf := make([]byte, uploadBufferSize)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > e.maxUpload {
				return fmt.Errorf("%w: upload exceeds the %d byte limit", ErrPayloadTooLarge, e.maxUpload)
			}
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("failed to write upload: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read upload: %w", err)
		}
	}
}

// Download opens a stored file for shared reading. Missing paths and
// non-regular files fail with ErrNotFound.
func (e *Engine) Download(ctx context.Context, resource, path string) (*Download, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, _, err := e.resolveRoot(resource)
	if err != nil {
		return nil, err
	}
	relativePath, err := normalizePath(path, true)
	if err != nil {
		return nil, err
	}

	absolutePath := combine(root, relativePath)
	info, err := os.Stat(absolutePath)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: file does not exist", ErrNotFound)
	}

	reader, err := os.Open(absolutePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return &Download{
		Reader:      reader,
		ContentType: contentTypeFor(absolutePath),
		Filename:    info.Name(),
		Size:        info.Size(),
	}, nil
}

// CreateFolder creates a uniquely named subdirectory under the target
// path, creating missing ancestors first.
func (e *Engine) CreateFolder(ctx context.Context, resource, path, name string) (*CreateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, _, err := e.resolveRoot(resource)
	if err != nil {
		return nil, err
	}
	relativePath, err := normalizePath(path, false)
	if err != nil {
		return nil, err
	}

	absoluteDir := combine(root, relativePath)
	if err := os.MkdirAll(absoluteDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	safeName := sanitizeName(name, "New Folder")

	lock := e.locks.get(absoluteDir)
	lock.Lock()
	defer lock.Unlock()

	folderName, err := uniqueName(absoluteDir, safeName)
	if err != nil {
		return nil, err
	}
	if err := os.Mkdir(filepath.Join(absoluteDir, folderName), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder %q: %w", folderName, err)
	}

	return &CreateResult{
		Message: "Folder created successfully",
		Item:    e.projectFolder(relativePath, folderName),
	}, nil
}

// CreateURL writes an internet-shortcut file pointing at target. The name
// is forced to the shortcut extension; target must be an absolute http or
// https URL, validated before any filesystem mutation.
func (e *Engine) CreateURL(ctx context.Context, resource, path, name, target string) (*CreateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateShortcutURL(target); err != nil {
		return nil, err
	}

	root, _, err := e.resolveRoot(resource)
	if err != nil {
		return nil, err
	}
	relativePath, err := normalizePath(path, false)
	if err != nil {
		return nil, err
	}

	absoluteDir := combine(root, relativePath)
	if err := os.MkdirAll(absoluteDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create parent directory: %w", err)
	}

	safeName := sanitizeName(name, "New URL")
	if !strings.HasSuffix(strings.ToLower(safeName), urlExtension) {
		safeName += urlExtension
	}

	lock := e.locks.get(absoluteDir)
	lock.Lock()
	defer lock.Unlock()

	fileName, err := uniqueName(absoluteDir, safeName)
	if err != nil {
		return nil, err
	}

	content := "[InternetShortcut]\r\nURL=" + target + "\r\n"
	if err := os.WriteFile(filepath.Join(absoluteDir, fileName), []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write shortcut %q: %w", fileName, err)
	}

	return &CreateResult{
		Message: "URL created successfully",
		Item:    e.projectFile(relativePath, fileName),
	}, nil
}

// Delete removes a file, or a directory with all of its descendants.
// Deletion is unconditional; there is no trash or undo.
func (e *Engine) Delete(ctx context.Context, resource, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	root, _, err := e.resolveRoot(resource)
	if err != nil {
		return err
	}
	relativePath, err := normalizePath(path, true)
	if err != nil {
		return err
	}

	absolutePath := combine(root, relativePath)
	info, err := os.Lstat(absolutePath)
	if err != nil {
		return fmt.Errorf("%w: item does not exist", ErrNotFound)
	}

	if info.IsDir() {
		if err := os.RemoveAll(absolutePath); err != nil {
			return fmt.Errorf("failed to delete folder: %w", err)
		}
		return nil
	}
	if err := os.Remove(absolutePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func validateShortcutURL(target string) error {
	parsed, err := url.Parse(strings.TrimSpace(target))
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("%w: url must be absolute", ErrInvalidArgument)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%w: url scheme must be http or https", ErrInvalidArgument)
	}
	return nil
}

func sortCaseInsensitive(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, b := strings.ToLower(names[i]), strings.ToLower(names[j])
		if a == b {
			return names[i] < names[j]
		}
		return a < b
	})
}
