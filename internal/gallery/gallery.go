// Package gallery exposes a year-bucketed photo collection on top of a
// storage resource. Photos live under gallery/{year}/ inside the resource;
// the service is read-only and delegates every filesystem concern to the
// storage capability interface.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/stashbox/backend/internal/storage"
)

// Folder is the subtree holding the year directories.
const Folder = "gallery"

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".svg":  true,
}

var documentExtensions = map[string]bool{
	".pdf": true,
}

// Photo is one media file shaped for the gallery API.
type Photo struct {
	Filename                 string `json:"filename"`
	FilenameWithoutExtension string `json:"filenameWithoutExtension"`
	Path                     string `json:"path"`
	Year                     int    `json:"year"`
	URL                      string `json:"url"`
	Type                     string `json:"type"`
}

// Service reads the gallery subtree of a fixed storage resource.
type Service struct {
	storage  storage.Service
	resource string
}

// New creates a gallery service bound to the given resource key.
func New(st storage.Service, resource string) *Service {
	return &Service{storage: st, resource: resource}
}

// Years returns every year that has a gallery folder, newest first. A
// missing gallery subtree means no years, not an error.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	result, err := s.storage.List(ctx, s.resource, Folder)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []int{}, nil
		}
		return nil, err
	}

	years := yearFolders(result.Items)
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// Photos returns the media files for one year, or for every year when
// year is nil. Missing year folders contribute no photos.
func (s *Service) Photos(ctx context.Context, year *int) ([]Photo, error) {
	if year != nil {
		return s.photosForYear(ctx, *year)
	}

	years, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}

	all := make([]Photo, 0)
	for _, y := range years {
		photos, err := s.photosForYear(ctx, y)
		if err != nil {
			return nil, err
		}
		all = append(all, photos...)
	}
	return all, nil
}

// HasPhotos reports whether at least one media file exists for the year.
func (s *Service) HasPhotos(ctx context.Context, year int) (bool, error) {
	photos, err := s.photosForYear(ctx, year)
	if err != nil {
		return false, err
	}
	return len(photos) > 0, nil
}

// YearsWithPhotos returns the years that contain at least one media file,
// newest first.
func (s *Service) YearsWithPhotos(ctx context.Context) ([]int, error) {
	years, err := s.Years(ctx)
	if err != nil {
		return nil, err
	}

	withPhotos := make([]int, 0, len(years))
	for _, y := range years {
		ok, err := s.HasPhotos(ctx, y)
		if err != nil {
			return nil, err
		}
		if ok {
			withPhotos = append(withPhotos, y)
		}
	}
	return withPhotos, nil
}

// Download opens a media file from the gallery subtree. Paths outside the
// subtree are rejected before touching storage.
func (s *Service) Download(ctx context.Context, path string) (*storage.Download, error) {
	if !strings.HasPrefix(path, Folder+"/") {
		return nil, fmt.Errorf("%w: file does not exist", storage.ErrNotFound)
	}
	return s.storage.Download(ctx, s.resource, path)
}

func (s *Service) photosForYear(ctx context.Context, year int) ([]Photo, error) {
	result, err := s.storage.List(ctx, s.resource, Folder+"/"+strconv.Itoa(year))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []Photo{}, nil
		}
		return nil, err
	}

	photos := make([]Photo, 0, len(result.Items))
	for _, item := range result.Items {
		if item.Kind != storage.KindFile || !isMediaFile(item.Filename) {
			continue
		}
		photos = append(photos, Photo{
			Filename:                 item.Filename,
			FilenameWithoutExtension: item.FilenameWithoutExtension,
			Path:                     item.Path,
			Year:                     year,
			URL:                      "/api/gallery/download?path=" + url.QueryEscape(item.Path),
			Type:                     mediaType(item.Filename),
		})
	}
	return photos, nil
}

func yearFolders(items []storage.Entry) []int {
	years := make([]int, 0, len(items))
	for _, item := range items {
		if item.Kind != storage.KindFolder {
			continue
		}
		if year, err := strconv.Atoi(item.Filename); err == nil {
			years = append(years, year)
		}
	}
	return years
}

func isMediaFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return imageExtensions[ext] || documentExtensions[ext]
}

func mediaType(filename string) string {
	if imageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return "image"
	}
	return "pdf"
}
