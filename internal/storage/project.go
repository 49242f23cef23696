package storage

import (
	"path/filepath"
	"strings"
)

const urlExtension = ".url"

// projectFolder shapes a subdirectory into an API entry.
func (e *Engine) projectFolder(parentPath, name string) Entry {
	return Entry{
		Kind:                     KindFolder,
		Filename:                 name,
		FilenameWithoutExtension: name,
		Path:                     joinRelative(parentPath, name),
		Icon:                     e.icons.Folder,
	}
}

// projectFile shapes a regular file into an API entry. Files with the
// shortcut extension surface as URL entries with the fixed URL icon.
func (e *Engine) projectFile(parentPath, name string) Entry {
	ext := strings.ToLower(filepath.Ext(name))
	kind := KindFile
	icon := e.icons.forExtension(ext)
	if ext == urlExtension {
		kind = KindURL
		icon = e.icons.URL
	}

	return Entry{
		Kind:                     kind,
		Filename:                 name,
		FilenameWithoutExtension: strings.TrimSuffix(name, filepath.Ext(name)),
		Path:                     joinRelative(parentPath, name),
		Icon:                     icon,
	}
}
