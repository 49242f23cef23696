package storage

import "strings"

// Icons maps entries to display glyphs. Extension keys are lowercase and
// include the leading dot.
type Icons struct {
	Default    string
	Folder     string
	URL        string
	Extensions map[string]string
}

// DefaultIcons returns the built-in glyph set.
func DefaultIcons() Icons {
	return Icons{
		Default: "📄",
		Folder:  "📁",
		URL:     "🔗",
		Extensions: map[string]string{
			".pdf":  "📕",
			".txt":  "📝",
			".jpg":  "🖼️",
			".jpeg": "🖼️",
			".png":  "🖼️",
			".gif":  "🖼️",
			".zip":  "🗜️",
			".mp3":  "🎵",
			".mp4":  "🎬",
		},
	}
}

// normalized fills missing glyphs from the defaults and lowercases the
// extension keys so lookups stay case-insensitive.
func (i Icons) normalized() Icons {
	def := DefaultIcons()
	out := Icons{
		Default:    strings.TrimSpace(i.Default),
		Folder:     strings.TrimSpace(i.Folder),
		URL:        strings.TrimSpace(i.URL),
		Extensions: make(map[string]string, len(i.Extensions)),
	}
	if out.Default == "" {
		out.Default = def.Default
	}
	if out.Folder == "" {
		out.Folder = def.Folder
	}
	if out.URL == "" {
		out.URL = def.URL
	}
	for ext, glyph := range def.Extensions {
		out.Extensions[ext] = glyph
	}
	for ext, glyph := range i.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || glyph == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out.Extensions[ext] = glyph
	}
	return out
}

// forExtension resolves the icon for a file extension.
func (i Icons) forExtension(ext string) string {
	if ext != "" {
		if glyph, ok := i.Extensions[strings.ToLower(ext)]; ok {
			return glyph
		}
	}
	return i.Default
}
