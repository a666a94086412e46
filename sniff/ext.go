package sniff

import (
	"mime"
	"strings"
)

// extensions lists the usual extensions of a media type, canonical first.
var extensions = map[string][]string{
	"text/plain":                   {"txt"},
	"text/html":                    {"html", "htm"},
	"text/csv":                     {"csv"},
	"application/json":             {"json"},
	"application/xml":              {"xml"},
	"image/jpeg":                   {"jpg", "jpeg"},
	"image/png":                    {"png"},
	"image/gif":                    {"gif"},
	"image/webp":                   {"webp"},
	"image/bmp":                    {"bmp"},
	"image/tiff":                   {"tiff", "tif"},
	"image/avif":                   {"avif"},
	"image/heic":                   {"heic"},
	"image/svg+xml":                {"svg"},
	"image/x-icon":                 {"ico"},
	"audio/mpeg":                   {"mp3"},
	"audio/ogg":                    {"ogg"},
	"audio/wav":                    {"wav"},
	"audio/flac":                   {"flac"},
	"audio/mp4":                    {"m4a"},
	"video/mp4":                    {"mp4"},
	"video/webm":                   {"webm"},
	"video/quicktime":              {"mov"},
	"video/x-msvideo":              {"avi"},
	"video/3gpp":                   {"3gp"},
	"application/pdf":              {"pdf"},
	"application/zip":              {"zip"},
	"application/gzip":             {"gz"},
	"application/x-tar":            {"tar"},
	"application/x-7z-compressed":  {"7z"},
	"application/x-rar-compressed": {"rar"},
	"application/x-msdownload":     {"exe", "dll"},
}

// ExtensionFor returns the canonical extension, without the dot, for a
// media type, or "" when none is known.
func ExtensionFor(mediaType string) string {
	mediaType = bareType(mediaType)
	if exts, ok := extensions[mediaType]; ok {
		return exts[0]
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return ""
}

// MatchesExtension reports whether ext is a usual extension for mediaType.
// Comparison ignores case; unknown media types never match.
func MatchesExtension(mediaType, ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range extensions[bareType(mediaType)] {
		if e == ext {
			return true
		}
	}
	return false
}
