package utils

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var dangerousChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f\x7f\s]`)

// SanitizeFileName strips path components and unsafe characters.
func SanitizeFileName(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	filename = strings.TrimSpace(filename)
	filename = dangerousChars.ReplaceAllString(filename, "_")

	if filename == "" || filename == "." || filename == ".." || filename == "/" {
		filename = "file"
	}
	return strings.ToLower(filename)
}

// BuildUploadPath returns a storage key such as
// "courses/<id>/thumbnail/1700000000-cover.png".
func BuildUploadPath(category, entityID, kind, filename string) string {
	name := fmt.Sprintf("%d-%s", time.Now().Unix(), SanitizeFileName(filename))
	return path.Join(category, entityID, kind, name)
}
