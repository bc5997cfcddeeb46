package utils

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Characters invalid in filenames on most filesystems
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	// Whitespace characters to normalize
	whitespaceChars = regexp.MustCompile(`[\r\n\t]`)
	// Multiple spaces to collapse
	multipleSpaces = regexp.MustCompile(`\s+`)
)

// SanitizeFilename turns a novel title into something safe to use as a file
// name on disk.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = whitespaceChars.ReplaceAllString(filename, " ")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	// Limit length in runes so CJK titles are never cut mid-character
	if runes := []rune(filename); len(runes) > 100 {
		filename = strings.TrimSpace(string(runes[:100]))
	}

	if filename == "" {
		filename = "Untitled"
	}

	return filename
}

// SupportedTextExtensions lists upload extensions accepted as plain text.
var SupportedTextExtensions = []string{
	".txt", ".text",
	".js", ".jsx", ".ts", ".tsx", ".vue", ".svelte",
	".html", ".htm", ".css", ".scss", ".sass", ".less",
	".json", ".xml", ".yaml", ".yml",
	".md", ".markdown",
	".py", ".java", ".c", ".cpp", ".h", ".hpp",
	".php", ".rb", ".go", ".rs", ".swift", ".kt",
	".sql", ".sh", ".bash", ".zsh", ".ps1",
	".csv", ".log", ".ini", ".conf", ".config",
}

// IsSupportedTextFile reports whether the file name carries an allowed
// extension. The comparison is case-insensitive.
func IsSupportedTextFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, allowed := range SupportedTextExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// StripExtension returns the base name of a slash- or backslash-separated
// path without its final extension.
func StripExtension(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}
