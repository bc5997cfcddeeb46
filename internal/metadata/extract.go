// Package metadata infers a novel's title and author from its text.
package metadata

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/novelreader/internal/utils"
)

const (
	UnknownTitle  = "未知小说"
	UnknownAuthor = "未知作者"

	maxTitleRunes = 50
	truncatedKeep = 47
)

// Info is the inferred metadata of a text.
type Info struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Patterns are tried in order; the first capture that is non-blank wins.
var (
	titlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`《(.+?)》`),
		regexp.MustCompile(`(?m)书名[：:][ \t]*(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?m)标题[：:][ \t]*(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?mi)^[ \t]*title[ \t]*[:：][ \t]*(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?mi)^[ \t]*book[ \t]*name[ \t]*[:：][ \t]*(.+?)[ \t\r]*$`),
		// A line directly followed by a chapter heading
		regexp.MustCompile(`(?m)^(.+)\n.*第.*?章`),
	}

	authorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)作者[：:][ \t]*(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?mi)^[ \t]*author[ \t]*[:：][ \t]*(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?mi)written by[ \t]+(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?m)著[ \t]*(.+?)[ \t\r]*$`),
		regexp.MustCompile(`(?m)编写[：:][ \t]*(.+?)[ \t\r]*$`),
	}
)

// Extract infers title and author from text. source is the URL or file name
// the text came from; its last path segment without extension is the title
// fallback.
func Extract(text, source string) Info {
	title := firstCapture(titlePatterns, text)
	if title == "" {
		title = titleFromSource(source)
	}

	author := firstCapture(authorPatterns, text)
	if author == "" {
		author = UnknownAuthor
	}

	return Info{Title: TruncateTitle(title), Author: author}
}

// TruncateTitle shortens titles longer than 50 runes to 47 runes plus "...".
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) <= maxTitleRunes {
		return title
	}
	runes := []rune(title)
	return string(runes[:truncatedKeep]) + "..."
}

func firstCapture(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return ""
}

func titleFromSource(source string) string {
	if u, err := url.Parse(source); err == nil && u.Scheme != "" {
		source = u.Path
	}

	name := strings.TrimSpace(utils.StripExtension(source))
	if name == "" {
		return UnknownTitle
	}
	return name
}
