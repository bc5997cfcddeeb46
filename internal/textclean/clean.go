package textclean

import (
	"strings"
	"unicode/utf8"
)

// Result is the output of Clean. Removed counts runes deleted outright and
// Replaced counts runes folded into a single space.
type Result struct {
	Text     string `json:"text"`
	Removed  int    `json:"removed"`
	Replaced int    `json:"replaced"`
}

// Report is the output of SmartClean.
type Report struct {
	Text           string    `json:"text"`
	Cleaned        bool      `json:"cleaned"`
	Detection      Detection `json:"detection"`
	Removed        int       `json:"removed"`
	Replaced       int       `json:"replaced"`
	OriginalLength int       `json:"originalLength"`
	CleanedLength  int       `json:"cleanedLength"`
}

// Clean runs every cleaning pass regardless of severity. Whitespace is
// never touched.
func Clean(text string) Result {
	var res Result

	text = dropRunes(text, isControl, &res.Removed)
	text = dropRunes(text, isPrivateOrSpecial, &res.Removed)
	text = collapseReplacementRuns(text, &res)
	text = dropRunes(text, func(r rune) bool { return r == 'Ʈ' || r == 'Ů' }, &res.Removed)
	text = sweepDisallowedRuns(text, &res)

	for strings.Contains(text, mojibakeTriple) {
		n := strings.Count(text, mojibakeTriple)
		res.Removed += n * utf8.RuneCountInString(mojibakeTriple)
		text = strings.ReplaceAll(text, mojibakeTriple, "")
	}

	res.Text = text
	return res
}

// SmartClean cleans only when Detect reports medium or high severity.
// Applying it to its own output is a no-op.
func SmartClean(text string) Report {
	d := Detect(text)
	rep := Report{
		Text:           text,
		Detection:      d,
		OriginalLength: utf8.RuneCountInString(text),
	}

	if d.Severity != SeverityLow {
		res := Clean(text)
		rep.Text = res.Text
		rep.Cleaned = true
		rep.Removed = res.Removed
		rep.Replaced = res.Replaced
	}

	rep.CleanedLength = utf8.RuneCountInString(rep.Text)
	return rep
}

func dropRunes(text string, match func(rune) bool, removed *int) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if match(r) {
			*removed++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func collapseReplacementRuns(text string, res *Result) string {
	var b strings.Builder
	b.Grow(len(text))
	inRun := false
	for _, r := range text {
		if r == '\uFFFD' {
			res.Replaced++
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteRune(r)
	}
	return b.String()
}

// sweepDisallowedRuns deletes runs longer than minSuspiciousRunLen and turns
// shorter ones into a single space.
func sweepDisallowedRuns(text string, res *Result) string {
	var b strings.Builder
	b.Grow(len(text))
	run := 0

	flush := func() {
		switch {
		case run == 0:
		case run > minSuspiciousRunLen:
			res.Removed += run
		default:
			res.Replaced += run
			b.WriteByte(' ')
		}
		run = 0
	}

	for _, r := range text {
		if isAllowed(r) {
			flush()
			b.WriteRune(r)
			continue
		}
		run++
	}
	flush()

	return b.String()
}
