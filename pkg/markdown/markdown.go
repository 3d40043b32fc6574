package markdown

import (
	"bytes"
	"math"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"gitlab.com/tozd/go/errors"
)

// engine is stateless and safe for concurrent use, so one instance
// serves every request.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.TaskList,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// Result is the rendered form of a markdown document.
type Result struct {
	HTML        string            `json:"html"`
	Frontmatter map[string]string `json:"frontmatter,omitempty"`
}

// Render converts markdown to HTML. A flat key:value frontmatter block
// delimited by --- lines is split off first and returned alongside the
// HTML; it is deliberately not a YAML document.
func Render(source string) (Result, error) {
	frontmatter, body := splitFrontmatter(source)

	var buf bytes.Buffer
	if err := engine.Convert([]byte(body), &buf); err != nil {
		return Result{}, errors.Errorf("rendering markdown: %w", err)
	}

	return Result{
		HTML:        buf.String(),
		Frontmatter: frontmatter,
	}, nil
}

// splitFrontmatter peels a leading frontmatter block off source. Each
// line inside the block is treated as key: value; lines without a colon
// are ignored. Returns nil and the source unchanged when no block is
// present.
func splitFrontmatter(source string) (map[string]string, string) {
	const delim = "---\n"

	if !strings.HasPrefix(source, delim) {
		return nil, source
	}

	rest := source[len(delim):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, source
	}

	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")

	frontmatter := make(map[string]string)
	for _, line := range strings.Split(rest[:end], "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if key != "" {
			frontmatter[key] = value
		}
	}
	if len(frontmatter) == 0 {
		frontmatter = nil
	}

	return frontmatter, body
}

var (
	headingRe = regexp.MustCompile(`(?m)^#+\s+`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	boldRe    = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	italicRe  = regexp.MustCompile(`\*([^*]+)\*`)
	codeRe    = regexp.MustCompile("`([^`]+)`")
	spaceRe   = regexp.MustCompile(`\s+`)
)

// Excerpt strips markdown syntax from source and returns the first
// maxLen characters of plain text, with an ellipsis when truncated.
func Excerpt(source string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 160
	}

	_, body := splitFrontmatter(source)

	plain := headingRe.ReplaceAllString(body, "")
	plain = linkRe.ReplaceAllString(plain, "$1")
	plain = boldRe.ReplaceAllString(plain, "$1")
	plain = italicRe.ReplaceAllString(plain, "$1")
	plain = codeRe.ReplaceAllString(plain, "$1")
	plain = spaceRe.ReplaceAllString(plain, " ")
	plain = strings.TrimSpace(plain)

	runes := []rune(plain)
	if len(runes) > maxLen {
		return strings.TrimSpace(string(runes[:maxLen])) + "..."
	}
	return plain
}

// ReadingTime estimates minutes to read source at 200 words per minute,
// rounded up and never below one for non-empty content.
func ReadingTime(source string) int {
	_, body := splitFrontmatter(source)
	words := len(strings.Fields(body))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / 200))
}
