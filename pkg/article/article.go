package article

import (
	"regexp"
	"strings"
	"time"
)

// Article is a single markdown article as served by the detail endpoint.
// ID and Slug are always equal: both are the source file name with its
// markdown extension stripped.
type Article struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ListItem is the list projection of an Article: the same record with
// the content field stripped and nothing else changed.
type ListItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Excerpt   string `json:"excerpt"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// ListItem returns the list projection of a.
func (a Article) ListItem() ListItem {
	return ListItem{
		ID:        a.ID,
		Title:     a.Title,
		Slug:      a.Slug,
		Excerpt:   a.Excerpt,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// ListItems projects a slice of articles, preserving order.
func ListItems(articles []Article) []ListItem {
	items := make([]ListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, a.ListItem())
	}
	return items
}

const maxExcerptLen = 150

var titleRe = regexp.MustCompile(`(?m)^#\s+(.+)$`)

// Extract derives an Article from a file name and its decoded markdown
// text. The title comes from the first level-1 heading when one exists,
// otherwise the id. Timestamps are set to the moment of extraction; the
// GitHub contents API does not expose per-file creation dates.
func Extract(fileName, text string) Article {
	id := TrimMarkdownExt(fileName)

	title := id
	if m := titleRe.FindStringSubmatch(text); m != nil {
		title = strings.TrimSpace(m[1])
	}

	now := time.Now().UTC().Format(time.RFC3339)

	return Article{
		ID:        id,
		Title:     title,
		Slug:      id,
		Content:   text,
		Excerpt:   extractExcerpt(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TrimMarkdownExt strips a trailing .md or .markdown suffix.
func TrimMarkdownExt(name string) string {
	if strings.HasSuffix(name, ".md") {
		return strings.TrimSuffix(name, ".md")
	}
	return strings.TrimSuffix(name, ".markdown")
}

// extractExcerpt returns the first non-heading, non-blank line of text,
// truncated to 150 characters. No ellipsis is appended here; the longer
// rendered excerpt in pkg/markdown handles that form.
func extractExcerpt(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		runes := []rune(line)
		if len(runes) > maxExcerptLen {
			return string(runes[:maxExcerptLen])
		}
		return line
	}
	return ""
}
