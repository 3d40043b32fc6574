package article_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpress/gitpress/pkg/article"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		text        string
		wantID      string
		wantTitle   string
		wantExcerpt string
	}{
		{
			name:        "title_from_heading",
			fileName:    "intro.md",
			text:        "# Getting Started\n\nThis is the opening paragraph.\n\nMore text.",
			wantID:      "intro",
			wantTitle:   "Getting Started",
			wantExcerpt: "This is the opening paragraph.",
		},
		{
			name:        "title_defaults_to_id",
			fileName:    "notes.md",
			text:        "just some text without a heading",
			wantID:      "notes",
			wantTitle:   "notes",
			wantExcerpt: "just some text without a heading",
		},
		{
			name:        "markdown_extension",
			fileName:    "guide.markdown",
			text:        "# Guide\n\nBody line.",
			wantID:      "guide",
			wantTitle:   "Guide",
			wantExcerpt: "Body line.",
		},
		{
			name:        "skips_subheadings_for_excerpt",
			fileName:    "deep.md",
			text:        "# Title\n\n## Subtitle\n\nFirst real paragraph.",
			wantID:      "deep",
			wantTitle:   "Title",
			wantExcerpt: "First real paragraph.",
		},
		{
			name:        "empty_content",
			fileName:    "empty.md",
			text:        "",
			wantID:      "empty",
			wantTitle:   "empty",
			wantExcerpt: "",
		},
		{
			name:        "excerpt_truncated_to_150",
			fileName:    "long.md",
			text:        "# Long\n\n" + strings.Repeat("a", 200),
			wantID:      "long",
			wantTitle:   "Long",
			wantExcerpt: strings.Repeat("a", 150),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := article.Extract(tt.fileName, tt.text)

			assert.Equal(t, tt.wantID, a.ID, "id should match")
			assert.Equal(t, tt.wantID, a.Slug, "slug should equal id")
			assert.Equal(t, tt.wantTitle, a.Title, "title should match")
			assert.Equal(t, tt.wantExcerpt, a.Excerpt, "excerpt should match")
			assert.Equal(t, tt.text, a.Content, "content should be unchanged")
			assert.LessOrEqual(t, len([]rune(a.Excerpt)), 150, "excerpt should be at most 150 chars")

			_, err := time.Parse(time.RFC3339, a.CreatedAt)
			require.NoError(t, err, "createdAt should be RFC3339")
			assert.Equal(t, a.CreatedAt, a.UpdatedAt, "both timestamps set at extraction")
		})
	}
}

func TestListItemStripsContentOnly(t *testing.T) {
	a := article.Extract("intro.md", "# Intro\n\nBody.")
	item := a.ListItem()

	assert.Equal(t, a.ID, item.ID, "id should carry over")
	assert.Equal(t, a.Title, item.Title, "title should carry over")
	assert.Equal(t, a.Slug, item.Slug, "slug should carry over")
	assert.Equal(t, a.Excerpt, item.Excerpt, "excerpt should carry over")
	assert.Equal(t, a.CreatedAt, item.CreatedAt, "createdAt should carry over")
	assert.Equal(t, a.UpdatedAt, item.UpdatedAt, "updatedAt should carry over")

	data, err := json.Marshal(item)
	require.NoError(t, err, "marshaling list item should succeed")

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields), "unmarshaling list item should succeed")
	assert.NotContains(t, fields, "content", "list item must not expose content")
}

func TestFallbackDataset(t *testing.T) {
	articles := article.Fallback()
	require.NotEmpty(t, articles, "fallback dataset should not be empty")

	seen := map[string]bool{}
	for _, a := range articles {
		assert.False(t, seen[a.ID], "ids should be unique: %s", a.ID)
		seen[a.ID] = true

		assert.Equal(t, a.ID, a.Slug, "id and slug should be equal")
		assert.NotEmpty(t, a.Title, "title should not be empty")
		assert.NotEmpty(t, a.Excerpt, "excerpt should not be empty")
		assert.NotEmpty(t, a.Content, "content should not be empty")

		_, err := time.Parse(time.RFC3339, a.CreatedAt)
		assert.NoError(t, err, "createdAt should be RFC3339 for %s", a.ID)
		_, err = time.Parse(time.RFC3339, a.UpdatedAt)
		assert.NoError(t, err, "updatedAt should be RFC3339 for %s", a.ID)
	}
}

func TestFallbackByID(t *testing.T) {
	a, ok := article.FallbackByID("astro")
	require.True(t, ok, "astro should exist in the fallback dataset")
	assert.Equal(t, "astro", a.ID, "id should match")
	assert.Equal(t, "astro", a.Slug, "slug should match")
	assert.Equal(t, "Introduction to Astro Framework", a.Title, "title should match")

	_, ok = article.FallbackByID("nonexistent-xyz")
	assert.False(t, ok, "unknown id should not resolve")
}

func TestFallbackReturnsCopy(t *testing.T) {
	first := article.Fallback()
	first[0].Title = "mutated"

	second := article.Fallback()
	assert.NotEqual(t, "mutated", second[0].Title, "mutating a returned slice must not affect the dataset")
}
