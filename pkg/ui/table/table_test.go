package table_test

import (
	"strings"
	"testing"
	"time"

	// Packages
	schema "github.com/mutablelogic/go-chat/pkg/schema"
	table "github.com/mutablelogic/go-chat/pkg/ui/table"
	assert "github.com/stretchr/testify/assert"
)

type rows [][]any

func (r rows) Header() []string { return []string{"ID", "PROMPT", "CREATED"} }
func (r rows) Len() int         { return len(r) }
func (r rows) Row(i int) []any  { return r[i] }

func Test_table_001(t *testing.T) {
	assert := assert.New(t)

	out := table.Render(rows{
		{"a", "Learn Go", time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)},
		nil,
		{"b", "", time.Time{}},
	})
	assert.Contains(out, "PROMPT")
	assert.Contains(out, "Learn Go")
	assert.Contains(out, "2026-01-02 03:04")
	assert.Contains(out, "-")
}

func Test_table_002(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("-", table.FormatCell(nil))
	assert.Equal("-", table.FormatCell(""))
	assert.Equal("-", table.FormatCell(0))
	assert.Equal("42", table.FormatCell(42))
	assert.Equal("abc", table.Truncate("abc", 5))
	assert.Equal("ab…", table.Truncate("ab\ncdef", 3))
}

func Test_tree_001(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(table.RenderTree(nil))

	out := table.RenderTree(&schema.DiagramNode{
		ID:    "root",
		Title: "Go",
		Resources: []schema.Resource{
			{Title: "Tour", URL: "https://go.dev/tour", Type: "tutorial"},
		},
		Children: []schema.DiagramNode{
			{ID: "a", Title: "Basics", Description: "Syntax and types"},
			{ID: "b", Title: "Concurrency"},
		},
	})
	assert.Contains(out, "Go")
	assert.Contains(out, "https://go.dev/tour")
	assert.Contains(out, "Syntax and types")
	assert.Less(strings.Index(out, "Basics"), strings.Index(out, "Concurrency"))
}

func Test_tree_002(t *testing.T) {
	assert := assert.New(t)

	// Grandchildren are nested under their own parent
	out := table.RenderTree(&schema.DiagramNode{
		ID:    "root",
		Title: "Go",
		Children: []schema.DiagramNode{
			{ID: "a", Title: "Basics", Children: []schema.DiagramNode{
				{ID: "a1", Title: "Slices"},
			}},
			{ID: "b", Title: "Concurrency", Children: []schema.DiagramNode{
				{ID: "b1", Title: "Channels"},
			}},
		},
	})
	lines := strings.Split(out, "\n")
	if assert.Len(lines, 5) {
		assert.Contains(lines[0], "Go")
		assert.Contains(lines[1], "Basics")
		assert.Contains(lines[2], "Slices")
		assert.Contains(lines[3], "Concurrency")
		assert.Contains(lines[4], "Channels")
	}

	// Nested entries are indented further than their parent
	indent := func(line string, title string) int {
		return strings.Index(line, title)
	}
	assert.Greater(indent(lines[2], "Slices"), indent(lines[1], "Basics"))
	assert.Greater(indent(lines[4], "Channels"), indent(lines[3], "Concurrency"))
}
