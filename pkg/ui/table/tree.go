package table

import (
	"strings"

	// Packages
	lipgloss "github.com/charmbracelet/lipgloss"
	lgtree "github.com/charmbracelet/lipgloss/tree"
	schema "github.com/mutablelogic/go-chat/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// STYLES

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	linkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RenderTree returns a roadmap diagram as an indented tree, with each
// node's description and resources listed under its title.
func RenderTree(node *schema.DiagramNode) string {
	if node == nil {
		return ""
	}

	// Nodes arrive in pre-order, so the parent of a node at depth d is
	// the last tree opened at depth d-1
	var parents []*lgtree.Tree
	node.Walk(func(depth int, node *schema.DiagramNode) {
		t := lgtree.Root(nodeLabel(node))
		parents = append(parents[:depth], t)
		if depth > 0 {
			parents[depth-1].Child(t)
		}
	})
	return parents[0].
		Enumerator(lgtree.RoundedEnumerator).
		EnumeratorStyle(dimStyle).
		String()
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func nodeLabel(node *schema.DiagramNode) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(node.Title))
	if description := strings.TrimSpace(node.Description); description != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(Truncate(description, 80)))
	}
	for _, resource := range node.Resources {
		b.WriteString("\n")
		b.WriteString("• ")
		b.WriteString(resource.Title)
		if resource.Type != "" {
			b.WriteString(" (" + resource.Type + ")")
		}
		b.WriteString(" ")
		b.WriteString(linkStyle.Render(resource.URL))
	}
	return b.String()
}
