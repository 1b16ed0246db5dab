// Package render produces the human-readable sentence shown for a complete
// relationship row.
package render

import (
	"html"

	"github.com/valyala/fasttemplate"

	"github.com/Ramsey-B/vine/pkg/catalog"
	"github.com/Ramsey-B/vine/pkg/models"
)

const linkTemplate = `<a href="[href]">[name]</a>`

// Link renders an entity as an anchor to its page.
func Link(e models.Entity) string {
	return fasttemplate.ExecuteString(linkTemplate, "[", "]", map[string]any{
		"href": html.EscapeString(e.Link()),
		"name": html.EscapeString(e.DisplayName()),
	})
}

// Sentence renders the relationship sentence using the type's display
// template. It never fails: an unknown type renders nothing.
func Sentence(c *catalog.Catalog, typeID int, source, target models.Entity) string {
	if c == nil {
		return ""
	}
	out, _ := c.Fill(typeID, Link(source), Link(target))
	return out
}
