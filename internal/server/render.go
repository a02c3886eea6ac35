package server

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// renderMarkdown converts note content to sanitized HTML for the list view.
// The store keeps the raw content; only the presentation goes through here.
func renderMarkdown(content string) template.HTML {
	extensions := parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(content))

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	rendered := markdown.Render(doc, renderer)

	return template.HTML(sanitizer.SanitizeBytes(rendered))
}
