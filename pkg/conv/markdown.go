package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.Tables | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	chatPolicy = bluemonday.NewPolicy()
)

func init() {
	// Answers are rendered into a chat widget; tables are part of the
	// output contract, scripts and styles are not.
	chatPolicy.AllowElements(
		"p", "br", "b", "strong", "i", "em", "u", "s", "del",
		"code", "pre", "blockquote", "ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
	)
	chatPolicy.AllowAttrs("href").OnElements("a")
	chatPolicy.AllowAttrs("class").OnElements("code")
}

// MarkdownToChatHTML renders model markdown into sanitized HTML suitable
// for the chat frontend. Raw HTML the model emitted passes through the
// same sanitize step.
func MarkdownToChatHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	return string(chatPolicy.SanitizeBytes(unsafeHTML))
}

// HTMLToPlainText flattens stored HTML answers for text-only sinks such
// as the CSV export. Falls back to the input when conversion fails.
func HTMLToPlainText(s string) string {
	text, err := html2text.FromString(s, html2text.Options{TextOnly: true})
	if err != nil {
		return s
	}
	return text
}
