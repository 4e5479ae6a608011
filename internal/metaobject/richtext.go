package metaobject

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	// UGC policy: admin-entered content still renders through the same
	// sanitiser as anything user-supplied.
	htmlPolicy = bluemonday.UGCPolicy()
)

// RenderRichText converts a multi-line or rich-text field value into
// sanitised HTML. A body that fails to render degrades to an escaped
// paragraph rather than an error.
func RenderRichText(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(trimmed), &buf); err != nil {
		return "<p>" + html.EscapeString(trimmed) + "</p>"
	}
	return strings.TrimSpace(htmlPolicy.Sanitize(buf.String()))
}

// RichTextValue resolves the field and renders its value as sanitised HTML.
func (l Lookup) RichTextValue(key string) string {
	return RenderRichText(l.FieldValue(key))
}
