package newsletter

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

// TimestampLayout is the generation timestamp shown to readers and used in
// export file names.
const TimestampLayout = "2006-01-02 15:04:05"

var htmlPolicy = bluemonday.UGCPolicy()

// HTML converts a composed document into sanitized, render-ready HTML.
// Headings, sections and ordering are carried over unchanged.
func HTML(doc string) string {
	if strings.TrimSpace(doc) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	out := markdown.ToHTML([]byte(doc), p, r)
	return string(htmlPolicy.SanitizeBytes(out))
}

// Timestamp formats t as a generation timestamp.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ExportFilename names the exported document for reader, e.g.
// "Alex Parker_newsletter_2025-03-01_09-30-00.md".
func ExportFilename(reader string, generatedAt time.Time) string {
	ts := strings.NewReplacer(":", "-", " ", "_").Replace(Timestamp(generatedAt))
	return fmt.Sprintf("%s_newsletter_%s.md", reader, ts)
}
