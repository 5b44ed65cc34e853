// Package markdown renders user-written campaign descriptions to safe HTML.
package markdown

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs | blackfriday.Autolink

// policy is safe for concurrent use once built.
var policy = bluemonday.UGCPolicy()

// Render converts GitHub flavoured markdown to sanitized HTML.
// Blank input renders to an empty string.
func Render(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	unsafe := blackfriday.Run([]byte(src), blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))
	return string(policy.SanitizeBytes(unsafe))
}
