// Package render prepares server-held content for terminal display.
package render

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Description converts a web-authored event description to markdown for
// the terminal. Content that fails conversion is shown as-is.
func Description(desc string) string {
	md, err := htmltomarkdown.ConvertString(desc)
	if err != nil {
		return strings.TrimSpace(desc)
	}
	return strings.TrimSpace(md)
}
