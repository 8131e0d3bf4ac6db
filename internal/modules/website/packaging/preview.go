package packaging

import (
	"regexp"
	"strings"
)

var (
	stylesheetLinkRe = regexp.MustCompile(`(?is)<link\b[^>]*href\s*=\s*["']\.?/?styles\.css["'][^>]*>`)
	scriptSrcRe      = regexp.MustCompile(`(?is)<script\b[^>]*src\s*=\s*["']\.?/?script\.js["'][^>]*>\s*</script>`)
	headCloseRe      = regexp.MustCompile(`(?i)</head>`)
	bodyCloseRe      = regexp.MustCompile(`(?i)</body>`)
)

// InlinePreview produces a single self-contained document for the builder iframe. The
// stylesheet goes before </head> and the script before </body>; both are appended when
// the markers are missing.
func InlinePreview(html, css, js string) string {
	out := stylesheetLinkRe.ReplaceAllString(html, "")
	out = scriptSrcRe.ReplaceAllString(out, "")

	if strings.TrimSpace(css) != "" {
		style := "<style>\n" + css + "\n</style>\n"
		out = insertBefore(out, headCloseRe, style)
	}
	if strings.TrimSpace(js) != "" {
		script := "<script>\n" + js + "\n</script>\n"
		out = insertBefore(out, bodyCloseRe, script)
	}
	return out
}

func insertBefore(doc string, marker *regexp.Regexp, snippet string) string {
	loc := marker.FindStringIndex(doc)
	if loc == nil {
		return doc + snippet
	}
	return doc[:loc[0]] + snippet + doc[loc[0]:]
}
