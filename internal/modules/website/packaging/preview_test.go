package packaging

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlinePreviewInlinesAssets(t *testing.T) {
	html := `<!DOCTYPE html><html><head><link rel="stylesheet" href="styles.css"></head>` +
		`<body><h1>Hola</h1><script src="script.js"></script></body></html>`

	out := InlinePreview(html, "h1{color:red}", "console.log('x')")

	assert.NotContains(t, out, `href="styles.css"`)
	assert.NotContains(t, out, `src="script.js"`)
	assert.Contains(t, out, "<style>\nh1{color:red}\n</style>\n</head>")
	assert.Contains(t, out, "<script>\nconsole.log('x')\n</script>\n</body>")
}

func TestInlinePreviewWithoutMarkers(t *testing.T) {
	out := InlinePreview("<h1>Hola</h1>", "a{}", "")

	assert.True(t, strings.HasPrefix(out, "<h1>Hola</h1>"))
	assert.True(t, strings.HasSuffix(out, "<style>\na{}\n</style>\n"))
	assert.NotContains(t, out, "<script>")
}

func TestInlinePreviewNoAssets(t *testing.T) {
	html := "<html><head></head><body></body></html>"
	assert.Equal(t, html, InlinePreview(html, "", " "))
}
