package packaging

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(b)
	}
	return out
}

func names(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func TestBuildAllFiles(t *testing.T) {
	a, err := Build("abc", "<html></html>", "body{}", "console.log(1)")
	require.NoError(t, err)

	assert.Equal(t, "mi-web-abc.zip", a.FileName)
	files := readZip(t, a.Data)
	assert.Equal(t, []string{"README.md", "index.html", "script.js", "styles.css"}, names(files))
	assert.Equal(t, "<html></html>", files["index.html"])
	assert.Equal(t, "body{}", files["styles.css"])
	assert.Contains(t, files["README.md"], "- styles.css - Estilos CSS")
	assert.Contains(t, files["README.md"], "- script.js - JavaScript")
	assert.Equal(t, []string{"index.html", "styles.css", "script.js", "README.md"}, a.Files)
}

func TestBuildOmitsEmptyAssets(t *testing.T) {
	a, err := Build("abc", "<html></html>", "body{}", "   ")
	require.NoError(t, err)

	files := readZip(t, a.Data)
	assert.Equal(t, []string{"README.md", "index.html", "styles.css"}, names(files))
	assert.NotContains(t, files["README.md"], "script.js")
	assert.Contains(t, files["README.md"], "- index.html - Página principal")
}

func TestBuildHTMLOnly(t *testing.T) {
	a, err := Build("abc", "<html></html>", "", "")
	require.NoError(t, err)

	files := readZip(t, a.Data)
	assert.Equal(t, []string{"README.md", "index.html"}, names(files))
	assert.NotContains(t, files["README.md"], "styles.css")
}

func TestBuildRequiresHTML(t *testing.T) {
	_, err := Build("abc", " ", "a{}", "")
	require.Error(t, err)
}
