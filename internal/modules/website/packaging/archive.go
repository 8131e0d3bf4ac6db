package packaging

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"
)

const (
	FileHTML   = "index.html"
	FileCSS    = "styles.css"
	FileJS     = "script.js"
	FileReadme = "README.md"

	ContentType = "application/zip"
)

// Archive is a downloadable website bundle.
type Archive struct {
	FileName string
	Files    []string
	Data     []byte
}

type entry struct {
	name string
	body string
}

// Build packs the site into a ZIP. index.html is always present; styles.css and script.js
// only when they have content. The README lists exactly the files shipped.
func Build(id, html, css, js string) (*Archive, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("build archive: empty html")
	}

	entries := []entry{{name: FileHTML, body: html}}
	if strings.TrimSpace(css) != "" {
		entries = append(entries, entry{name: FileCSS, body: css})
	}
	if strings.TrimSpace(js) != "" {
		entries = append(entries, entry{name: FileJS, body: js})
	}
	names := make([]string, 0, len(entries)+1)
	for _, e := range entries {
		names = append(names, e.name)
	}
	entries = append(entries, entry{name: FileReadme, body: Readme(names)})
	names = append(names, FileReadme)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	modified := time.Now().UTC()
	for _, e := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, fmt.Errorf("zip %s: %w", e.name, err)
		}
		if _, err := w.Write([]byte(e.body)); err != nil {
			return nil, fmt.Errorf("zip %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}

	return &Archive{
		FileName: FileName(id),
		Files:    names,
		Data:     buf.Bytes(),
	}, nil
}

func FileName(id string) string { return "mi-web-" + id + ".zip" }

var fileLabels = map[string]string{
	FileHTML: "Página principal",
	FileCSS:  "Estilos CSS",
	FileJS:   "JavaScript",
}

// Readme renders the bundled README for the given site files.
func Readme(files []string) string {
	var b strings.Builder
	b.WriteString("# Tu Web Profesional\n\n")
	b.WriteString("Generado con AI Web Builder\n\n")
	b.WriteString("## Archivos incluidos:\n")
	for _, f := range files {
		label, ok := fileLabels[f]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "- %s - %s\n", f, label)
	}
	b.WriteString("\n## Cómo usar:\n")
	b.WriteString("1. Sube estos archivos a tu hosting (FTP, cPanel, etc)\n")
	b.WriteString("2. Asegúrate de que index.html esté en la raíz\n")
	b.WriteString("3. ¡Tu web está lista!\n\n")
	b.WriteString("## Personalización:\n")
	b.WriteString("Puedes editar los archivos directamente o usar nuestro builder para regenerar.\n\n")
	b.WriteString("---\n")
	b.WriteString("Creado con AI Web Builder\n")
	return b.String()
}
