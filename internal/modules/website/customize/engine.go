package customize

import (
	"context"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/yungbote/sitebuilder-backend/internal/platform/logger"
)

// TextEditor rewrites visible text in an HTML document.
type TextEditor interface {
	EditTexts(ctx context.Context, html string, replacements map[string]string) (string, error)
}

// Directives is one customization request. Every part is optional.
type Directives struct {
	Colors map[string]string
	Texts  map[string]string
	Images map[string]string
}

func (d Directives) IsEmpty() bool {
	return !hasValue(d.Colors) && len(d.Texts) == 0 && len(d.Images) == 0
}

// Result is the document after customization. Changed reports whether any transform ran.
type Result struct {
	HTML    string
	CSS     string
	Changed bool
}

type Engine struct {
	log    *logger.Logger
	editor TextEditor
	strip  *bluemonday.Policy
}

func NewEngine(log *logger.Logger, editor TextEditor) *Engine {
	return &Engine{
		log:    log.With("component", "CustomizeEngine"),
		editor: editor,
		strip:  bluemonday.StrictPolicy(),
	}
}

// Apply runs colors, then texts, then images. Each step is skipped when its directive is
// empty.
func (e *Engine) Apply(ctx context.Context, html, css string, d Directives) Result {
	res := Result{HTML: html, CSS: css}
	if hasValue(d.Colors) {
		res.CSS = ApplyColors(res.CSS, d.Colors)
		res.Changed = true
	}
	if len(d.Texts) > 0 {
		res.HTML = e.ApplyTexts(ctx, res.HTML, d.Texts)
		res.Changed = true
	}
	if len(d.Images) > 0 {
		res.HTML = ApplyImages(res.HTML, d.Images)
		res.Changed = true
	}
	return res
}

// ApplyTexts asks the editor to rewrite texts. Any editor failure, or a reply that does not
// look like HTML, leaves the document as it was.
func (e *Engine) ApplyTexts(ctx context.Context, html string, texts map[string]string) string {
	if len(texts) == 0 || strings.TrimSpace(html) == "" {
		return html
	}
	clean := e.SanitizeTexts(texts)
	if len(clean) == 0 {
		return html
	}
	if e.editor == nil {
		e.log.Warn("Text edit skipped, no editor configured")
		return html
	}

	edited, err := e.editor.EditTexts(ctx, html, clean)
	if err != nil {
		e.log.Warn("Text edit failed, keeping original HTML", "error", err, "fields", len(clean))
		return html
	}
	trimmed := strings.TrimSpace(edited)
	if trimmed == "" || !strings.Contains(trimmed, "<") {
		e.log.Warn("Text edit returned no HTML, keeping original", "fields", len(clean))
		return html
	}
	return edited
}

// SanitizeTexts strips markup from every value and drops the ones left empty.
func (e *Engine) SanitizeTexts(texts map[string]string) map[string]string {
	out := make(map[string]string, len(texts))
	for k, v := range texts {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		v = strings.TrimSpace(e.strip.Sanitize(v))
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

func hasValue(m map[string]string) bool {
	for _, v := range m {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}
