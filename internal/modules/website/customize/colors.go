package customize

import (
	"regexp"
	"strings"

	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
)

var colorDecls = map[string]*regexp.Regexp{
	site.ColorPrimary:   regexp.MustCompile(`--primary-color:\s*[^;]+;`),
	site.ColorSecondary: regexp.MustCompile(`--secondary-color:\s*[^;]+;`),
	site.ColorAccent:    regexp.MustCompile(`--accent-color:\s*[^;]+;`),
}

// ApplyColors rewrites the first --<key>-color declaration for each palette key present in
// colors. Keys outside the palette, empty values, values that would end the declaration and
// missing declarations are ignored.
func ApplyColors(css string, colors map[string]string) string {
	if css == "" || len(colors) == 0 {
		return css
	}
	out := css
	for _, key := range site.ColorKeys {
		value := strings.TrimSpace(colors[key])
		if value == "" || strings.ContainsAny(value, ";{}") {
			continue
		}
		re := colorDecls[key]
		loc := re.FindStringIndex(out)
		if loc == nil {
			continue
		}
		out = out[:loc[0]] + "--" + key + "-color: " + value + ";" + out[loc[1]:]
	}
	return out
}

// ExtractColors reads the first value of each palette variable declared in css.
func ExtractColors(css string) map[string]string {
	out := map[string]string{}
	for _, key := range site.ColorKeys {
		m := colorDecls[key].FindString(css)
		if m == "" {
			continue
		}
		v := m[strings.Index(m, ":")+1 : len(m)-1]
		if v = strings.TrimSpace(v); v != "" {
			out[key] = v
		}
	}
	return out
}
