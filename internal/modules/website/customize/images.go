package customize

import (
	"regexp"
	"strings"

	"github.com/yungbote/sitebuilder-backend/internal/domain/site"
)

var (
	// Quoted values may contain '>' so the tag runs to the first '>' outside quotes.
	imgTagRe = regexp.MustCompile(`(?is)<img\b(?:[^>"']|"[^"]*"|'[^']*')*>`)
	// Every name=value pair is consumed in order so text inside another attribute's value is
	// never read as an attribute. Names must follow whitespace, which skips data-src.
	imgAttrRe = regexp.MustCompile(`(?s)\s([^\s=/>"']+)\s*=\s*("[^"]*"|'[^']*'|[^\s>"']+)`)
)

type imgAttr struct {
	value string
	// offsets of the value inside the tag, quotes excluded
	start, end int
	// 0 when the value is unquoted
	quote byte
}

type imgTag struct {
	start, end int
	attrs      map[string]imgAttr
}

func (t imgTag) has(name, needle string) bool {
	a, ok := t.attrs[name]
	return ok && strings.Contains(strings.ToLower(a.value), needle)
}

func (t imgTag) isLogo() bool { return t.has("class", "logo") || t.has("id", "logo") }

func (t imgTag) isHero() bool { return t.has("class", "hero") || t.has("class", "banner") }

func scanImages(html string) []imgTag {
	locs := imgTagRe.FindAllStringIndex(html, -1)
	tags := make([]imgTag, 0, len(locs))
	for _, loc := range locs {
		raw := html[loc[0]:loc[1]]
		t := imgTag{start: loc[0], end: loc[1], attrs: map[string]imgAttr{}}
		for _, m := range imgAttrRe.FindAllStringSubmatchIndex(raw, -1) {
			name := strings.ToLower(raw[m[2]:m[3]])
			if name != "class" && name != "id" && name != "src" {
				continue
			}
			if _, seen := t.attrs[name]; seen {
				continue
			}
			a := imgAttr{start: m[4], end: m[5]}
			if q := raw[m[4]]; q == '"' || q == '\'' {
				a.start, a.end, a.quote = m[4]+1, m[5]-1, q
			}
			a.value = raw[a.start:a.end]
			t.attrs[name] = a
		}
		if _, ok := t.attrs["src"]; ok {
			tags = append(tags, t)
		}
	}
	return tags
}

// replaceSrc swaps the src value of tag, keeping the attribute's quote style. Unquoted
// values are quoted when the new URL could not stand bare.
func replaceSrc(html string, tag imgTag, url string) string {
	src := tag.attrs["src"]
	switch src.quote {
	case '"':
		url = strings.ReplaceAll(url, `"`, "&quot;")
	case '\'':
		url = strings.ReplaceAll(url, `'`, "&#39;")
	default:
		if url == "" || strings.ContainsAny(url, " \t\r\n\"'=<>`") {
			url = `"` + strings.ReplaceAll(url, `"`, "&quot;") + `"`
		}
	}
	return html[:tag.start+src.start] + url + html[tag.start+src.end:]
}

// ApplyImages substitutes the logo and hero image sources. The logo is the first <img>
// whose class or id mentions "logo". The hero is the first <img> classed hero or banner,
// or failing that the first <img> that is not a logo. Each slot changes at most one tag.
func ApplyImages(html string, images map[string]string) string {
	if html == "" || len(images) == 0 {
		return html
	}
	out := html
	if logo := strings.TrimSpace(images[site.ImageLogo]); logo != "" {
		for _, t := range scanImages(out) {
			if t.isLogo() {
				out = replaceSrc(out, t, logo)
				break
			}
		}
	}
	if hero := strings.TrimSpace(images[site.ImageHero]); hero != "" {
		tags := scanImages(out)
		var target *imgTag
		for i := range tags {
			if tags[i].isHero() {
				target = &tags[i]
				break
			}
		}
		if target == nil {
			for i := range tags {
				if !tags[i].isLogo() {
					target = &tags[i]
					break
				}
			}
		}
		if target != nil {
			out = replaceSrc(out, *target, hero)
		}
	}
	return out
}
