package geotext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// lineBreaks strips carriage returns and newlines from templates.
var lineBreaks = runes.Remove(runes.Predicate(func(r rune) bool {
	return r == '\r' || r == '\n'
}))

// entityReplacer maps shorthand tags to HTML entities.
var entityReplacer = strings.NewReplacer(
	"&amp;arc;", "&ang;",
	"<arc/>", "&ang;",
	"<arc />", "&ang;",
	"<sqrt/>", "&radic;",
	"<sqrt />", "&radic;",
)

// decorationReplacer rewrites decoration shorthand into inline style markup.
var decorationReplacer = strings.NewReplacer(
	"<overline>", "<span style=text-decoration:overline>",
	"</overline>", "</span>",
	"<arrow>", "<span style=text-decoration:overline>",
	"</arrow>", "</span>",
	"&amp;", "&",
)

// formulaEntities undoes HTML escaping inside formula bodies.
var formulaEntities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// escapeReplacer turns markup brackets into entities.
var escapeReplacer = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// sanitize removes line breaks and expands entity shorthand.
func sanitize(s string) string {
	out, _, err := transform.String(lineBreaks, s)
	if err != nil {
		out = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	}
	return entityReplacer.Replace(out)
}

// rewriteScripts turns ^x and ^{...} into <sup> markup and _x and _{...}
// into <sub> markup. An unclosed brace runs to the end of the string.
func rewriteScripts(s string) string {
	if !strings.ContainsAny(s, "^_") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c != '^' && c != '_') || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		tag := "sup"
		if c == '_' {
			tag = "sub"
		}
		var body string
		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				body = s[i+2:]
				i = len(s)
			} else {
				body = s[i+2 : i+2+end]
				i += 2 + end
			}
		} else {
			_, size := utf8.DecodeRuneInString(s[i+1:])
			body = s[i+1 : i+1+size]
			i += size
		}
		b.WriteString("<" + tag + ">")
		b.WriteString(body)
		b.WriteString("</" + tag + ">")
	}
	return b.String()
}

// rewriteLiteral applies the full shorthand rewrite to a literal segment.
func rewriteLiteral(s string) string {
	return decorationReplacer.Replace(rewriteScripts(s))
}
