// Package highlight renders source code as HTML markup with per-language
// token coloring.
//
// The lexer produces a flat token stream: each language is a fixed,
// ordered list of regex rules applied only to still-untagged stretches of
// the input, so a later rule can never re-match text an earlier rule
// already claimed. Escaping of markup-significant characters happens per
// token during rendering, before any markup is injected.
package highlight

import (
	"regexp"
	"strings"
)

// token is one stretch of source text. An empty class means plain text.
type token struct {
	class string
	text  string
}

// rule tags one capture group (or the whole match) of a pattern.
type rule struct {
	re    *regexp.Regexp
	class string
	group int
}

var jsRules = []rule{
	{regexp.MustCompile(`//.*`), "comment", 0},
	{regexp.MustCompile("\"[^\"\n]*\"|'[^'\n]*'|`[^`]*`"), "string", 0},
	{regexp.MustCompile(`\b(const|let|var|function|return|if|else|for|while|class|import|export|from|async|await|try|catch|new|this)\b`), "keyword", 0},
	{regexp.MustCompile(`\b\d+\b`), "number", 0},
	{regexp.MustCompile(`(\w+)\s*\(`), "call", 1},
}

var pythonRules = []rule{
	{regexp.MustCompile(`#.*`), "comment", 0},
	{regexp.MustCompile("\"[^\"\n]*\"|'[^'\n]*'"), "string", 0},
	{regexp.MustCompile(`\b(def|class|if|else|elif|for|while|import|from|return|try|except|with|as|in|is|not|or|and|True|False|None)\b`), "keyword", 0},
	{regexp.MustCompile(`\b\d+\b`), "number", 0},
	{regexp.MustCompile(`(\w+)\s*\(`), "call", 1},
}

var htmlRules = []rule{
	{regexp.MustCompile(`<!--(?s:.*?)-->`), "comment", 0},
	{regexp.MustCompile(`(</?)([\w-]+)`), "tag", 2},
	{regexp.MustCompile(`([\w-]+)=`), "attr", 1},
	{regexp.MustCompile(`"[^"]*"`), "value", 0},
}

var cssRules = []rule{
	{regexp.MustCompile(`/\*(?s:.*?)\*/`), "comment", 0},
	{regexp.MustCompile(`([.#]?[\w-]+)\s*\{`), "selector", 1},
	{regexp.MustCompile(`([\w-]+)\s*:`), "property", 1},
	{regexp.MustCompile(`:\s*([\w#.%-]+)\s*;`), "value", 1},
}

var bashRules = []rule{
	{regexp.MustCompile(`#.*`), "comment", 0},
	{regexp.MustCompile("\"[^\"\n]*\"|'[^'\n]*'"), "string", 0},
	{regexp.MustCompile(`(?m)^\s*([a-z][\w.-]*)`), "call", 1},
	{regexp.MustCompile(`(\s)(-{1,2}[\w-]+)`), "attr", 2},
}

var languageRules = map[string][]rule{
	"javascript": jsRules,
	"typescript": jsRules,
	"python":     pythonRules,
	"html":       htmlRules,
	"css":        cssRules,
	"bash":       bashRules,
	"shell":      bashRules,
}

// Highlight renders source as HTML with <span class="hl-..."> token
// markup. Unrecognized language tags pass through entity-escaped with no
// coloring.
func Highlight(source, language string) string {
	if source == "" {
		return ""
	}

	tokens := []token{{text: source}}
	for _, r := range languageRules[strings.ToLower(language)] {
		tokens = apply(tokens, r)
	}

	var b strings.Builder
	for _, tok := range tokens {
		if tok.class == "" {
			b.WriteString(escape(tok.text))
			continue
		}
		b.WriteString(`<span class="hl-`)
		b.WriteString(tok.class)
		b.WriteString(`">`)
		b.WriteString(escape(tok.text))
		b.WriteString(`</span>`)
	}
	return b.String()
}

// apply runs one rule over the untagged tokens, splitting each around the
// rule's matches. Tagged tokens pass through untouched.
func apply(tokens []token, r rule) []token {
	out := make([]token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.class != "" {
			out = append(out, tok)
			continue
		}

		text := tok.text
		last := 0
		for _, m := range r.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[2*r.group], m[2*r.group+1]
			if start < 0 || start < last {
				continue
			}
			if start > last {
				out = append(out, token{text: text[last:start]})
			}
			out = append(out, token{class: r.class, text: text[start:end]})
			last = end
		}
		if last < len(text) {
			out = append(out, token{text: text[last:]})
		}
	}
	return out
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return escaper.Replace(s)
}
