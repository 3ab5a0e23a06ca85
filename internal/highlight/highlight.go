// Package highlight renders snippet source code into a styled, self-contained
// HTML document.
//
// WHY chroma?
// chroma is a pure-Go port of Pygments. It ships with hundreds of lexers
// (one per language) and dozens of colour styles, plus an HTML formatter
// that can emit a line-number gutter. We get the whole rendering pipeline —
// tokenise, style, format — without writing a single grammar ourselves.
//
// THE PIPELINE:
//
//	code string → lexer.Tokenise → token stream → html formatter + style → HTML
//
// This package also fronts chroma's two registries:
//   - the LEXER registry (which languages we can highlight)
//   - the STYLE registry (which colour themes we can apply)
//
// The service layer validates incoming language/style values against these
// registries BEFORE calling Render, so a render failure here means a bug,
// not bad user input.
package highlight

import (
	"bytes"
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// IsLanguage reports whether name resolves to a known lexer.
// chroma matches both canonical names ("Python") and aliases ("python", "py").
func IsLanguage(name string) bool {
	return lexers.Get(name) != nil
}

// IsStyle reports whether name is a registered colour style.
//
// We check the registry map directly instead of styles.Get — Get silently
// falls back to a default style for unknown names, which would defeat
// validation.
func IsStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}

// Languages returns the sorted names of all supported languages.
func Languages() []string {
	return lexers.Names(false)
}

// Styles returns the sorted names of all supported colour styles.
func Styles() []string {
	return styles.Names()
}

// Render produces a complete HTML document highlighting code in the given
// language with the given style.
//
// Options:
//   - linenos=true renders a line-number gutter, aligned as a table so long
//     lines wrap without shifting the numbers.
//   - a non-empty title becomes the document <title> and a heading above
//     the code.
//
// The output uses inline styles (no external stylesheet), so the document
// is fully self-contained — it renders correctly saved to disk or embedded
// in an iframe.
//
// Render is a pure function of its inputs: same arguments, same output.
// The caller persists the result together with the source fields in one
// write, so a stored snippet's rendering never goes stale.
func Render(code, language, style, title string, linenos bool) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		return "", fmt.Errorf("highlight: unknown language %q", language)
	}
	// Coalesce merges runs of identical token types — smaller output.
	lexer = chroma.Coalesce(lexer)

	st, ok := styles.Registry[style]
	if !ok {
		return "", fmt.Errorf("highlight: unknown style %q", style)
	}

	opts := []html.Option{html.TabWidth(4)}
	if linenos {
		opts = append(opts,
			html.WithLineNumbers(true),
			html.LineNumbersInTable(true),
		)
	}
	formatter := html.New(opts...)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenising code: %w", err)
	}

	var body bytes.Buffer
	if err := formatter.Format(&body, st, iterator); err != nil {
		return "", fmt.Errorf("highlight: formatting code: %w", err)
	}

	// Wrap the formatted code in a minimal document shell. The heading is
	// escaped — titles are user input.
	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	if title != "" {
		fmt.Fprintf(&doc, "<title>%s</title>\n", stdhtml.EscapeString(title))
	}
	doc.WriteString("</head>\n<body>\n")
	if title != "" {
		fmt.Fprintf(&doc, "<h2>%s</h2>\n", stdhtml.EscapeString(title))
	}
	doc.Write(body.Bytes())
	doc.WriteString("</body>\n</html>\n")

	return doc.String(), nil
}
