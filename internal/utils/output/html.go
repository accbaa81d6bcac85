package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// dropElements never carry product copy.
	dropElements = "script, style, link, meta, noscript, iframe, svg, form, input, button, select, textarea, canvas"
	// dropWidgets are marketplace "see more" toggles and hidden accessibility text.
	dropWidgets = ".a-expander-prompt, .aok-hidden, .a-declarative[data-action='a-expander-toggle']"
)

// keepAttrs lists the attributes kept per element. Everything else is stripped.
var keepAttrs = map[string]map[string]bool{
	"a":   {"href": true, "title": true},
	"img": {"src": true, "alt": true, "title": true},
}

// CleanHTML removes scripts, widgets and presentational attributes from an
// HTML fragment. Only links and images keep their addressing attributes.
func CleanHTML(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(dropElements).Remove()
	doc.Find(dropWidgets).Remove()

	for _, n := range doc.Find("*").Nodes {
		allowed := keepAttrs[n.Data]
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if allowed[a.Key] {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	}

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PrettyHTML re-indents an HTML fragment for reading, two spaces per level.
func PrettyHTML(fragment string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	var sb strings.Builder
	for _, n := range nodes {
		writeIndented(&sb, n, 0)
	}
	return sb.String(), nil
}

func writeIndented(w io.Writer, n *html.Node, depth int) {
	pad := strings.Repeat("  ", depth)
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeIndented(w, c, depth)
		}
	case html.DoctypeNode:
		fmt.Fprintf(w, "<!DOCTYPE %s>\n", n.Data)
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			fmt.Fprintf(w, "%s%s\n", pad, html.EscapeString(text))
		}
	case html.ElementNode:
		fmt.Fprintf(w, "%s<%s", pad, n.Data)
		for _, a := range n.Attr {
			fmt.Fprintf(w, ` %s="%s"`, a.Key, html.EscapeString(a.Val))
		}
		io.WriteString(w, ">\n")
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeIndented(w, c, depth+1)
		}
		fmt.Fprintf(w, "%s</%s>\n", pad, n.Data)
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "param": true, "source": true, "track": true, "wbr": true,
}
