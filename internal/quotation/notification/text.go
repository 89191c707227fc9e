package notification

import (
	"strings"

	"golang.org/x/net/html"
)

// skipped elements contribute nothing to the plain-text body
var skipped = map[string]bool{"head": true, "style": true, "script": true, "title": true}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "tr": true, "table": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// HTMLToText renders the readable text of an HTML document, one block per
// line. Unparseable input is returned unchanged.
func HTMLToText(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return doc
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if skipped[n.Data] {
				return
			}
			if blockElements[n.Data] {
				b.WriteString("\n")
			}
			if n.Data == "li" {
				b.WriteString("\n• ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				b.WriteString(" (" + href + ")")
			}
		}
	}
	walk(root)

	return tidy(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// tidy collapses runs of whitespace inside lines and drops repeated blank
// lines.
func tidy(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
