// Package htmlutil locates elements in parsed documentation pages.
//
// Pages are parsed with goquery on top of golang.org/x/net/html. A [Query]
// names a tag, attribute matchers and an optional exact text; a [Locator]
// resolves it against a subtree. FindOne treats a miss as a broken page
// layout: it logs the query and returns an error with code TAG_NOT_FOUND,
// which the pipelines propagate. FindAll returns an empty selection instead.
package htmlutil

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Parse parses an HTML document.
func Parse(body string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

// Matcher tests an attribute value.
type Matcher struct {
	desc  string
	match func(string) bool
}

// Equals matches an attribute whose value is exactly v.
func Equals(v string) Matcher {
	return Matcher{desc: "=" + strconv.Quote(v), match: func(s string) bool { return s == v }}
}

// Exists matches any value; the attribute only has to be present.
func Exists() Matcher {
	return Matcher{desc: "", match: func(string) bool { return true }}
}

// HasClass matches a whitespace-separated attribute (class) containing token.
func HasClass(token string) Matcher {
	return Matcher{
		desc:  "~=" + strconv.Quote(token),
		match: func(s string) bool { return slices.Contains(strings.Fields(s), token) },
	}
}

// MatchesRegexp matches an attribute value against re.
func MatchesRegexp(re *regexp.Regexp) Matcher {
	return Matcher{desc: "~/" + re.String() + "/", match: re.MatchString}
}

// Query describes the elements to locate. Empty fields match anything.
//
// When Text is set without Tag, the query matches text nodes whose content
// equals Text exactly. With a Tag, it matches elements whose trimmed text
// content equals Text.
type Query struct {
	Tag   string
	Attrs map[string]Matcher
	Text  string
}

// String renders the query in a CSS-like form for log lines,
// e.g. section[id="index-by-category"].
func (q Query) String() string {
	var b strings.Builder
	if q.Tag != "" {
		b.WriteString(q.Tag)
	} else if q.Text == "" || len(q.Attrs) > 0 {
		b.WriteString("*")
	}
	names := make([]string, 0, len(q.Attrs))
	for name := range q.Attrs {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fmt.Fprintf(&b, "[%s%s]", name, q.Attrs[name].desc)
	}
	if q.Text != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Quote(q.Text))
	}
	return b.String()
}

// matches reports whether the single element s satisfies the query's
// attribute and text filters. The tag is applied by the caller.
func (q Query) matches(s *goquery.Selection) bool {
	for name, m := range q.Attrs {
		v, ok := s.Attr(name)
		if !ok || !m.match(v) {
			return false
		}
	}
	if q.Text != "" && strings.TrimSpace(s.Text()) != q.Text {
		return false
	}
	return true
}

// textOnly reports whether the query targets text nodes.
func (q Query) textOnly() bool {
	return q.Tag == "" && len(q.Attrs) == 0 && q.Text != ""
}

// NodeText returns the text content of n and its descendants.
func NodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(NodeText(c))
	}
	return b.String()
}

// CollapseNewlines replaces every newline with a space.
func CollapseNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// Href returns the href of the first element in s, or "" when absent.
func Href(s *goquery.Selection) string {
	return s.AttrOr("href", "")
}
