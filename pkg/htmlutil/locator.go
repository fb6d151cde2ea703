package htmlutil

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/matzehuels/pydocs/pkg/errors"
)

// TagNotFoundError reports a required element missing from a page.
// It is always returned wrapped in an errors.Error with code TAG_NOT_FOUND.
type TagNotFoundError struct {
	Query Query
}

func (e *TagNotFoundError) Error() string {
	return "tag not found: " + e.Query.String()
}

// Locator finds elements and logs missing required ones.
type Locator struct {
	logger *log.Logger
}

// NewLocator creates a Locator. A nil logger uses log.Default().
func NewLocator(logger *log.Logger) *Locator {
	if logger == nil {
		logger = log.Default()
	}
	return &Locator{logger: logger}
}

// FindOne returns the first descendant of root matching q.
// A missing match is logged and returned as a TAG_NOT_FOUND error.
func (l *Locator) FindOne(root *goquery.Selection, q Query) (*goquery.Selection, error) {
	all, err := l.FindAll(root, q)
	if err != nil {
		return nil, err
	}
	if all.Length() == 0 {
		l.logger.Error("tag not found", "query", q.String())
		return nil, errors.Wrap(errors.ErrCodeTagNotFound, &TagNotFoundError{Query: q}, "locate element")
	}
	return all.First(), nil
}

// FindAll returns every descendant of root matching q in document order.
// No match yields an empty selection and a nil error; only a nil root or an
// invalid text query is an error.
func (l *Locator) FindAll(root *goquery.Selection, q Query) (*goquery.Selection, error) {
	if root == nil {
		l.logger.Error("search in nil element", "query", q.String())
		return nil, errors.New(errors.ErrCodeInternal, "search for %s in nil element", q)
	}

	if q.textOnly() {
		nodes, err := findTextNodes(root, q.Text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "search for %s", q)
		}
		return root.FindNodes(nodes...), nil
	}

	tag := q.Tag
	if tag == "" {
		tag = "*"
	}
	return root.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return q.matches(s)
	}), nil
}

// findTextNodes returns text nodes below root whose content equals text.
func findTextNodes(root *goquery.Selection, text string) ([]*html.Node, error) {
	expr := fmt.Sprintf(".//text()[. = %s]", xpathLiteral(text))
	var found []*html.Node
	for _, n := range root.Nodes {
		nodes, err := htmlquery.QueryAll(n, expr)
		if err != nil {
			return nil, err
		}
		found = append(found, nodes...)
	}
	return found, nil
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no
// escapes, so strings holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `'"'`)
		}
		quoted = append(quoted, `"`+p+`"`)
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

// SiblingAt returns the node offset positions after n among its raw
// siblings, text nodes included. SiblingAt(n, 1) is n.NextSibling.
func SiblingAt(n *html.Node, offset int) (*html.Node, error) {
	if n == nil {
		return nil, errors.New(errors.ErrCodeTagNotFound, "sibling of nil node")
	}
	cur := n
	for i := 0; i < offset; i++ {
		cur = cur.NextSibling
		if cur == nil {
			return nil, errors.New(errors.ErrCodeTagNotFound,
				"<%s> has only %d following siblings, need %d", n.Data, i, offset)
		}
	}
	return cur, nil
}
