package pipeline

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/htmlutil"
	"github.com/matzehuels/pydocs/pkg/report"
)

// PEPHeader is the header of the PEP status tally.
var PEPHeader = []string{"Status", "Count"}

// statusValueOffset is the position of the value cell among the raw
// siblings of the "Status" label element: the label is followed by a
// whitespace text node and then the value.
const statusValueOffset = 2

const statusLabel = "Status"

var queryPEPCategories = htmlutil.Query{Tag: "section", Attrs: map[string]htmlutil.Matcher{"id": htmlutil.Equals("index-by-category")}}

// pepTally counts the statuses shown on the PEP pages listed in the
// category index.
func (r *Runner) pepTally(ctx context.Context) (*report.RowSet, error) {
	indexURL := r.opts.PEPsURL
	doc, err := r.document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	section, err := r.locate.FindOne(doc.Selection, queryPEPCategories)
	if err != nil {
		return nil, err
	}
	tables, err := r.locate.FindAll(section, htmlutil.Query{Tag: "table"})
	if err != nil {
		return nil, err
	}

	total := tables.Find("tbody tr").Length()
	done := 0

	var tally report.Tally
	for i := range tables.Length() {
		table := tables.Eq(i)
		stage := categoryName(table)

		rows := table.Find("tbody tr")
		for j := range rows.Length() {
			if err := r.tallyRow(ctx, &tally, indexURL, rows.Eq(j)); err != nil {
				return nil, err
			}
			done++
			r.progress(stage, done, total)
		}
	}

	r.logger.Debug("pep statuses tallied", "statuses", tally.Len(), "peps", tally.Total())
	return tally.RowSet(PEPHeader[0], PEPHeader[1]), nil
}

// tallyRow handles one row of a category table.
func (r *Runner) tallyRow(ctx context.Context, tally *report.Tally, indexURL string, row *goquery.Selection) error {
	cells := row.ChildrenFiltered("td")

	code := shortCode(cells.Eq(0).Text())
	expected, ok := r.opts.ExpectedStatus.Lookup(code)
	if !ok {
		return errors.New(errors.ErrCodeUnknownStatus, "unknown PEP status code %q", code)
	}

	a, err := r.locate.FindOne(cells.Eq(2), queryLink)
	if err != nil {
		return err
	}
	link, err := resolve(indexURL, htmlutil.Href(a))
	if err != nil {
		return err
	}

	page, err := r.document(ctx, link)
	if errors.IsFatal(err) {
		return err
	}
	if err != nil {
		r.skip(ctx, ModePEP, link, err)
		return nil
	}
	status, err := r.pageStatus(page)
	if err != nil {
		return err
	}

	tally.Increment(status)
	if !r.opts.ExpectedStatus.Accepts(code, status) {
		r.logger.Warn("status mismatch", "link", link, "found", status, "expected", strings.Join(expected, ", "))
	}
	return nil
}

// pageStatus reads the status field of a PEP page.
func (r *Runner) pageStatus(page *goquery.Document) (string, error) {
	label, err := r.locate.FindOne(page.Selection, htmlutil.Query{Text: statusLabel})
	if err != nil {
		return "", err
	}
	return statusValue(label.Get(0))
}

// statusValue returns the text of the value cell that belongs to the
// "Status" label text node.
func statusValue(label *html.Node) (string, error) {
	cell, err := htmlutil.SiblingAt(label.Parent, statusValueOffset)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(htmlutil.NodeText(cell)), nil
}

// shortCode drops the type letter from the first cell of an index row:
// "SF" is a Standards Track PEP with status code "F". A lone type letter
// yields the empty code.
func shortCode(cell string) string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(cell)
	return cell[size:]
}

// categoryName returns the heading of the section holding table, used as
// the progress stage.
func categoryName(table *goquery.Selection) string {
	heading := table.Closest("section").ChildrenFiltered("h2, h3").First()
	if name := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(heading.Text()), "¶")); name != "" {
		return name
	}
	return ModePEP.String()
}
