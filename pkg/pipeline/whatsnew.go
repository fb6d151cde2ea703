package pipeline

import (
	"context"

	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/htmlutil"
	"github.com/matzehuels/pydocs/pkg/report"
)

// WhatsNewHeader is the header of the release-notes report.
var WhatsNewHeader = []string{"Link", "Title", "Editor, author"}

var (
	queryWhatsNewSection = htmlutil.Query{Tag: "section", Attrs: map[string]htmlutil.Matcher{"id": htmlutil.Equals("what-s-new-in-python")}}
	queryToctree         = htmlutil.Query{Tag: "div", Attrs: map[string]htmlutil.Matcher{"class": htmlutil.HasClass("toctree-wrapper")}}
	queryToctreeItem     = htmlutil.Query{Tag: "li", Attrs: map[string]htmlutil.Matcher{"class": htmlutil.HasClass("toctree-l1")}}
	queryLink            = htmlutil.Query{Tag: "a", Attrs: map[string]htmlutil.Matcher{"href": htmlutil.Exists()}}
)

// whatsNew lists every "What's New" page with its title and editor line.
func (r *Runner) whatsNew(ctx context.Context) (*report.RowSet, error) {
	indexURL, err := resolve(r.opts.DocsURL, "whatsnew/")
	if err != nil {
		return nil, err
	}
	doc, err := r.document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	section, err := r.locate.FindOne(doc.Selection, queryWhatsNewSection)
	if err != nil {
		return nil, err
	}
	toctree, err := r.locate.FindOne(section, queryToctree)
	if err != nil {
		return nil, err
	}
	items, err := r.locate.FindAll(toctree, queryToctreeItem)
	if err != nil {
		return nil, err
	}

	rs := report.New(WhatsNewHeader...)
	total := items.Length()
	for i := range total {
		a, err := r.locate.FindOne(items.Eq(i), queryLink)
		if err != nil {
			return nil, err
		}
		link, err := resolve(indexURL, htmlutil.Href(a))
		if err != nil {
			return nil, err
		}

		page, err := r.document(ctx, link)
		if errors.IsFatal(err) {
			return nil, err
		}
		if err != nil {
			r.skip(ctx, ModeWhatsNew, link, err)
			r.progress(ModeWhatsNew.String(), i+1, total)
			continue
		}
		h1, err := r.locate.FindOne(page.Selection, htmlutil.Query{Tag: "h1"})
		if err != nil {
			return nil, err
		}
		dl, err := r.locate.FindOne(page.Selection, htmlutil.Query{Tag: "dl"})
		if err != nil {
			return nil, err
		}

		rs.Add(link, h1.Text(), htmlutil.CollapseNewlines(dl.Text()))
		r.progress(ModeWhatsNew.String(), i+1, total)
	}
	return rs, nil
}
