package pipeline

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/htmlutil"
	"github.com/matzehuels/pydocs/pkg/report"
)

// LatestVersionsHeader is the header of the version-list report.
var LatestVersionsHeader = []string{"Documentation link", "Version", "Status"}

// allVersionsMarker identifies the sidebar list holding the version links.
const allVersionsMarker = "All versions"

var (
	versionPattern = regexp.MustCompile(`Python (\d+\.\d+) \((.*)\)`)

	querySidebar = htmlutil.Query{Tag: "div", Attrs: map[string]htmlutil.Matcher{"class": htmlutil.HasClass("sphinxsidebarwrapper")}}
)

// ParseVersion splits a sidebar link text such as "Python 3.12 (stable)"
// into version and status. Text that does not match is returned whole as
// the version with an empty status.
func ParseVersion(text string) (version, status string) {
	if m := versionPattern.FindStringSubmatch(text); m != nil {
		return m[1], m[2]
	}
	return text, ""
}

// latestVersions lists the documentation versions linked from the sidebar.
func (r *Runner) latestVersions(ctx context.Context) (*report.RowSet, error) {
	indexURL := r.opts.DocsURL
	doc, err := r.document(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	sidebar, err := r.locate.FindOne(doc.Selection, querySidebar)
	if err != nil {
		return nil, err
	}
	lists, err := r.locate.FindAll(sidebar, htmlutil.Query{Tag: "ul"})
	if err != nil {
		return nil, err
	}
	// The whole "Docs by version" list is read; its first item alone is one link.
	versions := lists.FilterFunction(func(_ int, ul *goquery.Selection) bool {
		return strings.Contains(ul.Text(), allVersionsMarker)
	}).First()
	if versions.Length() == 0 {
		r.logger.Error("version list not found", "url", indexURL)
		return nil, errors.New(errors.ErrCodeVersionsNotFound, "no %q list in the sidebar of %s", allVersionsMarker, indexURL)
	}

	links, err := r.locate.FindAll(versions, htmlutil.Query{Tag: "a"})
	if err != nil {
		return nil, err
	}

	rs := report.New(LatestVersionsHeader...)
	for i := range links.Length() {
		a := links.Eq(i)
		link, err := resolve(indexURL, htmlutil.Href(a))
		if err != nil {
			return nil, err
		}
		version, status := ParseVersion(a.Text())
		rs.Add(link, version, status)
	}
	return rs, nil
}
