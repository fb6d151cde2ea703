package pipeline

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"

	"github.com/matzehuels/pydocs/pkg/errors"
	"github.com/matzehuels/pydocs/pkg/htmlutil"
)

// DownloadsDir is created below the output directory for archives.
const DownloadsDir = "downloads"

var (
	archivePattern = regexp.MustCompile(`.+pdf-a4\.zip$`)

	queryDownloadTable = htmlutil.Query{Tag: "table", Attrs: map[string]htmlutil.Matcher{"class": htmlutil.HasClass("docutils")}}
	queryArchiveLink   = htmlutil.Query{Tag: "a", Attrs: map[string]htmlutil.Matcher{"href": htmlutil.MatchesRegexp(archivePattern)}}
)

// IsArchiveLink reports whether href points at a pdf-a4 zip archive.
func IsArchiveLink(href string) bool {
	return archivePattern.MatchString(href)
}

// download saves every pdf-a4 archive linked from the download page.
func (r *Runner) download(ctx context.Context) error {
	pageURL, err := resolve(r.opts.DocsURL, "download.html")
	if err != nil {
		return err
	}
	doc, err := r.document(ctx, pageURL)
	if err != nil {
		return err
	}

	table, err := r.locate.FindOne(doc.Selection, queryDownloadTable)
	if err != nil {
		return err
	}
	links, err := r.locate.FindAll(table, queryArchiveLink)
	if err != nil {
		return err
	}
	if links.Length() == 0 {
		r.logger.Warn("no pdf-a4 archive linked", "url", pageURL)
		return nil
	}

	dir := filepath.Join(r.opts.OutputDir, DownloadsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
	}

	total := links.Length()
	for i := range total {
		link, err := resolve(pageURL, htmlutil.Href(links.Eq(i)))
		if err != nil {
			return err
		}
		name, err := archiveName(link)
		if err != nil {
			return err
		}

		dest := filepath.Join(dir, name)
		n, err := r.fetch.Download(ctx, link, dest)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if errors.IsFatal(err) {
			return err
		}
		if err != nil {
			r.skip(ctx, ModeDownload, link, err)
		} else {
			r.logger.Info("archive saved", "path", dest, "bytes", n)
		}
		r.progress(ModeDownload.String(), i+1, total)
	}
	return nil
}

// archiveName returns the final path segment of rawURL.
func archiveName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %q", rawURL)
	}
	name := path.Base(u.Path)
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}
