// Package source fetches remote attachments that get appended to an export
// as appendix sections.
package source

import (
	"context"
	"net/http"
	neturl "net/url"
	"path"

	"github.com/samber/oops"
	"resty.dev/v3"
)

// Attachment is one fetched remote document.
type Attachment struct {
	URL     string
	Name    string
	Content string
}

// Fetcher downloads attachment URLs over HTTP.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: resty.New()}
}

// NewFetcherWithClient is used by tests to point at a local server.
func NewFetcherWithClient(client *resty.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch downloads one attachment. Callers treat errors as non-fatal: the
// export degrades to a notice section instead of failing the run.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Attachment, error) {
	response, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, oops.
			Code("ATTACHMENT_FAILED").
			With("url", url).
			Wrapf(err, "downloading attachment")
	}

	if response.StatusCode() < http.StatusOK || response.StatusCode() >= http.StatusMultipleChoices {
		return nil, oops.
			Code("ATTACHMENT_FAILED").
			With("url", url).
			With("status", response.StatusCode()).
			Errorf("attachment returned non-success status %d", response.StatusCode())
	}

	return &Attachment{
		URL:     url,
		Name:    nameFromURL(url),
		Content: response.String(),
	}, nil
}

func nameFromURL(rawURL string) string {
	parsed, err := neturl.Parse(rawURL)
	if err == nil {
		baseName := path.Base(parsed.Path)
		if baseName != "" && baseName != "." && baseName != "/" {
			return baseName
		}
	}

	return rawURL
}
