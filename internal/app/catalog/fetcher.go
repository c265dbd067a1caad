package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/yigit/castor/internal/config"
	"github.com/yigit/castor/internal/pkg/apperrors"
)

// maxPageSize bounds how much of the catalog page is read.
const maxPageSize = 32 << 20

// Fetcher downloads the catalog page and pulls out the course payload that the
// page embeds inside an HTML comment.
type Fetcher struct {
	client    *http.Client
	url       string
	marker    string
	userAgent string
	timeout   time.Duration
}

// NewFetcher creates a fetcher for the configured catalog. A nil client uses http.DefaultClient.
func NewFetcher(cfg config.CatalogConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{
		client:    client,
		url:       cfg.URL,
		marker:    cfg.Marker,
		userAgent: cfg.UserAgent,
		timeout:   cfg.FetchTimeout(),
	}
}

// Fetch issues a single GET and returns the payload text, starting at the marker.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", apperrors.ErrFetch, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d from %s", apperrors.ErrFetch, resp.StatusCode, f.url)
	}

	payload, err := FindComment(io.LimitReader(resp.Body, maxPageSize), f.marker)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrFetch, err)
	}
	return payload, nil
}

var errMarkerNotFound = errors.New("no comment containing the course payload marker")

// FindComment scans an HTML document for the first comment containing marker
// and returns the comment text from the marker onwards. The text is taken
// verbatim; entities such as &quot; are not decoded.
func FindComment(r io.Reader, marker string) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", fmt.Errorf("reading catalog page: %w", err)
			}
			return "", errMarkerNotFound
		case html.CommentToken:
			text := commentBody(z.Raw())
			if idx := strings.Index(text, marker); idx >= 0 {
				return strings.TrimSpace(text[idx:]), nil
			}
		}
	}
}

// commentBody strips the comment delimiters from a raw comment token.
func commentBody(raw []byte) string {
	text := strings.TrimPrefix(string(raw), "<!--")
	for _, end := range []string{"-->", "--!>"} {
		if strings.HasSuffix(text, end) {
			return strings.TrimSuffix(text, end)
		}
	}
	return text
}
