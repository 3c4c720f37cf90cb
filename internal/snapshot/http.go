package snapshot

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/medibook/internal/netx"
)

// HTTPTarget stores the document behind a URL that accepts PUT and GET,
// such as an S3 presigned URL.
type HTTPTarget struct {
	URL    string
	Client *http.Client
}

func (t HTTPTarget) Write(ctx context.Context, data []byte) error {
	return netx.Put(ctx, t.Client, t.URL, data, "application/json")
}

func (t HTTPTarget) Read(ctx context.Context) ([]byte, error) {
	return netx.Get(ctx, t.Client, t.URL)
}

// String drops the query, which carries presigned credentials.
func (t HTTPTarget) String() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return "http target"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}
