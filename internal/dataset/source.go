package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// DefaultSource is the raw-content location of the IPEDS extract.
const DefaultSource = "https://raw.githubusercontent.com/LiamMerrill/IPEDS_Viz/master/df6.csv"

// RawURL rewrites a GitHub "blob" page URL to its raw-content form.
// Other locations are returned unchanged.
//
//	https://github.com/o/r/blob/main/a/b.csv -> https://raw.githubusercontent.com/o/r/main/a/b.csv
func RawURL(src string) string {
	u, err := url.Parse(src)
	if err != nil || (u.Host != "github.com" && u.Host != "www.github.com") {
		return src
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 5 || parts[2] != "blob" {
		return src
	}
	rest := append([]string{parts[0], parts[1]}, parts[3:]...)
	return "https://raw.githubusercontent.com/" + strings.Join(rest, "/")
}

// isRemote reports whether src is an http(s) URL rather than a file path.
func isRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// open returns a reader over the source content.
func open(ctx context.Context, client *http.Client, src string) (io.ReadCloser, error) {
	if src == "" {
		return nil, unavailable("no source configured")
	}
	if !isRemote(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, unavailable("open %s: %v", src, err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, RawURL(src), nil)
	if err != nil {
		return nil, unavailable("build request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, unavailable("fetch %s: %v", src, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, unavailable("fetch %s: unexpected status %d", src, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "text/html") {
		resp.Body.Close()
		return nil, unavailable("fetch %s: got %s, want tabular content", src, ct)
	}
	return resp.Body, nil
}

// describe returns a short label for logs and spans.
func describe(src string) string {
	if isRemote(src) {
		return RawURL(src)
	}
	return fmt.Sprintf("file:%s", src)
}
