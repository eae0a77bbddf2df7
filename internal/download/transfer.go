package download

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/lidanthedev/Mirrarr/internal/source"
)

// Progress reports transfer state to the queue.
type Progress struct {
	BytesDone  int64
	TotalBytes int64 // 0 when the remote doesn't send Content-Length
	SpeedBPS   int64
	ETASeconds int
}

// Transferer performs the actual byte transfer for a job and returns the
// path of the finished file.
type Transferer interface {
	Transfer(ctx context.Context, url string, opts source.Options, report func(Progress)) (string, error)
}

const (
	// progressInterval throttles progress callbacks.
	progressInterval = 500 * time.Millisecond
	copyBufferSize   = 128 * 1024
)

// HTTPTransferer streams HTTP downloads to a directory. Files are written
// under a .partial suffix and renamed into place on completion, so a
// crashed transfer never leaves a file that looks finished.
type HTTPTransferer struct {
	dir   string
	proxy string // default outbound proxy, overridden per source
	log   *slog.Logger

	mu      sync.Mutex
	clients map[string]*http.Client // keyed by proxy URL
}

// NewHTTPTransferer creates a transferer writing into dir.
func NewHTTPTransferer(dir, proxy string, log *slog.Logger) *HTTPTransferer {
	if log == nil {
		log = slog.Default()
	}
	return &HTTPTransferer{
		dir:     dir,
		proxy:   proxy,
		log:     log.With("component", "transfer"),
		clients: make(map[string]*http.Client),
	}
}

// Transfer downloads rawURL into the transfer directory.
func (t *HTTPTransferer) Transfer(ctx context.Context, rawURL string, opts source.Options, report func(Progress)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	client, err := t.clientFor(opts.Proxy)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%s: %w", rawURL, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("download %s: unexpected status %s", rawURL, resp.Status)
	}

	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	target := filepath.Join(t.dir, remoteFilename(resp, rawURL))
	partial := target + ".partial"

	file, err := os.Create(partial)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}

	if err := t.copyWithProgress(ctx, file, resp.Body, resp.ContentLength, report); err != nil {
		file.Close()
		os.Remove(partial)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(partial, target); err != nil {
		os.Remove(partial)
		return "", fmt.Errorf("finalize file: %w", err)
	}
	return target, nil
}

// copyWithProgress streams body into w, invoking report on an interval.
func (t *HTTPTransferer) copyWithProgress(ctx context.Context, w io.Writer, body io.Reader, total int64, report func(Progress)) error {
	buf := make([]byte, copyBufferSize)

	var done int64
	windowStart := time.Now()
	var windowBytes int64
	lastReport := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return fmt.Errorf("write file: %w", err)
			}
			done += int64(n)
			windowBytes += int64(n)
		}

		now := time.Now()
		if report != nil && (now.Sub(lastReport) >= progressInterval || readErr == io.EOF) {
			p := Progress{BytesDone: done, TotalBytes: total}
			if elapsed := now.Sub(windowStart).Seconds(); elapsed > 0 {
				p.SpeedBPS = int64(float64(windowBytes) / elapsed)
			}
			if p.SpeedBPS > 0 && total > done {
				p.ETASeconds = int((total - done) / p.SpeedBPS)
			}
			report(p)
			lastReport = now
			windowStart = now
			windowBytes = 0
		}

		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read body: %w", readErr)
		}
	}
}

// clientFor returns an HTTP client routed through the given proxy, falling
// back to the transferer's default proxy.
func (t *HTTPTransferer) clientFor(proxy string) (*http.Client, error) {
	if proxy == "" {
		proxy = t.proxy
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if client, ok := t.clients[proxy]; ok {
		return client, nil
	}

	transport := http.DefaultTransport
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy: %w", err)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	client := &http.Client{Transport: transport}
	t.clients[proxy] = client
	return client, nil
}

// remoteFilename picks a filename for the download: Content-Disposition
// first, then the URL path. Always reduced to a bare basename.
func remoteFilename(resp *http.Response, rawURL string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := filepath.Base(params["filename"]); usableFilename(name) {
				return name
			}
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); usableFilename(name) {
			return name
		}
	}
	return "download.bin"
}

// usableFilename rejects the degenerate names filepath.Base can produce.
// ".." in particular would escape the downloads directory.
func usableFilename(name string) bool {
	switch name {
	case "", ".", "..", "/":
		return false
	}
	return name != string(filepath.Separator)
}
