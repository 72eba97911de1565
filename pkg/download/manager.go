package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/glorpus-work/blnotebook/pkg/errors"
	"github.com/glorpus-work/blnotebook/pkg/fsutil"
)

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "blnotebook/1.0"

// ManagerImpl is the HTTP-backed Manager. It never follows redirects: mirrors
// answer unknown paths with redirects to HTML landing pages, which must not be
// mistaken for listings or archives.
type ManagerImpl struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewManager creates a download manager. timeout bounds listing requests and
// the wait for response headers; archive bodies are bounded only by ctx.
func NewManager(timeout time.Duration, userAgent string) *ManagerImpl {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = timeout
	return &ManagerImpl{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// Get implements Manager.
func (m *ManagerImpl) Get(ctx context.Context, url string) ([]byte, error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	resp, err := m.doRequest(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w: %w", url, errors.ErrDownloadFailed, err)
	}
	return body, nil
}

// Fetch implements Manager.
func (m *ManagerImpl) Fetch(ctx context.Context, url, dest string, progress ProgressFunc) error {
	if dest == "" {
		return fmt.Errorf("empty download destination: %w", errors.ErrInvalidPath)
	}
	resp, err := m.doRequest(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	tmpPath, err := writeBodyToTemp(resp, dest, progress)
	if err != nil {
		return err
	}
	if err := finalizeFile(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

func (m *ManagerImpl) doRequest(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w: %w", url, errors.ErrDownloadFailed, err)
	}
	req.Header.Set("User-Agent", m.userAgent)
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w: %w", url, errors.ErrDownloadFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d (%s): %w", resp.StatusCode, url, errors.ErrDownloadFailed)
	}
	return resp, nil
}

func writeBodyToTemp(resp *http.Response, absPath string, progress ProgressFunc) (string, error) {
	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return "", errors.Wrap(err, "could not create download dir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(absPath), "dl-*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "could not create temp file")
	}
	tmpPath := tmp.Name()
	fail := func(err error, msg string) (string, error) {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%s: %w: %w", msg, errors.ErrDownloadFailed, err)
	}

	var w io.Writer = tmp
	if progress != nil {
		w = &progressWriter{w: tmp, total: resp.ContentLength, report: progress}
		progress(0, resp.ContentLength)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fail(err, "could not write file")
	}
	if err := tmp.Sync(); err != nil {
		return fail(err, "could not sync file")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrap(err, "could not close file")
	}
	return tmpPath, nil
}

func finalizeFile(tmpPath, absPath string) error {
	if err := fsutil.Move(tmpPath, absPath); err != nil {
		return errors.Wrap(err, "could not finalize file")
	}
	if err := os.Chmod(absPath, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "could not set permissions")
	}
	return nil
}

type progressWriter struct {
	w      io.Writer
	done   int64
	total  int64
	report ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	p.report(p.done, p.total)
	return n, err
}
