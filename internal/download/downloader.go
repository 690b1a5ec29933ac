package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"soundrip/internal/services"
)

const copyChunkSize = 64 * 1024

// Downloader streams HTTP payloads to local files while reporting throttled
// progress.
type Downloader struct {
	client   *http.Client
	interval time.Duration
	now      func() time.Time
}

// Option configures the downloader.
type Option func(*Downloader)

// WithProgressInterval overrides the minimum wall-clock gap between progress
// callbacks (default one second).
func WithProgressInterval(interval time.Duration) Option {
	return func(d *Downloader) {
		if interval > 0 {
			d.interval = interval
		}
	}
}

// WithClock injects a time source (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(d *Downloader) {
		if now != nil {
			d.now = now
		}
	}
}

// New constructs a downloader on top of the provided client.
func New(client *http.Client, opts ...Option) *Downloader {
	d := &Downloader{
		client:   client,
		interval: time.Second,
		now:      time.Now,
	}
	if d.client == nil {
		d.client = http.DefaultClient
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch streams url into destPath, invoking onProgress at a throttled
// cadence. The body is copied chunk by chunk and never buffered whole. The
// final callback before return always carries the complete byte count, so a
// known total reports 100% exactly once at the end.
func (d *Downloader) Fetch(ctx context.Context, url, destPath string, onProgress func(Progress)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return services.Wrap(services.ErrDownload, "download", "build request", "", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrDownload, "download", "fetch", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return services.Wrap(services.ErrDownload, "download", "fetch",
			fmt.Sprintf("unexpected status %s", resp.Status), nil)
	}

	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return services.Wrap(services.ErrDownload, "download", "open destination", "", err)
	}
	defer dest.Close()

	total := resp.ContentLength
	if total < 0 {
		total = 0
	}

	start := d.now()
	gate := newThrottle(d.interval)
	var received int64
	lastReported := int64(-1)
	buf := make([]byte, copyChunkSize)

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := dest.Write(buf[:n]); writeErr != nil {
				return services.Wrap(services.ErrDownload, "download", "write chunk", "", writeErr)
			}
			received += int64(n)

			if onProgress != nil {
				now := d.now()
				p := Progress{Received: received, Total: total, Elapsed: now.Sub(start)}
				if gate.shouldEmit(p, now) {
					onProgress(p)
					lastReported = received
				}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return services.Wrap(services.ErrDownload, "download", "read body", "", readErr)
		}
	}

	if err := dest.Close(); err != nil {
		return services.Wrap(services.ErrDownload, "download", "flush destination", "", err)
	}

	if onProgress != nil && lastReported != received {
		onProgress(Progress{Received: received, Total: total, Elapsed: d.now().Sub(start)})
	}
	return nil
}
