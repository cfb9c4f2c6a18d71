// Package ingest fetches attachment images and files them into the meme
// library: per-host fetch policy, format sniffing, collision-prone but
// predictable filenames.
package ingest

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	. "github.com/Akuma-real/memegate/internal/logging"
	"github.com/Akuma-real/memegate/internal/memestore"
)

// FetchTimeout is the maximum time to wait for one attachment download.
const FetchTimeout = 30 * time.Second

// Attachment is one image reference from an inbound message.
type Attachment struct {
	URL string
}

// Failure records one attachment that could not be ingested.
type Failure struct {
	Index int // 1-based position within the batch
	URL   string
	Err   error
}

// Result summarizes one ingestion batch. Partial success is normal: Saved
// and Failures together cover every attachment in the batch.
type Result struct {
	Saved    []string // filenames written, in batch order
	Failures []Failure
}

// Ingestor downloads attachments and saves them into category directories.
type Ingestor struct {
	store   *memestore.Store
	policy  *Policy
	client  *http.Client
	refresh func() // called after a batch that saved at least one file
}

// New creates an Ingestor. The HTTP client skips certificate verification:
// the attachment CDNs this fetches from present certs Go refuses, and the
// per-host policy handles the hosts where even that is not enough.
// refresh may be nil.
func New(store *memestore.Store, policy *Policy, refresh func()) *Ingestor {
	return &Ingestor{
		store:  store,
		policy: policy,
		client: &http.Client{
			Timeout: FetchTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		refresh: refresh,
	}
}

// Ingest fetches every attachment and writes it into the category directory.
// Attachments are fetched concurrently; the result is reported only once all
// of them finished. One failing attachment never aborts the rest.
func (g *Ingestor) Ingest(ctx context.Context, slug string, atts []Attachment) *Result {
	type outcome struct {
		filename string
		err      error
	}

	outcomes := make([]outcome, len(atts))
	var wg sync.WaitGroup

	for i, att := range atts {
		wg.Add(1)
		go func(idx int, att Attachment) {
			defer wg.Done()
			filename, err := g.ingestOne(ctx, slug, idx+1, att)
			outcomes[idx] = outcome{filename: filename, err: err}
		}(i, att)
	}
	wg.Wait()

	res := &Result{}
	for i, o := range outcomes {
		if o.err != nil {
			res.Failures = append(res.Failures, Failure{Index: i + 1, URL: atts[i].URL, Err: o.err})
			continue
		}
		res.Saved = append(res.Saved, o.filename)
	}

	L_info("ingest: batch done", "category", slug, "saved", len(res.Saved), "failed", len(res.Failures))

	if len(res.Saved) > 0 && g.refresh != nil {
		g.refresh()
	}
	return res
}

// ingestOne fetches, sniffs and stores a single attachment.
// idx is the 1-based position within the batch, part of the filename.
func (g *Ingestor) ingestOne(ctx context.Context, slug string, idx int, att Attachment) (string, error) {
	fetchStart := time.Now()

	data, err := g.fetch(ctx, att.URL)
	if err != nil {
		L_error("ingest: fetch failed", "url", att.URL, "error", err)
		return "", fmt.Errorf("fetch %s: %w", att.URL, err)
	}

	format := DetectFormat(data)
	if format == FormatUnknown {
		L_warn("ingest: format undetected, keeping as binary", "url", att.URL, "size", len(data))
	}

	// Second-granularity timestamp plus in-batch index. Two batches started
	// within the same second can collide and overwrite.
	filename := fmt.Sprintf("%d_%d%s", fetchStart.Unix(), idx, format.Ext())

	if _, err := g.store.Save(slug, filename, data); err != nil {
		L_error("ingest: save failed", "filename", filename, "error", err)
		return "", err
	}

	L_debug("ingest: saved", "category", slug, "filename", filename, "format", format.String())
	return filename, nil
}

// fetch downloads one URL, applying the per-host policy first.
func (g *Ingestor) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	fetchURL, downgraded := g.policy.Rewrite(rawURL)
	if downgraded {
		L_warn("ingest: broken-certificate host, downgrading to HTTP", "url", fetchURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
