// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/poiesic/vecpipe/core"
)

// Fetcher downloads work item locators over HTTP and re-encodes the
// response body as a base64 data URI payload.
type Fetcher struct {
	client       *http.Client
	maxBodyBytes int64
	contentType  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for downloads.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithMaxBodyBytes caps the accepted response body size.
// Default is 16 MiB; zero or negative disables the cap.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// WithContentType overrides the data URI media type used when the
// server does not send a Content-Type header.
func WithContentType(contentType string) Option {
	return func(f *Fetcher) {
		f.contentType = contentType
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       http.DefaultClient,
		maxBodyBytes: 16 << 20,
		contentType:  "application/octet-stream",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Transform is the engine transform stage: it downloads the item's
// locator and returns the body as a data URI payload. The per-call
// deadline comes from ctx, which the engine bounds with its stage
// timeout.
func (f *Fetcher) Transform(ctx context.Context, item core.WorkItem) (*core.Payload, error) {
	if item.Locator == "" {
		return nil, core.ErrEmptyLocator
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.Locator, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", item.Locator, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", item.Locator, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d downloading %s", resp.StatusCode, item.Locator)
	}

	body := resp.Body
	if f.maxBodyBytes > 0 {
		body = struct {
			io.Reader
			io.Closer
		}{io.LimitReader(resp.Body, f.maxBodyBytes+1), resp.Body}
	}

	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", item.Locator, err)
	}
	if f.maxBodyBytes > 0 && int64(len(content)) > f.maxBodyBytes {
		return nil, fmt.Errorf("response for %s exceeds %d bytes", item.Locator, f.maxBodyBytes)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = f.contentType
	}
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	encoded := base64.StdEncoding.EncodeToString(content)

	return &core.Payload{
		Content: fmt.Sprintf("data:%s;base64,%s", contentType, encoded),
		Metadata: map[string]string{
			"filename": item.ID,
			"url":      item.Locator,
		},
	}, nil
}
