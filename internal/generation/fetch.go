// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxDownloadBytes caps a single image download.
const maxDownloadBytes = 50 << 20

// Fetcher downloads generated images.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher whose HTTP client gives up after timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch returns the image bytes behind locator. data: URIs are decoded in
// place without any network call.
func (f *Fetcher) Fetch(ctx context.Context, locator string) ([]byte, error) {
	if strings.HasPrefix(locator, "data:") {
		data, err := decodeDataURI(locator)
		if err != nil {
			return nil, &StepError{Step: "image download", Message: err.Error(), Err: err}
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, &StepError{Step: "image download", Message: err.Error(), Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &StepError{Step: "image download", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StepError{Step: "image download", Message: http.StatusText(resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, &StepError{Step: "image download", Message: err.Error(), Err: err}
	}
	if len(data) > maxDownloadBytes {
		return nil, &StepError{Step: "image download", Message: fmt.Sprintf("image exceeds %d bytes", maxDownloadBytes)}
	}
	return data, nil
}

// decodeDataURI decodes "data:[<mediatype>][;base64],<payload>".
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("decode base64 payload: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URI payload: %w", err)
	}
	return []byte(s), nil
}
