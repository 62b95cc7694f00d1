// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"sync"

	"brandshot/internal/ai"
	"brandshot/internal/models"
)

// fakeText is a scripted text provider. Each Complete call pops the next
// entry from errs (nil means success with reply).
type fakeText struct {
	mu       sync.Mutex
	reply    string
	errs     []error
	listErr  error
	calls    int
	requests []ai.CompletionRequest
}

func (f *fakeText) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.requests = append(f.requests, req)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.reply, nil
}

func (f *fakeText) ListModels(ctx context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []string{"gpt-4"}, nil
}

// fakeImages is a scripted image provider.
type fakeImages struct {
	mu      sync.Mutex
	locator string
	revised string
	errs    []error
	calls   int
	prompts []string
}

func (f *fakeImages) GenerateImage(ctx context.Context, req ai.ImageRequest) (*ai.ImageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prompts = append(f.prompts, req.Prompt)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return &ai.ImageResult{Locator: f.locator, RevisedPrompt: f.revised}, nil
}

var (
	errQuota      = &ai.Error{Provider: "openai", StatusCode: http.StatusTooManyRequests, Code: "insufficient_quota", Message: "You exceeded your current quota"}
	errAuth       = &ai.Error{Provider: "openai", StatusCode: http.StatusUnauthorized, Message: "Incorrect API key"}
	errBadRequest = &ai.Error{Provider: "openai", StatusCode: http.StatusBadRequest, Type: "image_generation_user_error", Message: "rejected"}
	errServer     = &ai.Error{Provider: "openai", StatusCode: http.StatusInternalServerError, Message: "The server had an error"}
	errPlain      = errors.New("connection reset")
)

// tinyPNG is a valid 1x1 PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0xf8, 0xcf, 0xc0, 0xf0,
	0x1f, 0x00, 0x05, 0x00, 0x01, 0xff, 0x89, 0x99, 0x3d, 0x1d, 0x00, 0x00,
	0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func tinyPNGDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)
}

func testContext() Context {
	return Context{
		ProjectName:         "Acme",
		StyleGuide:          "Bold pop-art style with primary colors",
		CampaignName:        "Spring",
		CampaignDescription: "Spring sale",
		CampaignType:        models.CampaignTypeOther,
	}
}

// deadlineImages counts how many calls arrive with a context deadline.
type deadlineImages struct {
	seen    *int
	locator string
}

func (d *deadlineImages) GenerateImage(ctx context.Context, req ai.ImageRequest) (*ai.ImageResult, error) {
	if _, ok := ctx.Deadline(); ok {
		*d.seen++
	}
	return &ai.ImageResult{Locator: d.locator}, nil
}
