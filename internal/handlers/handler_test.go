// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// a filesystem-backed store in a temp dir and scripted AI providers.
package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"brandshot/internal/ai"
	"brandshot/internal/generation"
	"brandshot/internal/models"
	"brandshot/internal/references"
	"brandshot/internal/storage"
	"brandshot/internal/store"
	"brandshot/internal/upload"
)

// fakeText is a scripted text provider.
type fakeText struct {
	mu      sync.Mutex
	reply   string
	err     error
	listErr error
	calls   int
}

func (f *fakeText) Complete(_ context.Context, _ ai.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeText) ListModels(_ context.Context) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []string{"gpt-4"}, nil
}

// fakeImages returns a data URI of a small PNG unless err is set.
type fakeImages struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (f *fakeImages) GenerateImage(_ context.Context, _ ai.ImageRequest) (*ai.ImageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ai.ImageResult{
		Locator:       "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(4, 4)),
		RevisedPrompt: "revised",
	}, nil
}

// testEnv holds a fully wired API over a temp-dir store.
type testEnv struct {
	api    *API
	router http.Handler
	text   *fakeText
	images *fakeImages
	blobs  *storage.FSStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	blobs, err := storage.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	projects := store.NewProjectStore(blobs)
	campaigns := store.NewCampaignStore(blobs)
	requests := store.NewRequestStore(blobs)
	refs := store.NewReferenceStore(blobs)
	assets := store.NewAssetStore(blobs)

	text := &fakeText{reply: "A bold pop-art sneaker on a yellow backdrop"}
	images := &fakeImages{}
	orch := generation.NewOrchestrator(
		generation.NewOptimizer(text),
		generation.NewGenerator(images, generation.ImageSettings{Model: "dall-e-3"}),
		generation.NewFetcher(5*time.Second),
		generation.OrchestratorConfig{MaxAttempts: 1, Backoff: time.Millisecond},
	)

	api := New(Deps{
		Projects:   projects,
		Campaigns:  campaigns,
		Requests:   requests,
		Assets:     assets,
		Blobs:      blobs,
		References: references.NewService(projects, campaigns, refs),
		Generation: generation.NewService(projects, campaigns, requests, refs, assets, orch),
		Health:     generation.NewHealthChecker(text, nil, time.Second),
		Uploads:    upload.NewProcessor(blobs, t.TempDir(), 1<<20),
		Providers:  ProviderInfo{Text: "openai", Image: "openai"},
	})

	return &testEnv{api: api, router: testRouter(api), text: text, images: images, blobs: blobs}
}

// testRouter mounts the handlers the way the production router does.
func testRouter(a *API) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/health", a.Health)
	r.Get("/api/tasks", a.Tasks)
	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", a.ListProjects)
		r.Post("/", a.CreateProject)
		r.Route("/{project}", func(r chi.Router) {
			r.Get("/", a.GetProject)
			r.Put("/", a.UpdateProject)
			r.Delete("/", a.DeleteProject)
			r.Get("/approvedImages", a.ProjectReferences)
			r.Post("/approvedImages", a.AddProjectReference)
			r.Put("/approvedImages", a.ReplaceProjectReferences)
			r.Get("/referenceImages", a.ProjectImages)
			r.Post("/referenceImages", a.UploadProjectImage)
			r.Get("/campaigns", a.ListCampaigns)
			r.Post("/campaigns", a.CreateCampaign)
			r.Route("/campaigns/{campaign}", func(r chi.Router) {
				r.Get("/", a.GetCampaign)
				r.Put("/", a.UpdateCampaign)
				r.Delete("/", a.DeleteCampaign)
				r.Get("/references", a.CampaignReferences)
				r.Post("/references", a.AddCampaignReference)
				r.Put("/references", a.ReplaceCampaignReferences)
				r.Post("/approve", a.Approve)
				r.Get("/library", a.Library)
				r.Put("/library/{index}/pin", a.PinReference)
				r.Get("/referenceImages", a.CampaignImages)
				r.Post("/referenceImages", a.UploadCampaignImage)
				r.Get("/requests", a.ListRequests)
				r.Post("/requests", a.CreateRequest)
				r.Route("/requests/{requestID}", func(r chi.Router) {
					r.Get("/", a.GetRequest)
					r.Put("/", a.UpdateRequest)
					r.Delete("/", a.DeleteRequest)
					r.Get("/logs", a.RequestLogs)
					r.Post("/generate", a.Generate)
					r.Post("/optimize", a.Optimize)
				})
			})
		})
	})
	r.Put("/api/referenceImages/{id}", a.UpdateReferenceImage)
	r.Delete("/api/referenceImages/{id}", a.DeleteReferenceImage)
	r.Get("/assets/*", a.ServeBlob)
	r.Get("/references/*", a.ServeBlob)
	return r
}

// do sends a JSON request and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// seed creates project "Acme" with campaign "Spring".
func (e *testEnv) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if err := e.api.Projects.Create(ctx, &models.Project{
		Name: "Acme", ClientName: "Acme Corp", Description: "Sneakers", StyleGuide: "Bold pop-art",
	}); err != nil {
		t.Fatalf("create project: %v", err)
	}
	if err := e.api.Campaigns.Create(ctx, "Acme", &models.Campaign{Name: "Spring", Description: "Spring sale"}); err != nil {
		t.Fatalf("create campaign: %v", err)
	}
}

// newRequest stores a Pending request in Acme/Spring.
func (e *testEnv) newRequest(t *testing.T, prompt string) *models.Request {
	t.Helper()
	req, err := e.api.Requests.Create(context.Background(), "Acme", "Spring", prompt)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return req
}

func testPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}
