// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"brandshot/internal/models"
	"brandshot/internal/references"
)

const campaignPath = "/api/projects/Acme/campaigns/Spring"

func approveBodyFor(tier, id string) map[string]any {
	return map[string]any{
		"tier":        tier,
		"requestId":   id,
		"imagePath":   "/assets/Acme/Spring/" + id + "/image.png",
		"finalPrompt": "final " + id,
	}
}

func TestApprove_ProjectAndCampaignTiers(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	if rec := e.do(t, http.MethodPost, campaignPath+"/approve", approveBodyFor("project", "r1")); rec.Code != http.StatusCreated {
		t.Fatalf("project approve: status = %d, body = %s", rec.Code, rec.Body)
	}
	if rec := e.do(t, http.MethodPost, campaignPath+"/approve", approveBodyFor("campaign", "r2")); rec.Code != http.StatusCreated {
		t.Fatalf("campaign approve: status = %d, body = %s", rec.Code, rec.Body)
	}

	rec := e.do(t, http.MethodGet, "/api/projects/Acme/approvedImages", nil)
	project := decode[map[string][]models.Reference](t, rec)["approvedImages"]
	if len(project) != 1 || project[0].RequestID != "r1" {
		t.Errorf("approvedImages = %+v", project)
	}

	rec = e.do(t, http.MethodGet, campaignPath+"/references", nil)
	campaign := decode[map[string][]models.Reference](t, rec)["references"]
	if len(campaign) != 1 || campaign[0].RequestID != "r2" {
		t.Errorf("references = %+v", campaign)
	}
}

func TestApprove_InvalidTier_Returns400(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, campaignPath+"/approve", approveBodyFor("global", "r1"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestApprove_MissingFields_Returns400(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, campaignPath+"/approve", map[string]any{"tier": "campaign", "requestId": "r1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAddProjectReference_NoCampaignNeeded(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPost, "/api/projects/Acme/approvedImages", approveBodyFor("", "r1"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if ref := decode[models.Reference](t, rec); ref.Tier != models.TierProject {
		t.Errorf("tier = %q", ref.Tier)
	}
}

func TestReplaceCampaignReferences(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPut, campaignPath+"/references", map[string]any{
		"references": []map[string]any{
			{"requestId": "a", "imagePath": "p", "finalPrompt": "f", "pinned": true},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	refs := decode[map[string][]models.Reference](t, rec)["references"]
	if len(refs) != 1 || refs[0].Tier != models.TierCampaign || !refs[0].Pinned {
		t.Errorf("references = %+v", refs)
	}
}

func TestLibrary_PinByCombinedIndex(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)
	e.do(t, http.MethodPost, campaignPath+"/approve", approveBodyFor("project", "p1"))
	e.do(t, http.MethodPost, campaignPath+"/approve", approveBodyFor("campaign", "c1"))

	rec := e.do(t, http.MethodGet, campaignPath+"/library", nil)
	lib := decode[references.Library](t, rec)
	if len(lib.Items) != 2 || lib.Items[0].RequestID != "p1" || lib.Items[1].RequestID != "c1" {
		t.Fatalf("library = %+v", lib.Items)
	}

	rec = e.do(t, http.MethodPut, campaignPath+"/library/1/pin", map[string]bool{"pinned": true})
	if rec.Code != http.StatusOK {
		t.Fatalf("pin status = %d, body = %s", rec.Code, rec.Body)
	}

	rec = e.do(t, http.MethodGet, campaignPath+"/references", nil)
	campaign := decode[map[string][]models.Reference](t, rec)["references"]
	if len(campaign) != 1 || !campaign[0].Pinned {
		t.Errorf("campaign tier after pin = %+v", campaign)
	}
	rec = e.do(t, http.MethodGet, "/api/projects/Acme/approvedImages", nil)
	project := decode[map[string][]models.Reference](t, rec)["approvedImages"]
	if len(project) != 1 || project[0].Pinned {
		t.Errorf("project tier changed by campaign pin: %+v", project)
	}
}

func TestLibrary_PinOutOfRange_Returns400(t *testing.T) {
	e := newTestEnv(t)
	e.seed(t)

	rec := e.do(t, http.MethodPut, campaignPath+"/library/3/pin", map[string]bool{"pinned": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	rec = e.do(t, http.MethodPut, campaignPath+"/library/x/pin", map[string]bool{"pinned": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric index: status = %d, want 400", rec.Code)
	}
}
