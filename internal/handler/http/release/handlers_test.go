package release_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ashes-live/internal/domain/entity"
	"ashes-live/internal/handler/http/auth"
	"ashes-live/internal/handler/http/release"
	authservice "ashes-live/internal/service/auth"
	"ashes-live/tests/fixtures"
)

var (
	player = &entity.User{ID: 7, Email: "player@example.com", Badge: "a1b2c3d4"}
	admin  = &entity.User{ID: 8, Email: "admin@example.com", Badge: "0f0f0f0f", IsAdmin: true}
)

type badgeLookup map[string]*entity.User

func (b badgeLookup) UserByBadge(_ context.Context, badge string) (*entity.User, error) {
	if u, ok := b[badge]; ok {
		return u, nil
	}
	return nil, authservice.ErrInvalidCredentials
}

func setup(t *testing.T) (*fixtures.CardDatabase, func(method, target string, user *entity.User, body string) *httptest.ResponseRecorder) {
	t.Helper()
	db, err := fixtures.NewCardDatabase(context.Background(), false)
	if err != nil {
		t.Fatalf("NewCardDatabase err=%v", err)
	}
	issuer := auth.NewTokenIssuer([]byte("test-secret-key-at-least-32-characters-long"), time.Hour)
	mux := http.NewServeMux()
	release.Register(mux, db.ReleaseService, auth.Middleware{
		Issuer: issuer,
		Users:  badgeLookup{player.Badge: player, admin.Badge: admin},
	})

	do := func(method, target string, user *entity.User, body string) *httptest.ResponseRecorder {
		var r io.Reader
		if body != "" {
			r = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, r)
		if user != nil {
			token, _, err := issuer.Issue(user)
			if err != nil {
				t.Fatalf("Issue err=%v", err)
			}
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr
	}
	return db, do
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) []release.DTO {
	t.Helper()
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var out []release.DTO
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	return out
}

func TestListHandler_Anonymous(t *testing.T) {
	_, do := setup(t)

	rr := do(http.MethodGet, "/releases", nil, "")
	got := decode(t, rr)
	if len(got) != 2 {
		t.Fatalf("releases = %+v, want 2", got)
	}
	if strings.Contains(rr.Body.String(), "is_mine") {
		t.Errorf("anonymous response carries is_mine: %s", rr.Body.String())
	}

	if legacy := decode(t, do(http.MethodGet, "/releases?show_legacy=true", nil, "")); len(legacy) != 0 {
		t.Errorf("legacy releases = %+v, want none", legacy)
	}
	if rr := do(http.MethodGet, "/releases?show_legacy=x", nil, ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad show_legacy status = %d", rr.Code)
	}
}

func TestUpdateMine(t *testing.T) {
	db, do := setup(t)

	rr := do(http.MethodPut, "/releases/mine", player, `["first-expansion", "first-expansion"]`)
	got := decode(t, rr)
	mine := map[string]bool{}
	for _, r := range got {
		if r.IsMine == nil {
			t.Fatalf("release %q has no is_mine", r.Stub)
		}
		mine[r.Stub] = *r.IsMine
	}
	if !mine[fixtures.FirstExpansion] || mine[fixtures.MasterSet] {
		t.Errorf("is_mine = %v", mine)
	}
	if !db.Releases.Owns(player.ID, db.CreatedReleases[1].ID) {
		t.Error("collection not stored")
	}

	listed := decode(t, do(http.MethodGet, "/releases", player, ""))
	for _, r := range listed {
		if r.IsMine == nil || *r.IsMine != (r.Stub == fixtures.FirstExpansion) {
			t.Errorf("listed %q is_mine = %v", r.Stub, r.IsMine)
		}
	}

	cleared := decode(t, do(http.MethodPut, "/releases/mine", player, `[]`))
	for _, r := range cleared {
		if *r.IsMine {
			t.Errorf("release %q still owned after clearing", r.Stub)
		}
	}
}

func TestUpdateMine_Errors(t *testing.T) {
	_, do := setup(t)

	tests := []struct {
		name     string
		user     *entity.User
		body     string
		wantCode int
	}{
		{"anonymous", nil, `["master-set"]`, http.StatusUnauthorized},
		{"not a list", player, `{"stubs":["master-set"]}`, http.StatusBadRequest},
		{"unknown release", player, `["master-set","nope"]`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(http.MethodPut, "/releases/mine", tt.user, tt.body); rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.wantCode, rr.Body.String())
			}
		})
	}
}

func TestCreateHandler(t *testing.T) {
	_, do := setup(t)

	rr := do(http.MethodPost, "/releases", admin, `{"name":"The Frostdale Giants","is_public":true,"name_zh":"霜谷 巨人"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	var got release.DTO
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	if got.Stub != "the-frostdale-giants" {
		t.Errorf("Stub = %q", got.Stub)
	}
	if got.StubZh == nil || *got.StubZh != "霜谷-巨人" {
		t.Errorf("StubZh = %v", got.StubZh)
	}
	if n := len(decode(t, do(http.MethodGet, "/releases", nil, ""))); n != 3 {
		t.Errorf("releases after create = %d, want 3", n)
	}

	tests := []struct {
		name     string
		user     *entity.User
		body     string
		wantCode int
	}{
		{"not admin", player, `{"name":"Other"}`, http.StatusForbidden},
		{"missing name", admin, `{}`, http.StatusBadRequest},
		{"duplicate", admin, `{"name":"Master Set"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rr := do(http.MethodPost, "/releases", tt.user, tt.body); rr.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantCode)
			}
		})
	}
}
