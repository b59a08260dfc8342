package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bcnelson/stackex/internal/api"
	"github.com/bcnelson/stackex/internal/auth"
	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/oracle"
	"github.com/bcnelson/stackex/internal/service"
	"github.com/bcnelson/stackex/internal/storage/memory"
)

const testScript = "#!/bin/bash\nsudo apt-get install -y nodejs\n"

// testServer creates a test server with in-memory storage and a scripted oracle.
type testServer struct {
	handler http.Handler
	store   *memory.Store

	verdict      string
	oracleErr    error
	popularReply string
	calls        atomic.Int32
}

func newTestServer(t *testing.T, users auth.UserResolver) *testServer {
	t.Helper()
	ts := &testServer{
		store:        memory.New(),
		verdict:      "YES",
		popularReply: "```json\n[\"MERN\",\"MEAN\",\"T3\"]\n```",
	}

	o := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		ts.calls.Add(1)
		if ts.oracleErr != nil {
			return "", ts.oracleErr
		}
		switch {
		case strings.Contains(prompt, `Answer only "YES" or "NO"`):
			return ts.verdict, nil
		case strings.Contains(prompt, "trending"):
			return ts.popularReply, nil
		default:
			return testScript, nil
		}
	})

	popular, err := service.NewPopularCacheFromOracle(o, 16)
	if err != nil {
		t.Fatal(err)
	}

	ts.handler = api.NewRouter(api.Dependencies{
		Store:   ts.store,
		Scripts: service.NewScriptService(o),
		Popular: popular,
		Stacks:  service.NewStackService(ts.store),
		Users:   users,
	})
	return ts
}

func (ts *testServer) request(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reqBody io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = strings.NewReader(b)
	default:
		jsonBytes, _ := json.Marshal(b)
		reqBody = bytes.NewReader(jsonBytes)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp domain.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error body %q: %v", rr.Body.String(), err)
	}
	return resp.Error
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request("GET", "/health", nil)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}

	var resp map[string]string
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %s", resp["status"])
	}
}

func TestGenerateScript(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request("POST", "/api/generate-script", `{"stack":"React, Node.js, MongoDB","os":"linux"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}

	var resp domain.GenerateScriptResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Script != testScript {
		t.Errorf("Expected script to be returned unchanged, got %q", resp.Script)
	}
	if got := ts.calls.Load(); got != 2 {
		t.Errorf("Expected validation and synthesis calls, got %d", got)
	}
}

func TestGenerateScriptCatalogSelection(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.verdict = "NO"

	body := `{"stack":[{"name":"React","version":"18"},"Node.js"],"os":"windows"}`
	rr := ts.request("POST", "/api/generate-script", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if got := ts.calls.Load(); got != 1 {
		t.Errorf("Expected catalog selection to skip validation, got %d oracle calls", got)
	}
}

func TestGenerateScriptMissingFields(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, body := range []string{
		`{"os":"linux"}`,
		`{"stack":"Go"}`,
		`{"stack":"","os":"linux"}`,
		`{"stack":[],"os":"macos"}`,
		`{"stack":42,"os":"linux"}`,
		`not json`,
	} {
		rr := ts.request("POST", "/api/generate-script", body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got %d", body, rr.Code)
			continue
		}
		if msg := decodeError(t, rr); msg != domain.MsgMissingFields {
			t.Errorf("%s: expected %q, got %q", body, domain.MsgMissingFields, msg)
		}
	}
	if got := ts.calls.Load(); got != 0 {
		t.Errorf("Expected no oracle calls, got %d", got)
	}
}

func TestGenerateScriptInvalidStack(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.verdict = "NO"

	rr := ts.request("POST", "/api/generate-script", `{"stack":"banana bread","os":"linux"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != domain.MsgInvalidStack {
		t.Errorf("Expected %q, got %q", domain.MsgInvalidStack, msg)
	}
	if got := ts.calls.Load(); got != 1 {
		t.Errorf("Expected only the validation call, got %d", got)
	}
}

func TestGenerateScriptUpstreamFailure(t *testing.T) {
	ts := newTestServer(t, nil)

	// Validation passes, synthesis fails
	o := oracle.Func(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, `Answer only "YES" or "NO"`) {
			return "YES", nil
		}
		return "", fmt.Errorf("%w: Resource has been exhausted (e.g. check quota).", domain.ErrUpstream)
	})
	popular, _ := service.NewPopularCacheFromOracle(o, 4)
	ts.handler = api.NewRouter(api.Dependencies{
		Store:   ts.store,
		Scripts: service.NewScriptService(o),
		Popular: popular,
		Stacks:  service.NewStackService(ts.store),
	})

	rr := ts.request("POST", "/api/generate-script", `{"stack":"Go","os":"macos"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != "Resource has been exhausted (e.g. check quota)." {
		t.Errorf("Expected upstream message verbatim, got %q", msg)
	}
}

func TestGenerateScriptValidationOracleDown(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.oracleErr = fmt.Errorf("%w: unavailable", domain.ErrUpstream)

	rr := ts.request("POST", "/api/generate-script", `{"stack":"Go","os":"linux"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != domain.MsgInvalidStack {
		t.Errorf("Expected %q, got %q", domain.MsgInvalidStack, msg)
	}
}

func TestPopularStacks(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request("GET", "/api/popular-stacks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp domain.PopularStacksResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if strings.Join(resp.PopularStacks, ",") != "MERN,MEAN,T3" {
		t.Errorf("Unexpected popular stacks %v", resp.PopularStacks)
	}

	// Same browse session hits the cache
	var browse *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.BrowseCookieName {
			browse = c
		}
	}
	if browse == nil {
		t.Fatal("Expected a browse session cookie")
	}
	ts.request("GET", "/api/popular-stacks", nil, browse)
	if got := ts.calls.Load(); got != 1 {
		t.Errorf("Expected one oracle call per session, got %d", got)
	}
}

func TestPopularStacksFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.popularReply = "here are some stacks: MERN, MEAN"

	rr := ts.request("GET", "/api/popular-stacks", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", rr.Code)
	}
	if msg := decodeError(t, rr); msg != domain.MsgPopularStacksFailed {
		t.Errorf("Expected %q, got %q", domain.MsgPopularStacksFailed, msg)
	}
}

func TestCatalog(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request("GET", "/api/catalog", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var resp domain.CatalogResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Techs) == 0 || len(resp.Presets) == 0 || len(resp.Categories) != 5 {
		t.Errorf("Unexpected catalog %+v", resp)
	}
}

func TestSavedStacksRequireUser(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/stacks"},
		{"POST", "/api/stacks"},
		{"DELETE", "/api/stacks/abc"},
	} {
		rr := ts.request(tc.method, tc.path, domain.SaveStackRequest{Stacks: []string{"Go"}})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected status 401, got %d", tc.method, tc.path, rr.Code)
		}
	}
}

func TestSavedStackLifecycle(t *testing.T) {
	ts := newTestServer(t, auth.StaticUser("alice"))

	rr := ts.request("POST", "/api/stacks", domain.SaveStackRequest{Stacks: []string{"React", "Node.js"}})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created domain.SaveStackResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &created)
	if created.ID == "" {
		t.Fatal("Expected an id")
	}

	// Duplicate save collapses in the listing
	ts.request("POST", "/api/stacks", domain.SaveStackRequest{Stacks: []string{"React", "Node.js"}})
	ts.request("POST", "/api/stacks", domain.SaveStackRequest{Stacks: []string{"Go"}})

	rr = ts.request("GET", "/api/stacks", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	var list domain.ListStacksResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &list)
	if len(list.Stacks) != 2 {
		t.Fatalf("Expected 2 unique stacks, got %d", len(list.Stacks))
	}

	rr = ts.request("DELETE", "/api/stacks/"+list.Stacks[0].ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rr.Code)
	}
	rr = ts.request("DELETE", "/api/stacks/"+list.Stacks[0].ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestSavedStackValidation(t *testing.T) {
	ts := newTestServer(t, auth.StaticUser("alice"))

	rr := ts.request("POST", "/api/stacks", domain.SaveStackRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
	rr = ts.request("POST", "/api/stacks", "{")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rr.Code)
	}
}

func TestDeleteOtherUsersStack(t *testing.T) {
	ts := newTestServer(t, auth.StaticUser("mallory"))

	if err := ts.store.CreateSavedStack(context.Background(), &domain.SavedStackRecord{
		ID: "alice-1", UserID: "alice", Stacks: domain.StringList{"Go"},
	}); err != nil {
		t.Fatal(err)
	}

	rr := ts.request("DELETE", "/api/stacks/alice-1", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
	if _, err := ts.store.GetSavedStack(context.Background(), "alice-1"); err != nil {
		t.Errorf("Expected record to survive: %v", err)
	}
}

func conditionalGet(ts *testServer, path, etag string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("If-None-Match", etag)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestCatalogETag(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request("GET", "/api/catalog", nil)
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("Expected an ETag")
	}

	rr = conditionalGet(ts, "/api/catalog", etag)
	if rr.Code != http.StatusNotModified {
		t.Errorf("Expected status 304, got %d", rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("Expected empty body, got %q", rr.Body.String())
	}

	rr = conditionalGet(ts, "/api/catalog", `"stale"`)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}

func TestSavedStacksETag(t *testing.T) {
	ts := newTestServer(t, auth.StaticUser("alice"))

	ts.request("POST", "/api/stacks", domain.SaveStackRequest{Stacks: []string{"Go"}})
	rr := ts.request("GET", "/api/stacks", nil)
	etag := rr.Header().Get("ETag")
	if etag == "" {
		t.Fatal("Expected an ETag")
	}

	if rr = conditionalGet(ts, "/api/stacks", etag); rr.Code != http.StatusNotModified {
		t.Errorf("Expected status 304, got %d", rr.Code)
	}

	ts.request("POST", "/api/stacks", domain.SaveStackRequest{Stacks: []string{"Rust"}})
	if rr = conditionalGet(ts, "/api/stacks", etag); rr.Code != http.StatusOK {
		t.Errorf("Expected a fresh listing after a save, got %d", rr.Code)
	}
}
