package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"goterm/app"
	"goterm/domain/core"
	"goterm/domain/enrich"
	"goterm/domain/ontology"
	"goterm/internal/engine"
	"goterm/internal/testkit"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	kit, err := testkit.SmallProcess()
	if err != nil {
		t.Fatalf("fixture failed: %v", err)
	}
	kit.Source.Annotate("orf1", ontology.AspectProcess, "methionine")
	kit.Source.Annotate("orf2", ontology.AspectProcess, "methionine")
	kit.Source.Annotate("orf3", ontology.AspectProcess, "transport")
	for _, id := range []core.ItemID{"orf4", "orf5", "orf6"} {
		kit.Source.AddItem(id)
	}
	eng, err := engine.New(engine.Config{
		PopulationSize: 6,
		Aspect:         ontology.AspectProcess,
		Annotation:     kit.Source,
		Graph:          kit.Graph,
	})
	if err != nil {
		t.Fatalf("engine construction failed: %v", err)
	}
	svc := app.NewEnrichmentService(eng, nil, enrich.ModeHypergeometric, enrich.CorrectionMinimalSet)
	return NewServer(svc, 0.05)
}

func postEnrich(t *testing.T, srv *Server, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/enrich", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEnrichEndpoint(t *testing.T) {
	srv := newTestServer(t)
	rec := postEnrich(t, srv, enrichRequest{Items: []core.ItemID{"orf1", "orf2"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp enrichResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Result == nil || resp.Result.Empty() {
		t.Fatal("expected hypotheses in the response")
	}
	if resp.Summary.Hypotheses != len(resp.Result.Hypotheses) {
		t.Errorf("summary count %d does not match %d hypotheses", resp.Summary.Hypotheses, len(resp.Result.Hypotheses))
	}
}

func TestEnrichRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	rec := postEnrich(t, srv, enrichRequest{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty items: expected 400, got %d", rec.Code)
	}

	rec = postEnrich(t, srv, enrichRequest{Items: []core.ItemID{"orf1", "orf2"}, Mode: "poisson"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown mode: expected 400, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/enrich", bytes.NewReader([]byte("{not json")))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400, got %d", rec.Code)
	}
}

func TestGetRunWithoutStoreIs404(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/runs/nope", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListRunsWithoutStore(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var runs []*enrich.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
