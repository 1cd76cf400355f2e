package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deusflow/digest/internal/app"
	"github.com/deusflow/digest/internal/news"
	"github.com/deusflow/digest/internal/profiles"
	"github.com/deusflow/digest/internal/relevance"
	"github.com/deusflow/digest/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	healthy     bool
	exported    []app.Digest
	exportErr   error
	invalidated int
}

var alex = news.Profile{Name: "Alex Parker", Interests: []string{"AI"}}

func (f *fakeService) Profiles() []news.Profile { return []news.Profile{alex} }

func (f *fakeService) Profile(name string) (news.Profile, error) {
	if !strings.EqualFold(name, alex.Name) {
		return news.Profile{}, fmt.Errorf("%w: %s", profiles.ErrUnknownProfile, name)
	}
	return alex, nil
}

func (f *fakeService) Generate(ctx context.Context, name string) (app.Digest, error) {
	p, err := f.Profile(name)
	if err != nil {
		return app.Digest{}, err
	}
	return app.Digest{
		ID:          "digest-1",
		Reader:      p.Name,
		GeneratedAt: time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC),
		Tier:        relevance.TierMatched,
		Markdown:    "# Alex Parker's Personalized Newsletter\n\n<script>alert(1)</script>\n",
	}, nil
}

func (f *fakeService) Export(d app.Digest) (storage.ExportRecord, error) {
	if f.exportErr != nil {
		return storage.ExportRecord{}, f.exportErr
	}
	f.exported = append(f.exported, d)
	return storage.ExportRecord{DigestID: d.ID, Reader: d.Reader, File: d.Filename()}, nil
}

func (f *fakeService) Exports() []storage.ExportRecord {
	out := make([]storage.ExportRecord, 0, len(f.exported))
	for _, d := range f.exported {
		out = append(out, storage.ExportRecord{DigestID: d.ID, File: d.Filename()})
	}
	return out
}

func (f *fakeService) InvalidateCache() { f.invalidated++ }

func (f *fakeService) Stats() map[string]interface{} {
	return map[string]interface{}{"is_healthy": f.healthy, "last_run_time": "", "last_error": ""}
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	svc := &fakeService{healthy: true}
	r := NewRouter(svc)

	if w := do(r, http.MethodGet, "/health"); w.Code != http.StatusOK {
		t.Fatalf("healthy status = %d", w.Code)
	}
	svc.healthy = false
	if w := do(r, http.MethodGet, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy status = %d", w.Code)
	}
}

func TestGenerateDigest(t *testing.T) {
	w := do(NewRouter(&fakeService{healthy: true}), http.MethodPost, "/digests/alex%20parker")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"id", "reader", "generatedAt", "tier", "noContent", "markdown"} {
		if _, ok := body[k]; !ok {
			t.Errorf("missing %q in %v", k, body)
		}
	}
	if body["tier"] != "matched" || body["reader"] != "Alex Parker" {
		t.Errorf("body = %v", body)
	}
}

func TestUnknownReaderIsNotFound(t *testing.T) {
	r := NewRouter(&fakeService{healthy: true})
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/profiles/nobody"},
		{http.MethodPost, "/digests/nobody"},
		{http.MethodGet, "/digests/nobody/export"},
		{http.MethodGet, "/digests/nobody/html"},
	} {
		if w := do(r, tc.method, tc.path); w.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestExportAttachment(t *testing.T) {
	svc := &fakeService{healthy: true}
	r := NewRouter(svc)

	w := do(r, http.MethodGet, "/digests/Alex%20Parker/export")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	want := `attachment; filename="Alex Parker_newsletter_2025-03-01_09-30-00.md"`
	if got := w.Header().Get("Content-Disposition"); got != want {
		t.Errorf("Content-Disposition = %s", got)
	}
	if len(svc.exported) != 1 {
		t.Fatalf("exported %d digests", len(svc.exported))
	}

	w = do(r, http.MethodGet, "/exports")
	if !strings.Contains(w.Body.String(), "digest-1") {
		t.Errorf("exports = %s", w.Body)
	}
}

func TestExportFailure(t *testing.T) {
	svc := &fakeService{healthy: true, exportErr: errors.New("disk full")}
	if w := do(NewRouter(svc), http.MethodGet, "/digests/Alex%20Parker/export"); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestHTMLIsSanitized(t *testing.T) {
	w := do(NewRouter(&fakeService{healthy: true}), http.MethodGet, "/digests/Alex%20Parker/html")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("content type = %s", w.Header().Get("Content-Type"))
	}
	if strings.Contains(w.Body.String(), "<script>") || !strings.Contains(w.Body.String(), "<h1") {
		t.Errorf("body = %s", w.Body)
	}
}

func TestInvalidateCache(t *testing.T) {
	svc := &fakeService{healthy: true}
	if w := do(NewRouter(svc), http.MethodPost, "/cache/invalidate"); w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if svc.invalidated != 1 {
		t.Errorf("invalidated = %d", svc.invalidated)
	}
}

func TestListProfiles(t *testing.T) {
	w := do(NewRouter(&fakeService{healthy: true}), http.MethodGet, "/profiles")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Alex Parker") {
		t.Fatalf("status = %d body = %s", w.Code, w.Body)
	}
}
