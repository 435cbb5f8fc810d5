// internal/countries/countries_test.go

package countries

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const upstreamBody = `[
  {"name":{"common":"Dominican Republic"},"cca2":"DO",
   "idd":{"root":"+1","suffixes":["809","829","849"]},"flag":"DO-flag"},
  {"name":{"common":"Antarctica"},"cca2":"AQ","idd":{},"flag":"AQ-flag"},
  {"name":{"common":"Chile"},"cca2":"CL",
   "idd":{"root":"+5","suffixes":["6"]},"flag":"CL-flag"}
]`

func TestCatalogFetchFilterSort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3.1/all" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "name,cca2,idd,flag" {
			t.Errorf("fields = %q", got)
		}
		w.Write([]byte(upstreamBody))
	}))
	defer srv.Close()

	list := New().WithBaseURL(srv.URL).Catalog(context.Background())

	if len(list) != 2 {
		t.Fatalf("len = %d, want 2 (no-prefix entry must be dropped)", len(list))
	}
	if list[0].Name != "Chile" || list[1].Name != "Dominican Republic" {
		t.Fatalf("order = %q, %q", list[0].Name, list[1].Name)
	}
	if list[1].DialCode != "+1809" {
		t.Fatalf("dial code = %q, want +1809", list[1].DialCode)
	}
	if list[0].Code != "CL" || list[0].Flag != "CL-flag" {
		t.Fatalf("entry = %+v", list[0])
	}
}

func TestCatalogServedFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Write([]byte(upstreamBody))
	}))
	defer srv.Close()

	c := New().WithBaseURL(srv.URL)
	c.Catalog(context.Background())
	c.Catalog(context.Background())

	if hits.Load() != 1 {
		t.Fatalf("upstream hits = %d, want 1", hits.Load())
	}
}

func TestCatalogFallbackOnUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	list := New().WithBaseURL(srv.URL).Catalog(context.Background())

	if len(list) == 0 {
		t.Fatal("fallback list is empty")
	}
	if list[0].Code != "MX" || list[0].DialCode != "+52" {
		t.Fatalf("fallback head = %+v", list[0])
	}
}
