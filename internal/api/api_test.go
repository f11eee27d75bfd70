package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParsePagination_Defaults(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/claims", nil)
	p := ParsePagination(req)
	if p.Page != 1 || p.PerPage != 50 {
		t.Errorf("expected defaults page=1 per_page=50, got %+v", p)
	}
	if p.Offset() != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset())
	}
}

func TestParsePagination_Params(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/claims?page=3&per_page=20", nil)
	p := ParsePagination(req)
	if p.Page != 3 || p.PerPage != 20 {
		t.Errorf("expected page=3 per_page=20, got %+v", p)
	}
	if p.Offset() != 40 {
		t.Errorf("expected offset 40, got %d", p.Offset())
	}
}

func TestParsePagination_ClampsAndIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/claims?page=-1&per_page=9999", nil)
	p := ParsePagination(req)
	if p.Page != 1 {
		t.Errorf("negative page should fall back to 1, got %d", p.Page)
	}
	if p.PerPage != 200 {
		t.Errorf("per_page should clamp to 200, got %d", p.PerPage)
	}

	req = httptest.NewRequest("GET", "/api/claims?page=abc&per_page=xyz", nil)
	p = ParsePagination(req)
	if p.Page != 1 || p.PerPage != 50 {
		t.Errorf("garbage params should fall back to defaults, got %+v", p)
	}
}

func TestTotalPages(t *testing.T) {
	p := PaginationParams{Page: 1, PerPage: 50}
	tests := []struct {
		total int64
		want  int
	}{
		{0, 0},
		{1, 1},
		{50, 1},
		{51, 2},
		{150, 3},
	}
	for _, tt := range tests {
		if got := p.TotalPages(tt.total); got != tt.want {
			t.Errorf("TotalPages(%d) = %d, want %d", tt.total, got, tt.want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"test"}`))
	var p payload
	if err := DecodeJSON(req, &p); err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	if p.Name != "test" {
		t.Errorf("expected name test, got %q", p.Name)
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantSub string
	}{
		{"empty body", "", "empty"},
		{"malformed", `{"name":`, "JSON"},
		{"wrong type", `{"name":123}`, "name"},
		{"unknown field", `{"bogus":"x"}`, "unknown field"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
		var p payload
		err := DecodeJSON(req, &p)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if !strings.Contains(err.Error(), tt.wantSub) {
			t.Errorf("%s: expected message containing %q, got %q", tt.name, tt.wantSub, err.Error())
		}
	}
}

func TestRespondError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, 400, "bad input")

	if rec.Code != 400 {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var resp ActionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if resp.Success {
		t.Error("error envelope must have success=false")
	}
	if resp.Message != "bad input" {
		t.Errorf("expected message in envelope, got %q", resp.Message)
	}
}

func TestRespondSuccess_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, "done", map[string]int{"count": 2})

	var resp ActionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if !resp.Success || resp.Message != "done" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
}
