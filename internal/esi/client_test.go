package esi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newESIServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestKillmail_Success(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/killmails/123456/abc123/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"killmail_id":123456,"victim":{"character_id":99,"ship_type_id":587}}`)
	})

	km, err := client.Killmail(context.Background(), 123456, "abc123")
	if err != nil {
		t.Fatalf("Killmail failed: %v", err)
	}
	if km == nil {
		t.Fatal("expected killmail, got nil")
	}
	if km.Victim.CharacterID != 99 {
		t.Errorf("expected victim character 99, got %d", km.Victim.CharacterID)
	}
	if km.Victim.ShipTypeID != 587 {
		t.Errorf("expected ship type 587, got %d", km.Victim.ShipTypeID)
	}
}

func TestKillmail_NotFoundIsNoData(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	km, err := client.Killmail(context.Background(), 123456, "abc123")
	if err != nil {
		t.Fatalf("client error status must not raise, got %v", err)
	}
	if km != nil {
		t.Errorf("expected nil killmail, got %+v", km)
	}
}

func TestKillmail_NotModifiedIsNoData(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	})

	km, err := client.Killmail(context.Background(), 123456, "abc123")
	if err != nil {
		t.Fatalf("not-modified must not raise, got %v", err)
	}
	if km != nil {
		t.Errorf("expected nil killmail, got %+v", km)
	}
}

func TestKillmail_MalformedBodyIsNoData(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>error page</html>`)
	})

	km, err := client.Killmail(context.Background(), 123456, "abc123")
	if err != nil {
		t.Fatalf("malformed body must not raise, got %v", err)
	}
	if km != nil {
		t.Errorf("expected nil killmail, got %+v", km)
	}
}

func TestKillmail_ServerErrorRaises(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Killmail(context.Background(), 123456, "abc123")
	if err == nil {
		t.Fatal("expected error for server failure")
	}
}

func TestInsuranceForType(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/insurance/prices/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `[
			{"type_id":587,"levels":[{"name":"Basic","cost":1000,"payout":5000},{"name":"Platinum","cost":9000,"payout":45000}]},
			{"type_id":590,"levels":[{"name":"Basic","cost":2000,"payout":8000}]}
		]`)
	})

	levels, err := client.InsuranceForType(context.Background(), 587)
	if err != nil {
		t.Fatalf("InsuranceForType failed: %v", err)
	}
	if len(levels) != 2 {
		t.Fatalf("expected 2 levels, got %d", len(levels))
	}
	if levels[1].Name != "Platinum" || levels[1].Payout != 45000 {
		t.Errorf("unexpected tier: %+v", levels[1])
	}
}

func TestInsuranceForType_UnknownType(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"type_id":587,"levels":[{"name":"Basic","cost":1000,"payout":5000}]}]`)
	})

	levels, err := client.InsuranceForType(context.Background(), 670)
	if err != nil {
		t.Fatalf("InsuranceForType failed: %v", err)
	}
	if levels != nil {
		t.Errorf("expected nil for unlisted type, got %+v", levels)
	}
}

func TestTypeName(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/universe/types/587/" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"type_id":587,"name":"Rifter"}`)
	})

	name, err := client.TypeName(context.Background(), 587)
	if err != nil {
		t.Fatalf("TypeName failed: %v", err)
	}
	if name != "Rifter" {
		t.Errorf("expected Rifter, got %q", name)
	}
}

func TestTypeName_NoDataDegradesToEmpty(t *testing.T) {
	client := newESIServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	name, err := client.TypeName(context.Background(), 587)
	if err != nil {
		t.Fatalf("TypeName must degrade, got %v", err)
	}
	if name != "" {
		t.Errorf("expected empty name, got %q", name)
	}
}
