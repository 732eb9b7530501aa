package update

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{name: "same version", current: "1.2.0", latest: "1.2.0", want: false},
		{name: "same version with v prefix", current: "v1.2.0", latest: "1.2.0", want: false},
		{name: "newer available", current: "1.2.0", latest: "1.3.0", want: true},
		{name: "dev build", current: "dev", latest: "1.0.0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNewer(tt.current, tt.latest); got != tt.want {
				t.Errorf("isNewer(%q, %q) = %v, want %v", tt.current, tt.latest, got, tt.want)
			}
		})
	}
}

func TestCheckForUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want %q", got, userAgent)
		}
		w.Write([]byte(`{"tag_name": "v1.4.0", "name": "v1.4.0"}`))
	}))
	defer server.Close()

	orig := releaseAPIURL
	releaseAPIURL = server.URL
	defer func() { releaseAPIURL = orig }()

	available, latest, err := CheckForUpdate("v1.3.0")
	if err != nil {
		t.Fatalf("CheckForUpdate() error = %v", err)
	}
	if !available {
		t.Error("CheckForUpdate() available = false, want true")
	}
	if latest != "v1.4.0" {
		t.Errorf("CheckForUpdate() latest = %q, want %q", latest, "v1.4.0")
	}
}

func TestCheckForUpdate_APIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	orig := releaseAPIURL
	releaseAPIURL = server.URL
	defer func() { releaseAPIURL = orig }()

	if _, _, err := CheckForUpdate("v1.3.0"); err == nil {
		t.Fatal("CheckForUpdate() expected error on non-200 response")
	}
}
