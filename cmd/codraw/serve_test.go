package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/codraw/internal/generate"
)

func newTestServer(t *testing.T, archive string, svc generate.Service) *httptest.Server {
	t.Helper()
	r, _, _ := newTestRoot(t)
	cmd, err := parseServeCmd([]string{"-archive-dir", archive}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	h, err := cmd.router(svc)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestServeRoundTrip(t *testing.T) {
	img := solidPNG(t, 8, 8, red)
	svc := &recordingService{image: img}
	ts := newTestServer(t, "", svc)

	client := generate.NewClient(ts.URL + generate.RoutePath)
	resp, err := client.Generate(context.Background(), generate.Request{Prompt: "a cat", Image: []byte("drawing")})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !resp.Success || string(resp.Image) != string(img) || resp.Message != "here you go" {
		t.Fatalf("response = %+v", resp)
	}
	if got := svc.last(t); got.Prompt != "a cat" || string(got.Image) != "drawing" {
		t.Fatalf("service saw %+v", got)
	}
}

func TestServeArchivesImages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	ts := newTestServer(t, dir, &recordingService{image: solidPNG(t, 4, 4, red)})

	body := strings.NewReader(`{"prompt":"sun","saveToFile":true}`)
	res, err := http.Post(ts.URL+generate.RoutePath, "application/json", body)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("archive dir = %v, %v", entries, err)
	}

	res, err = http.Get(ts.URL + generate.DefaultArchiveURL + "/" + entries[0].Name())
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("archived file status = %d", res.StatusCode)
	}
}

func TestServeRejectsBadRequests(t *testing.T) {
	ts := newTestServer(t, "", &recordingService{})
	cases := []struct {
		method, body string
		want         int
	}{
		{http.MethodPost, `{"prompt":""}`, http.StatusBadRequest},
		{http.MethodPost, `not json`, http.StatusBadRequest},
		{http.MethodGet, ``, http.StatusMethodNotAllowed},
	}
	for _, c := range cases {
		req, err := http.NewRequest(c.method, ts.URL+generate.RoutePath, strings.NewReader(c.body))
		if err != nil {
			t.Fatal(err)
		}
		res, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		res.Body.Close()
		if res.StatusCode != c.want {
			t.Errorf("%s %q: status %d, want %d", c.method, c.body, res.StatusCode, c.want)
		}
	}
}

func TestServeWithoutAPIKeyFailsAtStartup(t *testing.T) {
	r, _, _ := newTestRoot(t)
	cmd, err := parseServeCmd([]string{"-listen", "127.0.0.1:0"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); !errors.Is(err, errNoAPIKey) {
		t.Fatalf("Run err = %v, want %v", err, errNoAPIKey)
	}
}

func TestServeRejectsOwnEndpoint(t *testing.T) {
	r, _, _ := newTestRoot(t)
	cmd, err := parseServeCmd([]string{"-backend", "http", "-endpoint", "http://localhost:3000/api/generate"}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cmd.backend(":3000"); !errors.Is(err, errSelfEndpoint) {
		t.Fatalf("backend err = %v, want %v", err, errSelfEndpoint)
	}
	if _, err := cmd.backend("127.0.0.1:4000"); err != nil {
		t.Fatalf("other port: %v", err)
	}
}

func TestLoopsBack(t *testing.T) {
	cases := []struct {
		endpoint, listen string
		want             bool
	}{
		{"http://localhost:3000/api/generate", ":3000", true},
		{"http://127.0.0.1:3000/api/generate", "0.0.0.0:3000", true},
		{"http://localhost:3000/api/generate", "127.0.0.1:3000", true},
		{"http://[::1]:3000/api/generate", "[::]:3000", true},
		{"http://localhost/api/generate", ":80", true},
		{"http://localhost:3000/api/generate", ":4000", false},
		{"https://localhost/api/generate", ":80", false},
		{"http://192.0.2.10:3000/api/generate", "127.0.0.1:3000", false},
	}
	for _, c := range cases {
		got, err := loopsBack(c.endpoint, c.listen)
		if err != nil {
			t.Errorf("loopsBack(%q, %q): %v", c.endpoint, c.listen, err)
			continue
		}
		if got != c.want {
			t.Errorf("loopsBack(%q, %q) = %v, want %v", c.endpoint, c.listen, got, c.want)
		}
	}
	if _, err := loopsBack("not a url", ":3000"); err == nil {
		t.Error("expected error for endpoint without a host")
	}
}
