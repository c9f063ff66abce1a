package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/shashin/internal/apperr"
)

func testHTTP(t *testing.T, h http.HandlerFunc) *HTTP {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewHTTP(srv.URL+"/gallery/", srv.Client())
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	return p
}

func TestHTTPRead(t *testing.T) {
	p := testHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/gallery/data/csv/information.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("src\na.jpg\n"))
	})
	got, err := p.Read(context.Background(), "data/csv/information.csv")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "src\na.jpg\n" {
		t.Errorf("body = %q", got)
	}
}

func TestHTTPRead_NotFound(t *testing.T) {
	p := testHTTP(t, http.NotFound)
	_, err := p.Read(context.Background(), "data/csv/information.csv")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHTTPRead_ServerError(t *testing.T) {
	p := testHTTP(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, err := p.Read(context.Background(), "x.csv")
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if errors.Is(err, apperr.ErrNotFound) {
		t.Error("500 must not be reported as not found")
	}
}

func TestHTTPRead_TooLarge(t *testing.T) {
	p := testHTTP(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("src\na.jpg\n"))
	})
	p.maxBytes = 4
	if _, err := p.Read(context.Background(), "m.csv"); !errors.Is(err, apperr.ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}

	p.maxBytes = int64(len("src\na.jpg\n"))
	if got, err := p.Read(context.Background(), "m.csv"); err != nil || string(got) != "src\na.jpg\n" {
		t.Errorf("at limit: %q, %v", got, err)
	}
}

func TestNewHTTP_RelativeBase(t *testing.T) {
	if _, err := NewHTTP("/relative/", nil); err == nil {
		t.Error("relative base url should be rejected")
	}
}
