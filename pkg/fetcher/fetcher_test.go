package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	f := New(0)
	got, err := f.GetBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("GetBytes() error = %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("GetBytes() = %q, want %q", got, "payload")
	}
}

func TestGetBytes_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := New(0)
	_, err := f.GetBytes(context.Background(), srv.URL+"/missing.png")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("GetBytes() error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("StatusError.Code = %d, want %d", se.Code, http.StatusNotFound)
	}
}

func TestGetBytes_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	f := New(20 * time.Millisecond)
	_, err := f.GetBytes(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("GetBytes() with a slow server returned nil error, want timeout")
	}
}

func TestGetBytes_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := New(0)
	if _, err := f.GetBytes(ctx, srv.URL); err == nil {
		t.Fatal("GetBytes() with canceled context returned nil error")
	}
}
