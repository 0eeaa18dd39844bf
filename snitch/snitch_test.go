package snitch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOK(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		paths = append(paths, req.URL.Path)
		if req.URL.Path == "/bad" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	sn := New("abc123")
	sn.base = srv.URL + "/"
	if err := sn.OK(context.Background()); err != nil {
		t.Fatal(err)
	}

	bad := New("bad")
	bad.base = srv.URL + "/"
	if err := bad.OK(context.Background()); err == nil {
		t.Errorf("Expected an error for a non-2xx status")
	}

	if len(paths) != 2 || paths[0] != "/abc123" {
		t.Errorf("unexpected requests %v", paths)
	}
}
