package filestorage

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestLocalSignedURLRoundTrip(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads", "test-secret")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	signed, err := ls.SignedURL(context.Background(), "projects/1/cover.png", time.Minute)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if !strings.HasPrefix(signed, "http://localhost:8080"+SignedDownloadPath+"?") {
		t.Fatalf("unexpected signed URL shape: %s", signed)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed URL: %v", err)
	}
	q := u.Query()
	expires, err := strconv.ParseInt(q.Get("expires"), 10, 64)
	if err != nil {
		t.Fatalf("parse expires: %v", err)
	}

	if _, err := ls.VerifySignedPath(q.Get("path"), expires, q.Get("signature")); err != nil {
		t.Fatalf("VerifySignedPath rejected a fresh URL: %v", err)
	}

	// Tampered path must be rejected.
	if _, err := ls.VerifySignedPath("projects/2/other.png", expires, q.Get("signature")); err == nil {
		t.Fatal("VerifySignedPath accepted a tampered path")
	}

	// Expired URL must be rejected.
	past := time.Now().Add(-time.Minute).Unix()
	if _, err := ls.VerifySignedPath(q.Get("path"), past, ls.sign(q.Get("path"), past)); err == nil {
		t.Fatal("VerifySignedPath accepted an expired URL")
	}
}

func TestLocalSignedURLTargetsDownloadRoute(t *testing.T) {
	// The public prefix the files are served under must not leak into
	// signed URLs: those hit the dedicated download endpoint.
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/public", "test-secret")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	signed, err := ls.SignedURL(context.Background(), "projects/1/build.zip", time.Minute)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("parse signed URL: %v", err)
	}
	if u.Path != SignedDownloadPath {
		t.Fatalf("signed URL path = %s, want %s", u.Path, SignedDownloadPath)
	}
	if u.Host != "localhost:8080" {
		t.Fatalf("signed URL host = %s, want localhost:8080", u.Host)
	}
}

func TestLocalSignedURLRejectsTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads", "test-secret")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	if _, err := ls.SignedURL(context.Background(), "../etc/passwd", time.Minute); err == nil {
		t.Fatal("SignedURL accepted a traversal path")
	}
	if _, err := ls.SignedURL(context.Background(), "/abs/path", time.Minute); err == nil {
		t.Fatal("SignedURL accepted an absolute path")
	}
}

func TestLocalPublicURL(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/", "s")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	got := ls.PublicURL("projects/3/a.png")
	want := "http://localhost:8080/uploads/projects/3/a.png"
	if got != want {
		t.Fatalf("PublicURL = %s, want %s", got, want)
	}
}
