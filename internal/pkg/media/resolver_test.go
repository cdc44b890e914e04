package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStorage struct {
	signErr    error
	signedURLs int
}

func (f *fakeStorage) SignedURL(_ context.Context, filePath string, _ time.Duration) (string, error) {
	f.signedURLs++
	if f.signErr != nil {
		return "", f.signErr
	}
	return "https://cdn.example.com/signed/" + filePath + "?sig=abc", nil
}

func (f *fakeStorage) PublicURL(filePath string) string {
	return "https://cdn.example.com/public/" + filePath
}

func TestResolvePassThroughForms(t *testing.T) {
	r := NewResolver(&fakeStorage{}, time.Minute)
	ctx := context.Background()

	cases := []string{
		"https://example.com/a.png",
		"http://example.com/a.png",
		"data:image/png;base64,iVBOR",
		"/assets/logo.svg",
	}
	for _, ref := range cases {
		if got := r.Resolve(ctx, ref, "placeholder.png"); got != ref {
			t.Fatalf("Resolve(%q) = %q, want verbatim", ref, got)
		}
	}
}

func TestResolveExternalMarker(t *testing.T) {
	r := NewResolver(&fakeStorage{}, time.Minute)
	got := r.Resolve(context.Background(), "external:https://vimeo.com/123", "ph.png")
	if got != "https://vimeo.com/123" {
		t.Fatalf("Resolve external marker = %q", got)
	}
}

func TestResolveStorageRelativePrefersSigned(t *testing.T) {
	fs := &fakeStorage{}
	r := NewResolver(fs, time.Minute)

	got := r.Resolve(context.Background(), "projects/7/cover.png", "ph.png")
	if got != "https://cdn.example.com/signed/projects/7/cover.png?sig=abc" {
		t.Fatalf("Resolve = %q, want signed URL", got)
	}
	if fs.signedURLs != 1 {
		t.Fatalf("signed URL requested %d times, want 1", fs.signedURLs)
	}
}

func TestResolveFallsBackToPublicURL(t *testing.T) {
	fs := &fakeStorage{signErr: errors.New("signer unavailable")}
	r := NewResolver(fs, time.Minute)

	got := r.Resolve(context.Background(), "projects/7/cover.png", "ph.png")
	if got != "https://cdn.example.com/public/projects/7/cover.png" {
		t.Fatalf("Resolve = %q, want public fallback", got)
	}
	if got == "" {
		t.Fatal("Resolve returned an empty URL")
	}
}

func TestResolveUnrecognizableUsesPlaceholder(t *testing.T) {
	r := NewResolver(&fakeStorage{}, time.Minute)
	ctx := context.Background()

	for _, ref := range []string{"", "   ", "ftp://host/file", "../secret", "bad path/with space.png"} {
		if got := r.Resolve(ctx, ref, "ph.png"); got != "ph.png" {
			t.Fatalf("Resolve(%q) = %q, want placeholder", ref, got)
		}
	}
}

func TestResolveNeverEmpty(t *testing.T) {
	fs := &fakeStorage{signErr: errors.New("down")}
	r := NewResolver(fs, time.Minute)
	for _, ref := range []string{"projects/1/a.png", "x.png", "", "external:"} {
		if got := r.Resolve(context.Background(), ref, "ph.png"); got == "" {
			t.Fatalf("Resolve(%q) returned empty URL", ref)
		}
	}
}
