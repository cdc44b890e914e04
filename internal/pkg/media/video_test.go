package media

import "testing"

func TestNormalizeVideoURL(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ": "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ":                "https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=abc123":        "https://www.youtube.com/embed/abc123",
		"https://www.youtube.com/shorts/xyz":          "https://www.youtube.com/embed/xyz",
		"https://vimeo.com/76979871":                  "https://player.vimeo.com/video/76979871",
		// Unrecognized forms pass through unchanged.
		"https://example.com/raw.mp4":   "https://example.com/raw.mp4",
		"https://vimeo.com/not-numeric": "https://vimeo.com/not-numeric",
		"not a url":                     "not a url",
	}
	for in, want := range cases {
		if got := NormalizeVideoURL(in); got != want {
			t.Fatalf("NormalizeVideoURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVideoThumbnail(t *testing.T) {
	if got := VideoThumbnail("https://youtu.be/abc", "thumb.png", "ph.png"); got != "thumb.png" {
		t.Fatalf("explicit thumbnail not preferred: %q", got)
	}
	if got := VideoThumbnail("https://youtu.be/abc", "", "ph.png"); got != "https://img.youtube.com/vi/abc/hqdefault.jpg" {
		t.Fatalf("derived thumbnail = %q", got)
	}
	if got := VideoThumbnail("https://example.com/raw.mp4", "", "ph.png"); got != "ph.png" {
		t.Fatalf("placeholder fallback = %q", got)
	}
}
