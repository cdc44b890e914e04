package media

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeVideoURL rewrites recognized video-host URLs to their embeddable
// player form. Both the watch-page and short-link YouTube forms map to the
// embed form; Vimeo page URLs map to the player form. Unrecognized URLs
// pass through unchanged.
func NormalizeVideoURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if id := youtubeIDFromPage(u); id != "" {
			return "https://www.youtube.com/embed/" + id
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" && !strings.Contains(id, "/") {
			return "https://www.youtube.com/embed/" + id
		}
	case "vimeo.com":
		if id := strings.Trim(u.Path, "/"); id != "" && isDigits(id) {
			return "https://player.vimeo.com/video/" + id
		}
	}

	return raw
}

// VideoThumbnail picks a thumbnail URL for a video: the explicit field if
// set, a derived host thumbnail when the host is recognized, else the
// placeholder.
func VideoThumbnail(videoURL, explicit, placeholder string) string {
	if explicit != "" {
		return explicit
	}
	if id := YouTubeID(videoURL); id != "" {
		return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", id)
	}
	return placeholder
}

// YouTubeID extracts the video ID from any recognized YouTube URL form,
// or returns "".
func YouTubeID(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		return youtubeIDFromPage(u)
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if !strings.Contains(id, "/") {
			return id
		}
	}
	return ""
}

func youtubeIDFromPage(u *url.URL) string {
	switch {
	case u.Path == "/watch":
		return u.Query().Get("v")
	case strings.HasPrefix(u.Path, "/embed/"):
		return strings.TrimPrefix(u.Path, "/embed/")
	case strings.HasPrefix(u.Path, "/shorts/"):
		return strings.TrimPrefix(u.Path, "/shorts/")
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
