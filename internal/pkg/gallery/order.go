// Package gallery implements media ordering and the autoplaying carousel
// used by project galleries and the lobby display.
package gallery

import (
	"sort"
	"strings"
	"time"
)

// MediaKind is the coarse media classification of a gallery item.
type MediaKind string

const (
	KindImage    MediaKind = "image"
	KindVideo    MediaKind = "video"
	KindDocument MediaKind = "document"
)

// Item is one orderable gallery entry.
type Item struct {
	ID        int64
	Kind      MediaKind
	URL       string
	Thumbnail string
	IsCover   bool
	Position  int
	CreatedAt time.Time
}

// IsImage reports whether the item renders as a still image.
func (it Item) IsImage() bool {
	return it.Kind == KindImage
}

// KindFromFileType maps a stored file type (optionally suffixed with a
// content-kind tag like ":executable") to a MediaKind.
func KindFromFileType(fileType string) MediaKind {
	base, _, _ := strings.Cut(fileType, ":")
	switch strings.ToLower(base) {
	case "image":
		return KindImage
	case "video":
		return KindVideo
	default:
		return KindDocument
	}
}

// Order sorts items for display: the designated cover first, everything
// else by ascending position with creation time as tiebreak. The input
// slice is not modified.
func Order(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsCover != out[j].IsCover {
			return out[i].IsCover
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Renumber assigns sequential positions (1-based) following the slice
// order and returns the result. Order is an explicit rank, not a
// creation-time encoding, so reordering never touches timestamps.
func Renumber(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// MoveUp moves the item with the given id one position towards the front
// of the ordered slice and renumbers. Moving the first item is a no-op.
func MoveUp(ordered []Item, id int64) []Item {
	out := make([]Item, len(ordered))
	copy(out, ordered)
	for i := range out {
		if out[i].ID == id && i > 0 {
			out[i-1], out[i] = out[i], out[i-1]
			break
		}
	}
	return Renumber(out)
}

// MoveDown moves the item with the given id one position towards the end
// of the ordered slice and renumbers. Moving the last item is a no-op.
func MoveDown(ordered []Item, id int64) []Item {
	out := make([]Item, len(ordered))
	copy(out, ordered)
	for i := range out {
		if out[i].ID == id && i < len(out)-1 {
			out[i], out[i+1] = out[i+1], out[i]
			break
		}
	}
	return Renumber(out)
}
