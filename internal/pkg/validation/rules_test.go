package validation

import (
	"reflect"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"student@example.edu",
		"First.Last+tag@sub.example.co",
		"  padded@example.org  ",
	}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "no-at-sign", "a@b", "spaces in@example.com"}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Generative Art ", "arduino", "ARDUINO", "", "webgl"})
	want := []string{"generative art", "arduino", "webgl"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeTagsEnforcesLimits(t *testing.T) {
	tooLong := make([]byte, TagMaxLength+1)
	for i := range tooLong {
		tooLong[i] = 'x'
	}
	if out := NormalizeTags([]string{string(tooLong)}); len(out) != 0 {
		t.Fatalf("expected over-length tag to be dropped, got %v", out)
	}

	many := make([]string, MaxTags+5)
	for i := range many {
		many[i] = string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	if out := NormalizeTags(many); len(out) != MaxTags {
		t.Fatalf("expected tag list capped at %d, got %d", MaxTags, len(out))
	}
}
