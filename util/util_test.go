package util

import (
	"strings"
	"testing"
)

func TestConvertStringToInt32(t *testing.T) {
	v, err := ConvertStringToInt32("42")
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if v != 42 {
		t.Errorf("Expected 42, got %d", v)
	}

	if _, err := ConvertStringToInt32("not-a-number"); err == nil {
		t.Errorf("Expected error for malformed input")
	}
}

func TestHasPrefixes(t *testing.T) {
	if !HasPrefixes("/api/books/12", "/api/auth", "/api/books") {
		t.Errorf("Expected prefix match")
	}
	if HasPrefixes("/api/library", "/api/books") {
		t.Errorf("Unexpected prefix match")
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("reader@example.com") {
		t.Errorf("Expected valid email")
	}
	if ValidateEmail("not-an-email") {
		t.Errorf("Expected invalid email")
	}
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(32)
	if err != nil {
		t.Fatalf("Failed to generate random string: %v", err)
	}
	if len(s) != 32 {
		t.Errorf("Expected length 32, got %d", len(s))
	}
}

func TestEstimatePageCount(t *testing.T) {
	if got := EstimatePageCount(""); got != 0 {
		t.Errorf("Expected 0 pages for empty content, got %d", got)
	}
	if got := EstimatePageCount("one two three"); got != 1 {
		t.Errorf("Expected 1 page, got %d", got)
	}
	// 251 words round up to two pages.
	if got := EstimatePageCount(strings.Repeat("word ", 251)); got != 2 {
		t.Errorf("Expected 2 pages, got %d", got)
	}
}
