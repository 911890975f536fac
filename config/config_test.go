package config

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := GetDefaultOptions()

	if opts.Port != defaultPort {
		t.Errorf("Expected default port %d, got %d", defaultPort, opts.Port)
	}
	if opts.Host != defaultHost {
		t.Errorf("Expected default host %s, got %s", defaultHost, opts.Host)
	}
	if opts.MaxUploadSize != defaultMaxUploadSize {
		t.Errorf("Expected default max upload size %d, got %d", defaultMaxUploadSize, opts.MaxUploadSize)
	}
	if opts.RecentReadLimit != defaultRecentReadLimit {
		t.Errorf("Expected default recent read limit %d, got %d", defaultRecentReadLimit, opts.RecentReadLimit)
	}
}

func TestCheckCoverType(t *testing.T) {
	GetDefaultOptions()

	for _, ext := range []string{".jpg", "jpeg", ".PNG", "webp", "gif"} {
		if !CheckCoverType(ext) {
			t.Errorf("Expected %q to be an allowed cover type", ext)
		}
	}
	for _, ext := range []string{".pdf", "exe", ".svg"} {
		if CheckCoverType(ext) {
			t.Errorf("Expected %q to be rejected", ext)
		}
	}
}
