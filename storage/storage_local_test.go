package storage // import "github.com/bookverse/bookverse/storage"

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bookverse/bookverse/config"
)

func TestSaveAndRemoveCover(t *testing.T) {
	config.Opts = config.GetDefaultOptions()
	s := &LocalStorage{Path: t.TempDir()}

	publicPath, err := s.SaveCover(strings.NewReader("fake image bytes"), "mycover.PNG")
	if err != nil {
		t.Fatalf("SaveCover failed: %v", err)
	}
	if !strings.HasPrefix(publicPath, "/uploads/cover-") {
		t.Fatalf("Unexpected public path %q", publicPath)
	}
	if !strings.HasSuffix(publicPath, ".png") {
		t.Errorf("Extension not normalized: %q", publicPath)
	}

	name := strings.TrimPrefix(publicPath, "/uploads/")
	if _, err := os.Stat(filepath.Join(s.Path, name)); err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}

	if err := s.RemoveCover(publicPath); err != nil {
		t.Fatalf("RemoveCover failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.Path, name)); !os.IsNotExist(err) {
		t.Error("Cover file still present after removal")
	}
}

func TestSaveCoverRejectsUnsupportedType(t *testing.T) {
	config.Opts = config.GetDefaultOptions()
	s := &LocalStorage{Path: t.TempDir()}

	if _, err := s.SaveCover(strings.NewReader("#!/bin/sh"), "cover.sh"); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestRemoveCoverLeavesPlaceholderAlone(t *testing.T) {
	s := &LocalStorage{Path: t.TempDir()}

	if err := s.RemoveCover(PlaceholderCover); err != nil {
		t.Errorf("Placeholder removal should be a no-op, got %v", err)
	}
	if err := s.RemoveCover("/etc/passwd"); err == nil {
		t.Error("Expected error for path outside uploads dir")
	}
	if err := s.RemoveCover("/uploads/../escape.png"); err == nil {
		t.Error("Expected error for traversal path")
	}
}
