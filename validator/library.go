package validator

import (
	"github.com/pkg/errors"

	"github.com/bookverse/bookverse/model"
)

func ValidateLibraryAddRequest(req *model.LibraryAddRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.BookID <= 0 {
		return errors.New("bookId is required")
	}
	return nil
}

func ValidateBookmarkRequest(req *model.BookmarkRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.BookID <= 0 {
		return errors.New("bookId is required")
	}
	if req.Page < 1 {
		return errors.New("page must be at least 1")
	}
	return nil
}

func ValidateProgressRequest(req *model.ProgressRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.BookID <= 0 {
		return errors.New("bookId is required")
	}
	if req.CurrentPage < 1 {
		return errors.New("currentPage must be at least 1")
	}
	if req.TotalPages < 1 {
		return errors.New("totalPages must be at least 1")
	}
	if req.CurrentPage > req.TotalPages {
		return errors.New("currentPage cannot exceed totalPages")
	}
	return nil
}
