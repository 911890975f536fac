package validator

import (
	"github.com/pkg/errors"

	"github.com/bookverse/bookverse/model"
)

func ValidateBookCreateRequest(req *model.BookCreateRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.Title == "" {
		return errors.New("title is required")
	}
	if req.Author == "" {
		return errors.New("author is required")
	}
	if req.Genre == "" {
		return errors.New("genre is required")
	}
	if req.Language == "" {
		return errors.New("language is required")
	}
	if req.Description == "" {
		return errors.New("description is required")
	}
	if req.Content == "" {
		return errors.New("content is required")
	}
	for _, chapter := range req.Chapters {
		if chapter.Title == "" {
			return errors.New("chapter title is required")
		}
		for _, sub := range chapter.Subchapters {
			if sub.Title == "" {
				return errors.New("subchapter title is required")
			}
		}
	}
	return nil
}

func ValidateBookUpdate(update *model.UpdateBook) error {
	if update == nil {
		return errors.New("update is nil")
	}
	if update.Title != nil && *update.Title == "" {
		return errors.New("title is required")
	}
	if update.Author != nil && *update.Author == "" {
		return errors.New("author is required")
	}
	return nil
}
