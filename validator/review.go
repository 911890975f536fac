package validator

import (
	"github.com/pkg/errors"

	"github.com/bookverse/bookverse/model"
)

func ValidateReviewCreateRequest(req *model.ReviewCreateRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.BookID <= 0 {
		return errors.New("bookId is required")
	}
	if err := validateRating(req.Rating); err != nil {
		return err
	}
	if req.Comment == "" {
		return errors.New("comment is required")
	}
	return nil
}

func ValidateReviewUpdateRequest(req *model.ReviewUpdateRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.Rating != nil {
		if err := validateRating(*req.Rating); err != nil {
			return err
		}
	}
	if req.Comment != nil && *req.Comment == "" {
		return errors.New("comment is required")
	}
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}
