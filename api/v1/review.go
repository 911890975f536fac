package v1

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse/http/request"
	"github.com/bookverse/bookverse/http/response"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/validator"
)

func (h *Handler) listBookReviews(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "bookId")
	page, limit := paginationParams(r, defaultReviewPageLimit)

	total, err := h.store.CountReviews(bookID)
	if err != nil {
		log.Error("Failed to count reviews", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	pagination := model.NewPagination(page, limit, total)
	offset := pagination.Offset()

	reviews, err := h.store.ListReviews(&model.FindReview{
		BookID: &bookID,
		Limit:  &limit,
		Offset: &offset,
	})
	if err != nil {
		log.Error("Failed to list reviews", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"reviews": reviews, "pagination": pagination})
}

func (h *Handler) listUserReviews(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	reviews, err := h.store.ListReviews(&model.FindReview{UserID: &userID})
	if err != nil {
		log.Error("Failed to list user reviews", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"reviews": reviews})
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var create model.ReviewCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateReviewCreateRequest(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	book, err := h.store.GetBook(&model.FindBook{ID: &create.BookID})
	if err != nil {
		log.Error("Failed to get book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r, errors.New("book not found"))
		return
	}

	review, err := h.store.CreateReview(&model.Review{
		UserID:  request.GetUserID(r),
		BookID:  create.BookID,
		Rating:  create.Rating,
		Comment: create.Comment,
	})
	if err != nil {
		// One review per (user, book), enforced by the unique constraint so
		// concurrent submits cannot slip through.
		if errors.Is(err, store.ErrAlreadyExists) {
			response.BadRequest(w, r, errors.New("you have already reviewed this book"))
			return
		}
		log.Error("Failed to create review", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, review)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	reviewID := request.RouteIntParam(r, "id")
	review, err := h.store.GetReview(&model.FindReview{ID: &reviewID})
	if err != nil {
		log.Error("Failed to get review", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if review == nil {
		response.NotFound(w, r, errors.New("review not found"))
		return
	}
	if review.UserID != request.GetUserID(r) {
		response.Forbidden(w, r, errors.New("only the author can modify this review"))
		return
	}

	var update model.ReviewUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateReviewUpdateRequest(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateReview(&model.UpdateReview{
		ID:      reviewID,
		Rating:  update.Rating,
		Comment: update.Comment,
	})
	if err != nil {
		log.Error("Failed to update review", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, updated)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := request.RouteIntParam(r, "id")
	review, err := h.store.GetReview(&model.FindReview{ID: &reviewID})
	if err != nil {
		log.Error("Failed to get review", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if review == nil {
		response.NotFound(w, r, errors.New("review not found"))
		return
	}
	if review.UserID != request.GetUserID(r) {
		response.Forbidden(w, r, errors.New("only the author can delete this review"))
		return
	}

	if err := h.store.RemoveReview(reviewID); err != nil {
		log.Error("Failed to delete review", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Message(w, r, "review deleted")
}
