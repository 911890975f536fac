package v1

import (
	"math"
	"net/http"

	"github.com/bookverse/bookverse/http/request"
	"github.com/bookverse/bookverse/model"
)

const (
	defaultBookPageLimit   = 20
	defaultReviewPageLimit = 10
	featuredBookLimit      = 10
	defaultGenreLimit      = 10
)

// meanRating is the arithmetic mean rounded half-away-from-zero at 0.1
// granularity. An empty set yields 0.
func meanRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*10) / 10
}

// ratingSummary aggregates the reviews of a book into its decorated rating.
func (h *Handler) ratingSummary(bookID int) (float64, int, error) {
	ratings, err := h.store.ListBookRatings(bookID)
	if err != nil {
		return 0, 0, err
	}
	return meanRating(ratings), len(ratings), nil
}

func (h *Handler) decorateBook(book *model.Book) (*model.BookWithRating, error) {
	rating, count, err := h.ratingSummary(book.ID)
	if err != nil {
		return nil, err
	}
	return &model.BookWithRating{Book: book, Rating: rating, ReviewCount: count}, nil
}

func (h *Handler) decorateBooks(books []*model.Book) ([]*model.BookWithRating, error) {
	decorated := make([]*model.BookWithRating, 0, len(books))
	for _, book := range books {
		d, err := h.decorateBook(book)
		if err != nil {
			return nil, err
		}
		decorated = append(decorated, d)
	}
	return decorated, nil
}

// fillRating populates the rating fields of an already joined book.
func (h *Handler) fillRating(b *model.BookWithRating) error {
	rating, count, err := h.ratingSummary(b.Book.ID)
	if err != nil {
		return err
	}
	b.Rating = rating
	b.ReviewCount = count
	return nil
}

func paginationParams(r *http.Request, defaultLimit int) (page, limit int) {
	page = request.QueryIntParam(r, "page", 1)
	limit = request.QueryIntParam(r, "limit", defaultLimit)
	return page, limit
}
