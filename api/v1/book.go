package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/http/request"
	"github.com/bookverse/bookverse/http/response"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/storage"
	"github.com/bookverse/bookverse/util"
	"github.com/bookverse/bookverse/validator"
)

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r, defaultBookPageLimit)
	isPublic := true
	find := model.FindBook{IsPublic: &isPublic}
	if genre := request.QueryStringParam(r, "genre"); genre != "" {
		find.Genre = &genre
	}
	if language := request.QueryStringParam(r, "language"); language != "" {
		find.Language = &language
	}

	total, err := h.store.CountBooks(&find)
	if err != nil {
		log.Error("Failed to count books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	pagination := model.NewPagination(page, limit, total)
	offset := pagination.Offset()
	find.Limit = &limit
	find.Offset = &offset

	books, err := h.store.ListBooks(&find)
	if err != nil {
		log.Error("Failed to list books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	decorated, err := h.decorateBooks(books)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"books": decorated, "pagination": pagination})
}

func (h *Handler) searchBooks(w http.ResponseWriter, r *http.Request) {
	isPublic := true
	find := model.FindBook{IsPublic: &isPublic}
	if q := request.QueryStringParam(r, "q"); q != "" {
		find.Query = &q
	}
	if genre := request.QueryStringParam(r, "genre"); genre != "" {
		find.Genre = &genre
	}
	if language := request.QueryStringParam(r, "language"); language != "" {
		find.Language = &language
	}

	books, err := h.store.ListBooks(&find)
	if err != nil {
		log.Error("Failed to search books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	decorated, err := h.decorateBooks(books)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	// The rating threshold filters on the aggregated mean, so it has to run
	// after decoration.
	if minRating := request.QueryFloatParam(r, "rating", 0); minRating > 0 {
		filtered := decorated[:0]
		for _, b := range decorated {
			if b.Rating >= minRating {
				filtered = append(filtered, b)
			}
		}
		decorated = filtered
	}

	response.OK(w, r, map[string]any{"books": decorated})
}

func (h *Handler) featuredBooks(w http.ResponseWriter, r *http.Request) {
	isPublic := true
	limit := featuredBookLimit
	books, err := h.store.ListBooks(&model.FindBook{IsPublic: &isPublic, Limit: &limit})
	if err != nil {
		log.Error("Failed to list featured books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	decorated, err := h.decorateBooks(books)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"books": decorated})
}

func (h *Handler) booksByGenre(w http.ResponseWriter, r *http.Request) {
	genre := request.RouteStringParam(r, "genre")
	limit := request.QueryIntParam(r, "limit", defaultGenreLimit)

	isPublic := true
	books, err := h.store.ListBooks(&model.FindBook{IsPublic: &isPublic, Genre: &genre, Limit: &limit})
	if err != nil {
		log.Error("Failed to list books by genre", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	decorated, err := h.decorateBooks(books)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"books": decorated})
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID, WithContent: true})
	if err != nil {
		log.Error("Failed to get book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r, errors.New("book not found"))
		return
	}

	chapters, err := h.store.ListChapters(bookID)
	if err != nil {
		log.Error("Failed to list chapters", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	book.Chapters = chapters

	decorated, err := h.decorateBook(book)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, decorated)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Opts.MaxUploadSize << 20); err != nil {
		log.Error("Failed to parse multipart form", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	create := model.BookCreateRequest{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Description: r.FormValue("description"),
		Genre:       r.FormValue("genre"),
		Language:    r.FormValue("language"),
		Content:     r.FormValue("content"),
		IsPublic:    r.FormValue("isPublic") != "false",
	}
	if chaptersJSON := r.FormValue("chapters"); chaptersJSON != "" {
		if err := json.Unmarshal([]byte(chaptersJSON), &create.Chapters); err != nil {
			response.BadRequest(w, r, errors.Wrap(err, "malformed chapters payload"))
			return
		}
	}

	if err := validator.ValidateBookCreateRequest(&create); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	coverImage := storage.PlaceholderCover
	if file, header, err := r.FormFile("coverImage"); err == nil {
		defer file.Close()
		coverImage, err = h.storage.SaveCover(file, header.Filename)
		if err != nil {
			log.Error("Failed to store cover", zap.Error(err))
			response.BadRequest(w, r, err)
			return
		}
	}

	book := &model.Book{
		Title:       create.Title,
		Author:      create.Author,
		Description: create.Description,
		Genre:       create.Genre,
		Language:    create.Language,
		Content:     create.Content,
		CoverImage:  coverImage,
		PageCount:   util.EstimatePageCount(create.Content),
		IsPublic:    create.IsPublic,
		UploadedBy:  request.GetUserID(r),
	}

	newBook, err := h.store.CreateBook(book, create.Chapters)
	if err != nil {
		log.Error("Failed to create book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	chapters, err := h.store.ListChapters(newBook.ID)
	if err != nil {
		log.Error("Failed to list chapters", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	newBook.Chapters = chapters

	response.Created(w, r, &model.BookWithRating{Book: newBook})
}

func (h *Handler) updateBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		log.Error("Failed to get book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r, errors.New("book not found"))
		return
	}
	if book.UploadedBy != request.GetUserID(r) {
		response.Forbidden(w, r, errors.New("only the uploader can modify this book"))
		return
	}

	update, err := h.parseBookUpdate(r, bookID)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookUpdate(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateBook(update)
	if err != nil {
		log.Error("Failed to update book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	// A replaced cover leaves the old file orphaned.
	if update.CoverImage != nil && book.CoverImage != *update.CoverImage {
		h.pool.Push(model.Job{
			UserID: request.GetUserID(r),
			Path:   book.CoverImage,
			Type:   model.JobTypeCoverSweep,
			Status: model.JobStatusPending,
		})
	}

	decorated, err := h.decorateBook(updated)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, decorated)
}

// parseBookUpdate accepts either a JSON body or a multipart form carrying a
// replacement cover file.
func (h *Handler) parseBookUpdate(r *http.Request, bookID int) (*model.UpdateBook, error) {
	update := &model.UpdateBook{ID: bookID}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(config.Opts.MaxUploadSize << 20); err != nil {
			return nil, err
		}
		setFormString := func(field string, dst **string) {
			if _, ok := r.MultipartForm.Value[field]; ok {
				v := r.FormValue(field)
				*dst = &v
			}
		}
		setFormString("title", &update.Title)
		setFormString("author", &update.Author)
		setFormString("description", &update.Description)
		setFormString("genre", &update.Genre)
		setFormString("language", &update.Language)
		setFormString("content", &update.Content)
		if _, ok := r.MultipartForm.Value["isPublic"]; ok {
			v := r.FormValue("isPublic") != "false"
			update.IsPublic = &v
		}
		if update.Content != nil {
			pages := util.EstimatePageCount(*update.Content)
			update.PageCount = &pages
		}
		if file, header, err := r.FormFile("coverImage"); err == nil {
			defer file.Close()
			coverImage, err := h.storage.SaveCover(file, header.Filename)
			if err != nil {
				return nil, err
			}
			update.CoverImage = &coverImage
		}
		return update, nil
	}

	var body struct {
		Title       *string `json:"title"`
		Author      *string `json:"author"`
		Description *string `json:"description"`
		Genre       *string `json:"genre"`
		Language    *string `json:"language"`
		Content     *string `json:"content"`
		IsPublic    *bool   `json:"isPublic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	update.Title = body.Title
	update.Author = body.Author
	update.Description = body.Description
	update.Genre = body.Genre
	update.Language = body.Language
	update.Content = body.Content
	update.IsPublic = body.IsPublic
	if body.Content != nil {
		pages := util.EstimatePageCount(*body.Content)
		update.PageCount = &pages
	}
	return update, nil
}

func (h *Handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "id")
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		log.Error("Failed to get book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r, errors.New("book not found"))
		return
	}
	if book.UploadedBy != request.GetUserID(r) {
		response.Forbidden(w, r, errors.New("only the uploader can delete this book"))
		return
	}

	if err := h.store.RemoveBook(bookID); err != nil {
		log.Error("Failed to delete book", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	// Cover file removal runs off the request path.
	h.pool.Push(model.Job{
		UserID: request.GetUserID(r),
		Path:   book.CoverImage,
		Type:   model.JobTypeCoverSweep,
		Status: model.JobStatusPending,
	})

	response.Message(w, r, "book deleted")
}
