package v1

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/http/request"
	"github.com/bookverse/bookverse/http/response"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/validator"
)

func (h *Handler) listLibrary(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListLibraryItems(request.GetUserID(r))
	if err != nil {
		log.Error("Failed to list library", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	for _, item := range items {
		if err := h.fillRating(item.Book); err != nil {
			response.ServerError(w, r, err)
			return
		}
	}

	response.OK(w, r, map[string]any{"items": items})
}

func (h *Handler) addLibraryItem(w http.ResponseWriter, r *http.Request) {
	var add model.LibraryAddRequest
	if err := json.NewDecoder(r.Body).Decode(&add); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateLibraryAddRequest(&add); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if ok := h.requireBook(w, r, add.BookID); !ok {
		return
	}

	item, err := h.store.AddLibraryItem(request.GetUserID(r), add.BookID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			response.BadRequest(w, r, errors.New("book already in library"))
			return
		}
		log.Error("Failed to add library item", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, item)
}

func (h *Handler) removeLibraryItem(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "bookId")
	if err := h.store.RemoveLibraryItem(request.GetUserID(r), bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, errors.New("book not in library"))
			return
		}
		log.Error("Failed to remove library item", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Message(w, r, "book removed from library")
}

func (h *Handler) listBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := h.store.ListBookmarks(request.GetUserID(r))
	if err != nil {
		log.Error("Failed to list bookmarks", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"bookmarks": bookmarks})
}

func (h *Handler) upsertBookmark(w http.ResponseWriter, r *http.Request) {
	var req model.BookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookmarkRequest(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if ok := h.requireBook(w, r, req.BookID); !ok {
		return
	}

	note := ""
	if req.Note != nil {
		note = *req.Note
	}

	bookmark, err := h.store.UpsertBookmark(request.GetUserID(r), req.BookID, req.Page, note)
	if err != nil {
		log.Error("Failed to upsert bookmark", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, bookmark)
}

func (h *Handler) removeBookmark(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "bookId")
	if err := h.store.RemoveBookmark(request.GetUserID(r), bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, errors.New("bookmark not found"))
			return
		}
		log.Error("Failed to remove bookmark", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Message(w, r, "bookmark removed")
}

func (h *Handler) listReadingProgress(w http.ResponseWriter, r *http.Request) {
	var bookID *int
	if v := request.QueryIntParam(r, "bookId", 0); v > 0 {
		bookID = &v
	}

	progress, err := h.store.ListReadingProgress(request.GetUserID(r), bookID)
	if err != nil {
		log.Error("Failed to list reading progress", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"progress": progress})
}

func (h *Handler) upsertReadingProgress(w http.ResponseWriter, r *http.Request) {
	var req model.ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateProgressRequest(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if ok := h.requireBook(w, r, req.BookID); !ok {
		return
	}

	percent := float64(req.CurrentPage) / float64(req.TotalPages) * 100

	progress, err := h.store.UpsertReadingProgress(&model.ReadingProgress{
		UserID:          request.GetUserID(r),
		BookID:          req.BookID,
		CurrentPage:     req.CurrentPage,
		TotalPages:      req.TotalPages,
		ProgressPercent: percent,
	})
	if err != nil {
		log.Error("Failed to upsert reading progress", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, progress)
}

func (h *Handler) listRecentlyRead(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListRecentlyRead(request.GetUserID(r), config.Opts.RecentReadLimit)
	if err != nil {
		log.Error("Failed to list recently read", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	for _, entry := range entries {
		if err := h.fillRating(entry.Book); err != nil {
			response.ServerError(w, r, err)
			return
		}
	}

	response.OK(w, r, map[string]any{"recentlyRead": entries})
}

func (h *Handler) upsertRecentlyRead(w http.ResponseWriter, r *http.Request) {
	var add model.LibraryAddRequest
	if err := json.NewDecoder(r.Body).Decode(&add); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateLibraryAddRequest(&add); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if ok := h.requireBook(w, r, add.BookID); !ok {
		return
	}

	userID := request.GetUserID(r)
	entry, err := h.store.UpsertRecentlyRead(userID, add.BookID)
	if err != nil {
		log.Error("Failed to upsert recently read", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	// History trimming runs off the request path.
	h.pool.Push(model.Job{
		UserID: userID,
		Type:   model.JobTypeRecentPrune,
		Status: model.JobStatusPending,
	})

	response.OK(w, r, entry)
}

func (h *Handler) listDownloads(w http.ResponseWriter, r *http.Request) {
	downloads, err := h.store.ListDownloads(request.GetUserID(r))
	if err != nil {
		log.Error("Failed to list downloads", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"downloads": downloads})
}

func (h *Handler) addDownload(w http.ResponseWriter, r *http.Request) {
	var add model.LibraryAddRequest
	if err := json.NewDecoder(r.Body).Decode(&add); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateLibraryAddRequest(&add); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if ok := h.requireBook(w, r, add.BookID); !ok {
		return
	}

	download, err := h.store.AddDownload(request.GetUserID(r), add.BookID)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			response.BadRequest(w, r, errors.New("book already downloaded"))
			return
		}
		log.Error("Failed to add download", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, download)
}

func (h *Handler) removeDownload(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteIntParam(r, "bookId")
	if err := h.store.RemoveDownload(request.GetUserID(r), bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.NotFound(w, r, errors.New("download not found"))
			return
		}
		log.Error("Failed to remove download", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Message(w, r, "download removed")
}

// requireBook writes a 404 and returns false when the book does not exist.
func (h *Handler) requireBook(w http.ResponseWriter, r *http.Request, bookID int) bool {
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		log.Error("Failed to get book", zap.Error(err))
		response.ServerError(w, r, err)
		return false
	}
	if book == nil {
		response.NotFound(w, r, errors.New("book not found"))
		return false
	}
	return true
}
