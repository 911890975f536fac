package v1

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/bookverse/bookverse/http/response"
	"github.com/bookverse/bookverse/storage"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/worker"
)

type Handler struct {
	store   *store.Store
	pool    worker.WorkPool
	storage storage.Storage
	// For JWT
	secret string
}

// NewHandler is a constructor for the v1.Handler
func NewHandler(store *store.Store, pool worker.WorkPool, storage storage.Storage) *Handler {
	return &Handler{
		store:   store,
		pool:    pool,
		storage: storage,
	}
}

func Server(router *mux.Router, handler *Handler) error {
	sr := router.PathPrefix("/api").Subrouter()

	sSetting, err := handler.store.GetOrInitSystemSecuritySetting()
	if err != nil {
		return errors.Wrap(err, "failed to get security setting")
	}
	handler.secret = sSetting.JWTSecret

	sr.Use(NewAuthInterceptor(handler.store, handler.secret).AuthenticationInterceptor)
	sr.Methods(http.MethodOptions)

	sr.HandleFunc("/health", handler.health).Methods(http.MethodGet)

	sr.HandleFunc("/auth/register", handler.register).Methods(http.MethodPost)
	sr.HandleFunc("/auth/login", handler.login).Methods(http.MethodPost)
	sr.HandleFunc("/auth/profile", handler.getProfile).Methods(http.MethodGet)
	sr.HandleFunc("/auth/profile", handler.updateProfile).Methods(http.MethodPut)
	sr.HandleFunc("/auth/change-password", handler.changePassword).Methods(http.MethodPost)

	sr.HandleFunc("/books", handler.listBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books", handler.createBook).Methods(http.MethodPost)
	sr.HandleFunc("/books/search", handler.searchBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books/featured", handler.featuredBooks).Methods(http.MethodGet)
	sr.HandleFunc("/books/genre/{genre}", handler.booksByGenre).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id:[0-9]+}", handler.getBook).Methods(http.MethodGet)
	sr.HandleFunc("/books/{id:[0-9]+}", handler.updateBook).Methods(http.MethodPut)
	sr.HandleFunc("/books/{id:[0-9]+}", handler.deleteBook).Methods(http.MethodDelete)

	sr.HandleFunc("/reviews/book/{bookId:[0-9]+}", handler.listBookReviews).Methods(http.MethodGet)
	sr.HandleFunc("/reviews/user", handler.listUserReviews).Methods(http.MethodGet)
	sr.HandleFunc("/reviews", handler.createReview).Methods(http.MethodPost)
	sr.HandleFunc("/reviews/{id:[0-9]+}", handler.updateReview).Methods(http.MethodPut)
	sr.HandleFunc("/reviews/{id:[0-9]+}", handler.deleteReview).Methods(http.MethodDelete)

	sr.HandleFunc("/library", handler.listLibrary).Methods(http.MethodGet)
	sr.HandleFunc("/library", handler.addLibraryItem).Methods(http.MethodPost)
	sr.HandleFunc("/library/bookmarks", handler.listBookmarks).Methods(http.MethodGet)
	sr.HandleFunc("/library/bookmarks", handler.upsertBookmark).Methods(http.MethodPost)
	sr.HandleFunc("/library/bookmarks/{bookId:[0-9]+}", handler.removeBookmark).Methods(http.MethodDelete)
	sr.HandleFunc("/library/progress", handler.listReadingProgress).Methods(http.MethodGet)
	sr.HandleFunc("/library/progress", handler.upsertReadingProgress).Methods(http.MethodPost)
	sr.HandleFunc("/library/recently-read", handler.listRecentlyRead).Methods(http.MethodGet)
	sr.HandleFunc("/library/recently-read", handler.upsertRecentlyRead).Methods(http.MethodPost)
	sr.HandleFunc("/library/downloads", handler.listDownloads).Methods(http.MethodGet)
	sr.HandleFunc("/library/downloads", handler.addDownload).Methods(http.MethodPost)
	sr.HandleFunc("/library/downloads/{bookId:[0-9]+}", handler.removeDownload).Methods(http.MethodDelete)
	sr.HandleFunc("/library/{bookId:[0-9]+}", handler.removeLibraryItem).Methods(http.MethodDelete)

	return nil
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(); err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, map[string]string{"status": "ok"})
}
