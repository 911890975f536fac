package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	v1 "github.com/bookverse/bookverse/api/v1"
	"github.com/bookverse/bookverse/config"
	"github.com/bookverse/bookverse/storage"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/version"
	"github.com/bookverse/bookverse/worker"
)

// StartServer starts the HTTP server
func StartServer(store *store.Store, pool worker.WorkPool, st storage.Storage) (*http.Server, error) {
	handler, err := setupHandler(store, pool, st)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Opts.Host, config.Opts.Port),
		Handler: handler,
	}

	startHTTPServer(server)

	return server, nil
}

func startHTTPServer(server *http.Server) {
	go func() {
		fmt.Println("Starting HTTP server in:", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			fmt.Println("HTTP server error", err)
			os.Exit(1)
		}
	}()
}

func setupHandler(store *store.Store, pool worker.WorkPool, st storage.Storage) (http.Handler, error) {
	router := mux.NewRouter()
	router.Use(handleCORS)
	router.Use(loggingRequest)

	apiHandler := v1.NewHandler(store, pool, st)
	if err := v1.Server(router, apiHandler); err != nil {
		return nil, err
	}

	// Stored covers are public, served straight off disk.
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadsDir()))))

	router.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(version.GetCurrentVersion()))
	}).Name("version")

	return router, nil
}
