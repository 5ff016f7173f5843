package main

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hairizuan-noorazman/bible-memo/cmd/backend/handlers"
	"github.com/hairizuan-noorazman/bible-memo/internal/app"
)

// newRouter registers every route against the wired application.
func newRouter(a *app.App) *mux.Router {
	router := mux.NewRouter()
	router.Use(handlers.RequestID)
	router.Use(handlers.RequestLogger(a.Logger.WithField("component", "http")))

	// Operational endpoints
	healthHandler := handlers.NewHealthHandler(a.Verses, a.Config.Storage.Type)
	router.HandleFunc("/health", healthHandler.Get).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{Registry: a.Registry})).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()

	verseHandler := handlers.NewVerseHandler(a.Verses, a.Logger)
	apiRouter.HandleFunc("/verses", verseHandler.List).Methods("GET")
	apiRouter.HandleFunc("/verses", verseHandler.Create).Methods("POST")
	apiRouter.HandleFunc("/verses/{id}", verseHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/verses/{id}", verseHandler.Update).Methods("PUT")
	apiRouter.HandleFunc("/verses/{id}", verseHandler.Patch).Methods("PATCH")
	apiRouter.HandleFunc("/verses/{id}", verseHandler.Delete).Methods("DELETE")

	apiRouter.HandleFunc("/books", handlers.BooksHandler).Methods("GET")

	textHandler := handlers.NewTextHandler(a.Client, a.Credentials, a.Logger)
	apiRouter.HandleFunc("/text", textHandler.Get).Methods("GET")

	tokenHandler := handlers.NewTokenHandler(a.Credentials, a.Logger)
	apiRouter.HandleFunc("/token", tokenHandler.Get).Methods("GET")
	apiRouter.HandleFunc("/token", tokenHandler.Set).Methods("PUT")
	apiRouter.HandleFunc("/token", tokenHandler.Clear).Methods("DELETE")

	reviewHandler := handlers.NewReviewHandler(a.Verses, a.Config.Review.Seed)
	apiRouter.HandleFunc("/review", reviewHandler.Deck).Methods("GET")

	return router
}
