// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/handlers"
	"github.com/danielhkuo/tap-survey/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	surveyHandler := handlers.NewSurveyHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	followUpHandler := handlers.NewFollowUpHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	deviceHandler := handlers.NewDeviceHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Survey catalog
	mux.HandleFunc("POST /surveys", middleware.WithLogging(surveyHandler.CreateSurvey))
	mux.HandleFunc("GET /surveys", middleware.WithLogging(surveyHandler.ListSurveys))
	mux.HandleFunc("GET /surveys/mine", middleware.WithLogging(surveyHandler.ListOwnedSurveys))
	mux.HandleFunc("GET /surveys/mine/results", middleware.WithLogging(resultsHandler.ListOwnedWithResults))
	mux.HandleFunc("GET /surveys/{id}", middleware.WithLogging(surveyHandler.GetSurvey))
	mux.HandleFunc("POST /surveys/{id}/toggle", middleware.WithLogging(surveyHandler.ToggleActive))
	mux.HandleFunc("DELETE /surveys/{id}", middleware.WithLogging(surveyHandler.DeleteSurvey))

	// Vote intake (public, deduplicated per device)
	mux.HandleFunc("POST /surveys/{id}/votes", middleware.WithLogging(votingHandler.CastVote))
	mux.HandleFunc("GET /surveys/{id}/votes/me", middleware.WithLogging(votingHandler.HasVoted))
	mux.HandleFunc("GET /surveys/{id}/results", middleware.WithLogging(votingHandler.GetResults))

	// Follow-up responses
	mux.HandleFunc("POST /surveys/{id}/follow-up", middleware.WithLogging(followUpHandler.Submit))
	mux.HandleFunc("GET /surveys/{id}/follow-up", middleware.WithLogging(followUpHandler.GetResponses))
	mux.HandleFunc("GET /surveys/{id}/follow-up/summary", middleware.WithLogging(followUpHandler.GetSummary))

	// Tag payload resolution (deep links, QR readers)
	mux.HandleFunc("GET /resolve", middleware.WithLogging(votingHandler.ResolveTag))

	// Device identity
	mux.HandleFunc("POST /devices/register", middleware.WithLogging(deviceHandler.Register))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tap-survey API v1"))
	})

	return mux
}
