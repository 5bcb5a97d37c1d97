package applications

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type feedRecord struct {
	CouncilReference string `json:"council_reference"`
	Address          string `json:"address"`
	Description      string `json:"description"`
	InfoUrl          string `json:"info_url"`
	CommentUrl       string `json:"comment_url"`
	DateScraped      string `json:"date_scraped"`
	DateReceived     string `json:"date_received,omitempty"`
}

// RegisterRoutes mounts the read-only feed endpoints.
func (s Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/applications", s.handleListApplications)
}

// GET /api/v1/applications[?since=YYYY-MM-DD]
func (s Service) handleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		apps []DevelopmentApplication
		err  error
	)
	since := r.URL.Query().Get("since")
	if since != "" {
		if _, parseErr := time.Parse(time.DateOnly, since); parseErr != nil {
			http.Error(w, "since must be formatted YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		apps, err = s.store.ListSince(ctx, since)
	} else {
		apps, err = s.store.List(ctx)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to list applications", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	records := make([]feedRecord, len(apps))
	for i, app := range apps {
		records[i] = feedRecord{
			CouncilReference: app.CouncilReference,
			Address:          app.Address,
			Description:      app.Description,
			InfoUrl:          app.InfoUrl,
			CommentUrl:       app.CommentUrl,
			DateScraped:      app.DateScraped,
			DateReceived:     app.DateReceived,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(records)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode feed response", "err", err)
	}
}
