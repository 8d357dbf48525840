package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/chris/standup/internal/tracker"
)

type createEntryRequest struct {
	Text string     `json:"text" validate:"required,max=4000"`
	At   *time.Time `json:"at,omitempty"`
}

type updateEntryRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type updateSummaryRequest struct {
	Content string `json:"content" validate:"required"`
}

type setProviderRequest struct {
	Provider string `json:"provider" validate:"required"`
}

type setDirRequest struct {
	Dir string `json:"dir" validate:"required"`
}

// summaryResponse is returned by the summarize endpoints. Saved is false
// when Text is a diagnostic instead of a summary.
type summaryResponse struct {
	Day      string `json:"day"`
	Provider string `json:"provider"`
	Text     string `json:"text"`
	Status   string `json:"status"`
	Saved    bool   `json:"saved"`
}

func (rt *Router) createEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if !rt.decode(w, r, &req) {
		return
	}
	var at time.Time
	if req.At != nil {
		at = *req.At
	}
	e, err := rt.tracker.Record(r.Context(), req.Text, at)
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (rt *Router) todayEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := rt.tracker.Entries(r.Context(), rt.tracker.Today())
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (rt *Router) listDays(w http.ResponseWriter, r *http.Request) {
	days, err := rt.tracker.Days(r.Context())
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (rt *Router) dayEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := rt.tracker.Entries(r.Context(), chi.URLParam(r, "day"))
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (rt *Router) updateEntry(w http.ResponseWriter, r *http.Request) {
	index, ok := entryIndex(w, r)
	if !ok {
		return
	}
	var req updateEntryRequest
	if !rt.decode(w, r, &req) {
		return
	}
	if err := rt.tracker.UpdateEntry(r.Context(), chi.URLParam(r, "day"), index, req.Text); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) deleteEntry(w http.ResponseWriter, r *http.Request) {
	index, ok := entryIndex(w, r)
	if !ok {
		return
	}
	if err := rt.tracker.DeleteEntry(r.Context(), chi.URLParam(r, "day"), index); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) summarizeDay(w http.ResponseWriter, r *http.Request) {
	rt.summarize(w, r, chi.URLParam(r, "day"))
}

func (rt *Router) summarizeToday(w http.ResponseWriter, r *http.Request) {
	rt.summarize(w, r, rt.tracker.Today())
}

func (rt *Router) summarize(w http.ResponseWriter, r *http.Request, day string) {
	out, err := rt.tracker.SummarizeDay(r.Context(), day, tracker.JobManual)
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{
		Day:      out.Day,
		Provider: out.Provider,
		Text:     out.Text,
		Status:   out.Status,
		Saved:    out.Saved(),
	})
}

func (rt *Router) listSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := rt.tracker.Summaries(r.Context())
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (rt *Router) getSummary(w http.ResponseWriter, r *http.Request) {
	day := chi.URLParam(r, "day")
	content, ok, err := rt.tracker.Summary(r.Context(), day)
	if err != nil {
		rt.fail(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no summary for "+day)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"day": day, "content": content})
}

func (rt *Router) updateSummary(w http.ResponseWriter, r *http.Request) {
	var req updateSummaryRequest
	if !rt.decode(w, r, &req) {
		return
	}
	if err := rt.tracker.UpdateSummary(r.Context(), chi.URLParam(r, "day"), req.Content); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) deleteSummary(w http.ResponseWriter, r *http.Request) {
	if err := rt.tracker.DeleteSummary(r.Context(), chi.URLParam(r, "day")); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) listProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := rt.tracker.Providers(r.Context())
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, providers)
}

func (rt *Router) setProvider(w http.ResponseWriter, r *http.Request) {
	var req setProviderRequest
	if !rt.decode(w, r, &req) {
		return
	}
	if err := rt.tracker.SetProvider(r.Context(), req.Provider); err != nil {
		rt.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) getDir(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"dir": rt.tracker.BaseDir(r.Context())})
}

func (rt *Router) setDir(w http.ResponseWriter, r *http.Request) {
	var req setDirRequest
	if !rt.decode(w, r, &req) {
		return
	}
	if err := rt.tracker.SetBaseDir(r.Context(), req.Dir); err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"dir": rt.tracker.BaseDir(r.Context())})
}

func (rt *Router) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := rt.tracker.Runs(r.Context(), limit)
	if err != nil {
		rt.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func entryIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "entry index must be an integer")
		return 0, false
	}
	return index, true
}
