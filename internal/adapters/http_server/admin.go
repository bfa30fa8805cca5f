package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"cafe_finder/internal/app"
	"cafe_finder/internal/domain"
)

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.Q.Stats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, st)
}

func (h *Handlers) adminListCafes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cafes, err := h.Q.ManageCafes(r.Context(), q.Get("q"), q.Get("sortBy"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, map[string]any{"cafes": cafes, "total": len(cafes)})
}

func (h *Handlers) createCafe(w http.ResponseWriter, r *http.Request) {
	var in app.CafeInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := h.C.CreateCafe(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/cafes/"+c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handlers) updateCafe(w http.ResponseWriter, r *http.Request) {
	var p app.CafePatch
	if !decodeBody(w, r, &p) {
		return
	}
	c, err := h.C.UpdateCafe(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handlers) deleteCafe(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteCafe(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) adminListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rs, err := h.Q.ModerationQueue(r.Context(), q.Get("status"), q.Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, map[string]any{"reviews": rs, "total": len(rs)})
}

type moderation struct {
	Status domain.ReviewStatus `json:"status"`
}

func (h *Handlers) moderateReview(w http.ResponseWriter, r *http.Request) {
	var m moderation
	if !decodeBody(w, r, &m) {
		return
	}
	rv, err := h.C.ModerateReview(r.Context(), chi.URLParam(r, "id"), m.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rv)
}
