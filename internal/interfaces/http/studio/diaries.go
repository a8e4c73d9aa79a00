package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	diaryapp "github.com/sngm3741/makoto-diary/api/internal/diary/application"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
)

func (h *Handler) diaryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		entries, err := h.diaries.List(r.Context(), user.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		items := make([]diaryResponse, 0, len(entries))
		for _, entry := range entries {
			items = append(items, newDiaryResponse(entry))
		}
		h.writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
	}
}

func (h *Handler) diaryCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		var req createDiaryRequest
		if !h.decode(w, r, &req) {
			return
		}
		entry, err := h.diaries.Create(r.Context(), diaryapp.CreateDiaryCommand{
			UserID:              user.ID,
			Title:               req.Title,
			Content:             req.Content,
			PostDate:            req.PostDate,
			PostTime:            req.PostTime,
			EndingTemplateIndex: req.EndingTemplateIndex,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusCreated, newDiaryResponse(entry))
	}
}

func (h *Handler) diaryDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		entry, err := h.diaries.Detail(r.Context(), user.ID, chi.URLParam(r, "id"))
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, newDiaryResponse(entry))
	}
}

func (h *Handler) diaryDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		if err := h.diaries.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
			h.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
