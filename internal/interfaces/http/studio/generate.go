package studio

import (
	"net/http"

	diaryapp "github.com/sngm3741/makoto-diary/api/internal/diary/application"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
)

func (h *Handler) generateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		var req generateRequest
		if !h.decode(w, r, &req) {
			return
		}

		result, err := h.generator.Generate(r.Context(), diaryapp.GenerateCommand{
			UserID:        user.ID,
			Theme:         req.Theme,
			AutoTheme:     req.AutoTheme,
			Category:      req.Category,
			Tone:          req.Tone,
			CourseMinutes: req.CourseMinutes.String(),
			CustomerType:  req.CustomerType,
			OtherInfo:     req.OtherInfo,
			ShopIndex:     req.ShopIndex,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, generateResponse{
			Title:   result.Title,
			Content: result.Content,
			Theme:   result.Theme,
		})
	}
}
