package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

func (h *Handler) settingsGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		settings, err := h.settings.Get(r.Context(), user.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, newSettingsResponse(settings))
	}
}

// settingsSaveHandler は店舗一覧・選択中の店舗・締めテンプレートを丸ごと置き換える。
func (h *Handler) settingsSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		var req settingsRequest
		if !h.decode(w, r, &req) {
			return
		}

		shops := make([]profile.ShopProfile, 0, len(req.Shops))
		for i, payload := range req.Shops {
			shop, err := payload.toDomain(i)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			shops = append(shops, shop)
		}

		saved, err := h.settings.Save(r.Context(), profile.UserSettings{
			UserID:           user.ID,
			Shops:            shops,
			CurrentShopIndex: req.CurrentShopIndex,
			EndingTemplates:  req.EndingTemplates,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, map[string]any{
			"message":  "設定を保存しました",
			"settings": newSettingsResponse(saved),
		})
	}
}

func (h *Handler) shopAddHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		settings, err := h.settings.AddShop(r.Context(), user.ID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusCreated, newSettingsResponse(settings))
	}
}

func (h *Handler) shopRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		index, valid := common.ParseIndex(chi.URLParam(r, "index"), 0)
		if !valid {
			h.badShopIndex(w, r)
			return
		}
		settings, err := h.settings.RemoveShop(r.Context(), user.ID, index)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, newSettingsResponse(settings))
	}
}
