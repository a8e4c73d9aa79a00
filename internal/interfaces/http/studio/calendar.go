package studio

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
	ledgerapp "github.com/sngm3741/makoto-diary/api/internal/ledger/application"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

func (h *Handler) calendarMonthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		shopIndex, valid := shopIndexQuery(r)
		if !valid {
			h.badShopIndex(w, r)
			return
		}
		view, err := h.calendar.Month(r.Context(), user.ID, r.URL.Query().Get("month"), shopIndex)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, newMonthResponse(view))
	}
}

func (h *Handler) calendarDayHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		shopIndex, valid := shopIndexQuery(r)
		if !valid {
			h.badShopIndex(w, r)
			return
		}
		view, err := h.calendar.Day(r.Context(), user.ID, chi.URLParam(r, "date"), shopIndex)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, dayResponse{
			Date:       view.Date,
			ShopIndex:  view.ShopIndex,
			Entries:    newSalesEntries(view.Entries),
			IsWorkDay:  view.IsWorkDay,
			DailyTotal: view.DailyTotal,
		})
	}
}

// calendarSaveHandler は日付モーダルの保存。その日の明細を置き換え、出勤日フラグを反映する。
func (h *Handler) calendarSaveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		var req saveDayRequest
		if !h.decode(w, r, &req) {
			return
		}
		items := make([]ledger.LineItem, 0, len(req.Entries))
		for _, entry := range req.Entries {
			items = append(items, entry.toDomain())
		}

		result, err := h.calendar.SaveDay(r.Context(), ledgerapp.SaveDayCommand{
			UserID:    user.ID,
			ShopIndex: req.ShopIndex,
			Date:      chi.URLParam(r, "date"),
			Items:     items,
			IsWorkDay: req.IsWorkDay,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, dayResponse{
			Date:       chi.URLParam(r, "date"),
			ShopIndex:  req.ShopIndex,
			Entries:    newSalesEntries(result.Entries),
			IsWorkDay:  result.IsWorkDay,
			DailyTotal: result.DailyTotal,
			Message:    result.Message,
		})
	}
}

func (h *Handler) quoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.RequireUser(h.log(r), w, r)
		if !ok {
			return
		}
		var req quoteRequest
		if !h.decode(w, r, &req) {
			return
		}
		minutes, err := strconv.Atoi(req.CourseMinutes.String())
		if err != nil || minutes < 0 {
			minutes = 0
		}
		tier, _ := profile.NewCommissionTier(req.NominationType)
		count := req.Count
		if count == 0 {
			count = 1
		}

		result, err := h.calendar.Quote(r.Context(), ledgerapp.QuoteQuery{
			UserID:        user.ID,
			ShopIndex:     req.ShopIndex,
			CourseMinutes: minutes,
			Tier:          tier,
			Count:         count,
		})
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusOK, quoteResponse{
			BaseRate:       result.BaseRate,
			NominationFee:  result.TierFee,
			MiscFeePercent: result.MiscFeePercent,
			Amount:         result.Amount,
		})
	}
}
