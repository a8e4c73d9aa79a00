package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	diaryapp "github.com/sngm3741/makoto-diary/api/internal/diary/application"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
	ledgerapp "github.com/sngm3741/makoto-diary/api/internal/ledger/application"
	"github.com/sngm3741/makoto-diary/api/internal/platform/logging"
	profileapp "github.com/sngm3741/makoto-diary/api/internal/profile/application"
)

// Handler は日記作成・設定・売上カレンダー画面が使う JSON エンドポイント群。
type Handler struct {
	logger    *zap.Logger
	settings  profileapp.SettingsService
	diaries   diaryapp.DiaryService
	generator diaryapp.GenerateService
	calendar  ledgerapp.CalendarService
	validator *common.Validator
}

// Config は Handler の依存。
type Config struct {
	Logger    *zap.Logger
	Settings  profileapp.SettingsService
	Diaries   diaryapp.DiaryService
	Generator diaryapp.GenerateService
	Calendar  ledgerapp.CalendarService
}

// NewHandler は Handler を組み立てる。
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:    logging.OrNop(cfg.Logger),
		settings:  cfg.Settings,
		diaries:   cfg.Diaries,
		generator: cfg.Generator,
		calendar:  cfg.Calendar,
		validator: common.NewValidator(),
	}
}

// Register は全ルートを認証必須で登録する。
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Post("/generate", h.generateHandler())

		r.Get("/settings", h.settingsGetHandler())
		r.Put("/settings", h.settingsSaveHandler())
		r.Post("/settings/shops", h.shopAddHandler())
		r.Delete("/settings/shops/{index}", h.shopRemoveHandler())

		r.Get("/diaries", h.diaryListHandler())
		r.Post("/diaries", h.diaryCreateHandler())
		r.Get("/diaries/{id}", h.diaryDetailHandler())
		r.Delete("/diaries/{id}", h.diaryDeleteHandler())

		r.Get("/calendar", h.calendarMonthHandler())
		r.Get("/calendar/{date}", h.calendarDayHandler())
		r.Put("/calendar/{date}", h.calendarSaveHandler())
		r.Post("/sales/quote", h.quoteHandler())
	})
}

func (h *Handler) log(r *http.Request) *zap.Logger {
	return logging.FromContextOr(r.Context(), h.logger)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	common.WriteJSON(h.log(r), w, status, payload)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	common.WriteError(h.log(r), w, err)
}

// decode はボディを読み込んで検証する。失敗時はレスポンスを書いて false を返す。
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := common.DecodeJSON(r, dst); err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, common.ErrorResponse{Error: "リクエストボディが不正です"})
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.writeError(w, r, err)
		return false
	}
	return true
}

// shopIndexQuery は ?shopIndex= を読む。未指定は 0。
func shopIndexQuery(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("shopIndex")
	if raw == "" {
		return 0, true
	}
	return common.ParseIndex(raw, 0)
}

func (h *Handler) badShopIndex(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusBadRequest, common.ErrorResponse{Error: "店舗インデックスが不正です", Field: "shopIndex"})
}
