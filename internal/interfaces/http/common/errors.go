package common

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	diary "github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
)

const (
	MessageOffline           = "オフラインのため保存できませんでした。オンラインになったら再度お試しください。"
	MessageGenerationOffline = "オンライン接続が必要です"
	MessageNotFound          = "見つかりませんでした"
	MessageGenerationFailed  = "AI生成に失敗しました"
	MessageInternal          = "処理に失敗しました"
)

// ErrorResponse はエラー時のレスポンスボディ。
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// WriteError はエラー種別をステータスコードと日本語メッセージへ変換して書き出す。
func WriteError(logger *zap.Logger, w http.ResponseWriter, err error) {
	status, body := classify(err)
	if logger != nil {
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("リクエスト処理に失敗", zap.Int("status", status), zap.Error(err))
		case status != http.StatusNotFound:
			logger.Info("リクエストを受け付けませんでした", zap.Int("status", status), zap.Error(err))
		}
	}
	WriteJSON(logger, w, status, body)
}

func classify(err error) (int, ErrorResponse) {
	if validation, ok := apperr.AsValidation(err); ok {
		return http.StatusBadRequest, ErrorResponse{Error: validation.Message, Field: validation.Field}
	}
	var genErr *diary.GenerationError
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Error: MessageNotFound}
	case errors.Is(err, apperr.ErrOffline):
		return http.StatusServiceUnavailable, ErrorResponse{Error: MessageOffline}
	case errors.Is(err, diary.ErrGenerationOffline):
		return http.StatusServiceUnavailable, ErrorResponse{Error: MessageGenerationOffline}
	case errors.Is(err, diary.ErrGeneratorNotConfigured):
		return http.StatusInternalServerError, ErrorResponse{Error: diary.ErrGeneratorNotConfigured.Error()}
	case errors.As(err, &genErr):
		message := genErr.Message
		if message == "" {
			message = MessageGenerationFailed
		}
		return http.StatusInternalServerError, ErrorResponse{Error: message}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: MessageInternal}
}
