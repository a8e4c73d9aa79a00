package application

import (
	"context"

	"github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

// SettingsRepository はユーザー設定ドキュメントを読み書きするポート。
// FindByUser は未保存・オフラインかつキャッシュ無しのとき nil, nil を返す。
type SettingsRepository interface {
	FindByUser(ctx context.Context, userID string) (*domain.UserSettings, error)
	Save(ctx context.Context, settings domain.UserSettings) error
}

// SettingsService は設定画面のユースケース。
type SettingsService interface {
	Get(ctx context.Context, userID string) (domain.UserSettings, error)
	Save(ctx context.Context, settings domain.UserSettings) (domain.UserSettings, error)
	AddShop(ctx context.Context, userID string) (domain.UserSettings, error)
	RemoveShop(ctx context.Context, userID string, index int) (domain.UserSettings, error)
	ShopAt(ctx context.Context, userID string, index int) (domain.ShopProfile, error)
	ResolveShop(ctx context.Context, userID string, index *int) (*domain.ShopProfile, error)
	EndingTemplate(ctx context.Context, userID string, index int) (string, error)
}
