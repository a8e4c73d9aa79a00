package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
	"github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

type settingsService struct {
	repo SettingsRepository
}

// NewSettingsService は SettingsService の実装を返す。
func NewSettingsService(repo SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// Get は保存済み設定を正規化して返す。未保存なら空店舗 1 件の既定値。
func (s *settingsService) Get(ctx context.Context, userID string) (domain.UserSettings, error) {
	if strings.TrimSpace(userID) == "" {
		return domain.UserSettings{}, apperr.Invalid("ユーザーが特定できません")
	}
	stored, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, err
	}
	if stored == nil {
		return domain.DefaultUserSettings(userID), nil
	}
	settings := stored.Normalize()
	settings.UserID = userID
	return settings, nil
}

// Save は入力を正規化して丸ごと保存する。
func (s *settingsService) Save(ctx context.Context, settings domain.UserSettings) (domain.UserSettings, error) {
	if strings.TrimSpace(settings.UserID) == "" {
		return domain.UserSettings{}, apperr.Invalid("ユーザーが特定できません")
	}
	normalized := settings.Normalize()
	if err := s.repo.Save(ctx, normalized); err != nil {
		return domain.UserSettings{}, err
	}
	return normalized, nil
}

func (s *settingsService) AddShop(ctx context.Context, userID string) (domain.UserSettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, err
	}
	settings.AddShop()
	return s.Save(ctx, settings)
}

func (s *settingsService) RemoveShop(ctx context.Context, userID string, index int) (domain.UserSettings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, err
	}
	if err := settings.RemoveShop(index); err != nil {
		if errors.Is(err, domain.ErrShopIndexOutOfRange) {
			return domain.UserSettings{}, apperr.ErrNotFound
		}
		return domain.UserSettings{}, apperr.Invalid(err.Error())
	}
	return s.Save(ctx, settings)
}

// ShopAt は index の店舗を返す。存在しなければ ValidationError。
func (s *settingsService) ShopAt(ctx context.Context, userID string, index int) (domain.ShopProfile, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return domain.ShopProfile{}, err
	}
	shop, err := settings.ShopAt(index)
	if err != nil {
		return domain.ShopProfile{}, apperr.Invalid(err.Error())
	}
	return shop, nil
}

// ResolveShop は明示指定または選択中の店舗を返す。設定が未保存なら nil。
func (s *settingsService) ResolveShop(ctx context.Context, userID string, index *int) (*domain.ShopProfile, error) {
	stored, err := s.repo.FindByUser(ctx, userID)
	if err != nil || stored == nil {
		return nil, err
	}
	shop, ok := stored.Normalize().ResolveShop(index)
	if !ok {
		return nil, nil
	}
	return &shop, nil
}

// EndingTemplate は締めテンプレートを返す。
func (s *settingsService) EndingTemplate(ctx context.Context, userID string, index int) (string, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	template, ok := settings.EndingTemplate(index)
	if !ok {
		return "", apperr.Invalid("締めテンプレートが見つかりません")
	}
	return template, nil
}
