package mongo

import (
	"context"

	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/cache"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

// SettingsRepository は application.SettingsRepository の MongoDB 実装。ユーザー 1 人につき 1 ドキュメント。
type SettingsRepository struct {
	facade *Facade[SettingsDocument]
}

// NewSettingsRepository は userSettings コレクションを束縛したリポジトリを返す。
func NewSettingsRepository(collection Collection, c *cache.Cache, logger *zap.Logger) *SettingsRepository {
	return &SettingsRepository{facade: NewFacade[SettingsDocument](collection, c, logger, WithStringIDs())}
}

// FindByUser は保存済み設定を返す。未保存（またはオフラインでキャッシュ無し）なら nil。
func (r *SettingsRepository) FindByUser(ctx context.Context, userID string) (*profile.UserSettings, error) {
	doc, err := r.facade.Get(ctx, userID)
	if err != nil || doc == nil {
		return nil, err
	}
	settings := doc.toDomain()
	return &settings, nil
}

// Save は設定ドキュメントを丸ごと置き換える。
func (r *SettingsRepository) Save(ctx context.Context, settings profile.UserSettings) error {
	return r.facade.Upsert(ctx, settings.UserID, toSettingsDocument(settings))
}
