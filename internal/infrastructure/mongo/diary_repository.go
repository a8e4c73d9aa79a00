package mongo

import (
	"context"

	"go.uber.org/zap"

	diary "github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/cache"
)

// DiaryRepository は application.DiaryRepository の MongoDB 実装。
type DiaryRepository struct {
	facade *Facade[DiaryDocument]
}

func NewDiaryRepository(collection Collection, c *cache.Cache, logger *zap.Logger) *DiaryRepository {
	return &DiaryRepository{facade: NewFacade[DiaryDocument](collection, c, logger)}
}

func (r *DiaryRepository) Create(ctx context.Context, entry diary.Entry) (string, error) {
	return r.facade.Create(ctx, toDiaryDocument(entry))
}

func (r *DiaryRepository) Get(ctx context.Context, id string) (*diary.Entry, error) {
	doc, err := r.facade.Get(ctx, id)
	if err != nil || doc == nil {
		return nil, err
	}
	entry := doc.toDomain()
	return &entry, nil
}

func (r *DiaryRepository) FindByOwner(ctx context.Context, userID string) ([]diary.Entry, error) {
	docs, err := r.facade.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]diary.Entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, doc.toDomain())
	}
	return entries, nil
}

func (r *DiaryRepository) Delete(ctx context.Context, id string) error {
	return r.facade.Delete(ctx, id)
}
