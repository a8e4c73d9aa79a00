package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/cache"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
)

// AttendanceRepository は application.AttendanceRepository の MongoDB 実装。
type AttendanceRepository struct {
	facade *Facade[AttendanceDocument]
}

func NewAttendanceRepository(collection Collection, c *cache.Cache, logger *zap.Logger) *AttendanceRepository {
	return &AttendanceRepository{facade: NewFacade[AttendanceDocument](collection, c, logger)}
}

func (r *AttendanceRepository) FindByOwner(ctx context.Context, userID string) ([]ledger.AttendanceEntry, error) {
	docs, err := r.facade.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]ledger.AttendanceEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, doc.toDomain())
	}
	return entries, nil
}

func (r *AttendanceRepository) Create(ctx context.Context, entry ledger.AttendanceEntry) (string, error) {
	return r.facade.Create(ctx, toAttendanceDocument(entry))
}

func (r *AttendanceRepository) SetWorkDay(ctx context.Context, id string, isWorkDay bool) error {
	return r.facade.Update(ctx, id, bson.M{"isWorkDay": isWorkDay})
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	return r.facade.Delete(ctx, id)
}
