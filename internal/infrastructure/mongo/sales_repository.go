package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/cache"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
)

// SalesRepository は application.SalesRepository の MongoDB 実装。
type SalesRepository struct {
	facade     *Facade[SalesDocument]
	transactor *Transactor
}

// NewSalesRepository は sales コレクションを束縛する。transactor が nil なら置き換えは逐次実行。
func NewSalesRepository(collection Collection, c *cache.Cache, transactor *Transactor, logger *zap.Logger) *SalesRepository {
	return &SalesRepository{
		facade:     NewFacade[SalesDocument](collection, c, logger),
		transactor: transactor,
	}
}

func (r *SalesRepository) FindByOwner(ctx context.Context, userID string) ([]ledger.SalesEntry, error) {
	docs, err := r.facade.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries := make([]ledger.SalesEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, doc.toDomain())
	}
	return entries, nil
}

// ReplaceDay は (userId, shopIndex, date) の明細を削除してから entries を挿入する。
func (r *SalesRepository) ReplaceDay(ctx context.Context, userID string, shopIndex int, date string, entries []ledger.SalesEntry) error {
	filter := bson.M{OwnerField: userID, "shopIndex": shopIndex, "date": date}
	docs := make([]any, 0, len(entries))
	for _, entry := range entries {
		entry.UserID = userID
		entry.ShopIndex = shopIndex
		entry.Date = date
		docs = append(docs, toSalesDocument(entry))
	}

	return r.transactor.Run(ctx, "replaceSales", func(ctx context.Context) error {
		if _, err := r.facade.DeleteWhere(ctx, filter); err != nil {
			return err
		}
		_, err := r.facade.CreateMany(ctx, docs)
		return err
	})
}
