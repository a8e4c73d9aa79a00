package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionNames は各コレクション名。
type CollectionNames struct {
	Settings   string
	Diaries    string
	Sales      string
	Attendance string
}

// EnsureIndexes は所有者検索と日付単位の置き換えに使うインデックスを作成する。既存なら何もしない。
func EnsureIndexes(ctx context.Context, db *mongo.Database, names CollectionNames) error {
	ownerIndex := mongo.IndexModel{Keys: bson.D{{Key: OwnerField, Value: 1}}}
	dayIndex := mongo.IndexModel{Keys: bson.D{
		{Key: OwnerField, Value: 1},
		{Key: "shopIndex", Value: 1},
		{Key: "date", Value: 1},
	}}

	plan := map[string][]mongo.IndexModel{
		names.Diaries:    {ownerIndex},
		names.Sales:      {ownerIndex, dayIndex},
		names.Attendance: {ownerIndex, dayIndex},
	}
	for collection, models := range plan {
		if collection == "" {
			continue
		}
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", collection, wrapError("ensureIndexes", err))
		}
	}
	return nil
}
