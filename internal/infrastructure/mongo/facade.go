package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OwnerField は所有者 ID の等価フィルタに使うフィールド名。
const OwnerField = "userId"

// Collection は Facade が使う *mongo.Collection の操作群。テストでは差し替える。
type Collection interface {
	Name() string
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type facadeConfig struct {
	stringIDs bool
	now       func() time.Time
}

// FacadeOption は Facade の挙動を調整する。
type FacadeOption func(*facadeConfig)

// WithStringIDs は _id に ObjectID ではなく任意文字列（ユーザー ID など）を使う。
func WithStringIDs() FacadeOption {
	return func(c *facadeConfig) { c.stringIDs = true }
}

// WithClock はタイムスタンプ採番に使う時計を差し替える。
func WithClock(now func() time.Time) FacadeOption {
	return func(c *facadeConfig) { c.now = now }
}

// Facade はコレクション 1 つに対する汎用 CRUD。
// 読み取りは接続エラー時にキャッシュへフォールバックし、キャッシュにも無ければ空結果を返す。
// 書き込みは接続エラーを apperr.ErrOffline として呼び出し元へ返す。
type Facade[T any] struct {
	collection Collection
	cache      *cache.Cache
	logger     *zap.Logger
	cfg        facadeConfig
}

// NewFacade はコレクションとキャッシュを束縛した Facade を返す。cache は nil でもよい。
func NewFacade[T any](collection Collection, c *cache.Cache, logger *zap.Logger, opts ...FacadeOption) *Facade[T] {
	cfg := facadeConfig{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&cfg)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Facade[T]{
		collection: collection,
		cache:      c,
		logger:     logger.With(zap.String("collection", collection.Name())),
		cfg:        cfg,
	}
}

// Create は createdAt/updatedAt を付与して挿入し、採番した ID を返す。
func (f *Facade[T]) Create(ctx context.Context, data any) (string, error) {
	doc, err := toMap(data)
	if err != nil {
		return "", err
	}
	id, err := f.assignID(doc)
	if err != nil {
		return "", err
	}
	now := f.cfg.now()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	if _, err := f.collection.InsertOne(ctx, doc); err != nil {
		return "", wrapError("create", err)
	}
	f.invalidateOwner(doc)
	return id, nil
}

// CreateMany は複数件をまとめて挿入する。
func (f *Facade[T]) CreateMany(ctx context.Context, items []any) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	now := f.cfg.now()
	docs := make([]interface{}, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		doc, err := toMap(item)
		if err != nil {
			return nil, err
		}
		id, err := f.assignID(doc)
		if err != nil {
			return nil, err
		}
		doc["createdAt"] = now
		doc["updatedAt"] = now
		docs = append(docs, doc)
		ids = append(ids, id)
	}
	if _, err := f.collection.InsertMany(ctx, docs); err != nil {
		return nil, wrapError("createMany", err)
	}
	for _, doc := range docs {
		f.invalidateOwner(doc.(bson.M))
	}
	return ids, nil
}

// Get は ID で 1 件取得する。存在しない場合と接続不可かつキャッシュ無しの場合は nil, nil。
func (f *Facade[T]) Get(ctx context.Context, id string) (*T, error) {
	filter, ok := f.idFilter(id)
	if !ok {
		return nil, nil
	}

	raw, err := f.collection.FindOne(ctx, filter).Raw()
	switch {
	case err == nil:
		f.cache.Put(f.idKey(id), raw)
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, nil
	case isConnectivityError(err):
		cached, hit := f.cache.Get(f.idKey(id))
		if !hit {
			f.logger.Warn("ストアに接続できずキャッシュにも存在しません", zap.String("id", id), zap.Error(err))
			return nil, nil
		}
		f.logger.Info("オフラインのためキャッシュから読み込みました", zap.String("id", id))
		raw = cached
	default:
		return nil, wrapError("get", err)
	}

	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, wrapError("decode", err)
	}
	return &doc, nil
}

type cachedList struct {
	Items []bson.Raw `bson:"items"`
}

// FindByOwner は userId が一致する全件を返す。接続不可ならキャッシュ、それも無ければ空スライス。
func (f *Facade[T]) FindByOwner(ctx context.Context, userID string) ([]T, error) {
	raws, err := f.findRaw(ctx, bson.M{OwnerField: userID})
	key := f.ownerKey(userID)
	switch {
	case err == nil:
		if encoded, encErr := bson.Marshal(cachedList{Items: raws}); encErr == nil {
			f.cache.Put(key, encoded)
		}
	case isConnectivityError(err):
		cached, hit := f.cache.Get(key)
		if !hit {
			f.logger.Warn("ストアに接続できずキャッシュにも存在しません", zap.String("userId", userID), zap.Error(err))
			return []T{}, nil
		}
		var list cachedList
		if err := bson.Unmarshal(cached, &list); err != nil {
			return []T{}, nil
		}
		f.logger.Info("オフラインのためキャッシュから一覧を読み込みました", zap.String("userId", userID))
		raws = list.Items
	default:
		return nil, wrapError("findByOwner", err)
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var doc T
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, wrapError("decode", err)
		}
		items = append(items, doc)
	}
	return items, nil
}

func (f *Facade[T]) findRaw(ctx context.Context, filter bson.M) ([]bson.Raw, error) {
	cursor, err := f.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	raws := make([]bson.Raw, 0)
	for cursor.Next(ctx) {
		raws = append(raws, append(bson.Raw(nil), cursor.Current...))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return raws, nil
}

// Update は fields を $set でマージし updatedAt を更新する。対象が無ければ ErrNotFound。
func (f *Facade[T]) Update(ctx context.Context, id string, fields bson.M) error {
	filter, ok := f.idFilter(id)
	if !ok {
		return notFoundError("update")
	}
	set := bson.M{}
	for key, value := range fields {
		if key == "_id" || key == "createdAt" {
			continue
		}
		set[key] = value
	}
	set["updatedAt"] = f.cfg.now()

	result, err := f.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return wrapError("update", err)
	}
	f.invalidate(id)
	if result.MatchedCount == 0 {
		return notFoundError("update")
	}
	return nil
}

// Upsert は ID 指定でドキュメント全体を保存する。初回のみ createdAt を設定する。
func (f *Facade[T]) Upsert(ctx context.Context, id string, data any) error {
	filter, ok := f.idFilter(id)
	if !ok {
		return notFoundError("upsert")
	}
	doc, err := toMap(data)
	if err != nil {
		return err
	}
	delete(doc, "_id")
	delete(doc, "createdAt")
	now := f.cfg.now()
	doc["updatedAt"] = now

	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if _, err := f.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return wrapError("upsert", err)
	}
	f.invalidate(id)
	return nil
}

// Delete は ID で 1 件削除する。対象が無ければ ErrNotFound。
func (f *Facade[T]) Delete(ctx context.Context, id string) error {
	filter, ok := f.idFilter(id)
	if !ok {
		return notFoundError("delete")
	}
	result, err := f.collection.DeleteOne(ctx, filter)
	if err != nil {
		return wrapError("delete", err)
	}
	f.invalidate(id)
	if result.DeletedCount == 0 {
		return notFoundError("delete")
	}
	return nil
}

// DeleteWhere は filter に一致するドキュメントを全て削除し件数を返す。
func (f *Facade[T]) DeleteWhere(ctx context.Context, filter bson.M) (int64, error) {
	result, err := f.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, wrapError("deleteMany", err)
	}
	f.cache.RemovePrefix(f.collection.Name() + ":")
	return result.DeletedCount, nil
}

func (f *Facade[T]) assignID(doc bson.M) (string, error) {
	if f.cfg.stringIDs {
		id, _ := doc["_id"].(string)
		if id == "" {
			return "", errors.New("_id is required for string-keyed collections")
		}
		return id, nil
	}
	id := primitive.NewObjectID()
	doc["_id"] = id
	return id.Hex(), nil
}

func (f *Facade[T]) idFilter(id string) (bson.M, bool) {
	if id == "" {
		return nil, false
	}
	if f.cfg.stringIDs {
		return bson.M{"_id": id}, true
	}
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": objectID}, true
}

func (f *Facade[T]) idKey(id string) string {
	return f.collection.Name() + ":id:" + id
}

func (f *Facade[T]) ownerKey(userID string) string {
	return f.collection.Name() + ":owner:" + userID
}

func (f *Facade[T]) invalidate(id string) {
	f.cache.Remove(f.idKey(id))
	f.cache.RemovePrefix(f.collection.Name() + ":owner:")
}

func (f *Facade[T]) invalidateOwner(doc bson.M) {
	if owner, ok := doc[OwnerField].(string); ok {
		f.cache.Remove(f.ownerKey(owner))
	}
}

func toMap(data any) (bson.M, error) {
	if m, ok := data.(bson.M); ok {
		copied := make(bson.M, len(m))
		for k, v := range m {
			copied[k] = v
		}
		return copied, nil
	}
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
