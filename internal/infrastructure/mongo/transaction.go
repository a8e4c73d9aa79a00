package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// SessionStarter は *mongo.Client のセッション生成部分。
type SessionStarter interface {
	StartSession(opts ...*options.SessionOptions) (mongo.Session, error)
}

// Transactor は複数ドキュメントの書き込みをトランザクションで束ねる。
// レプリカセットでない環境では逐次実行へ切り替え、途中失敗の窓が残ることをログに残す。
type Transactor struct {
	sessions SessionStarter
	logger   *zap.Logger
}

// NewTransactor は sessions が nil なら常に逐次実行する Transactor を返す。
func NewTransactor(sessions SessionStarter, logger *zap.Logger) *Transactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transactor{sessions: sessions, logger: logger}
}

// Run は fn をトランザクション内で実行する。
func (t *Transactor) Run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if t == nil || t.sessions == nil {
		return fn(ctx)
	}

	session, err := t.sessions.StartSession()
	if err != nil {
		if isConnectivityError(err) {
			return wrapError(op, err)
		}
		t.logger.Warn("セッションを開始できないため逐次書き込みに切り替えます", zap.String("op", op), zap.Error(err))
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err == nil {
		return nil
	}
	if isTransactionUnsupported(err) {
		t.logger.Warn("トランザクション非対応のため逐次書き込みに切り替えます。削除と挿入の間で失敗すると明細が失われます",
			zap.String("op", op))
		return fn(ctx)
	}
	return wrapError(op, err)
}
