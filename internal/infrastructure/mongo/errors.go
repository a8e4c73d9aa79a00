package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/x/mongo/driver/topology"
)

// Error はドキュメントストアのエラーに操作名と分類を付与する。
type Error struct {
	op          string
	err         error
	notFound    bool
	unavailable bool
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.op != "" {
		return fmt.Sprintf("%s: %v", e.op, e.err)
	}
	return e.err.Error()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Is は分類に応じて apperr の番兵エラーと一致させる。
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case apperr.ErrOffline:
		return e.unavailable
	case apperr.ErrNotFound:
		return e.notFound
	}
	return false
}

// IsUnavailable はストアへ到達できなかったかを返す。
func (e *Error) IsUnavailable() bool {
	return e != nil && e.unavailable
}

// IsNotFound は対象ドキュメントが存在しなかったかを返す。
func (e *Error) IsNotFound() bool {
	return e != nil && e.notFound
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr
	}
	return &Error{
		op:          op,
		err:         err,
		notFound:    errors.Is(err, mongo.ErrNoDocuments),
		unavailable: isConnectivityError(err),
	}
}

func notFoundError(op string) error {
	return &Error{op: op, err: mongo.ErrNoDocuments, notFound: true}
}

// isConnectivityError はネットワーク断・タイムアウト・サーバー選択失敗を接続エラーとみなす。
func isConnectivityError(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	if errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var selection topology.ServerSelectionError
	return errors.As(err, &selection)
}

// isTransactionUnsupported はスタンドアロン構成でトランザクションが拒否されたかを返す。
func isTransactionUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == 20 {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
