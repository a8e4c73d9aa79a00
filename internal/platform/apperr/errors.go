package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound はドキュメントが存在しない、または所有者が異なる場合に返す。
	ErrNotFound = errors.New("not found")
	// ErrOffline はドキュメントストアへ到達できない場合に返す。書き込み系はこれを呼び出し元へ伝播する。
	ErrOffline = errors.New("document store unreachable")
)

// ValidationError は入力不備をユーザー向けメッセージ付きで表す。ネットワーク呼び出し前に返す。
type ValidationError struct {
	Message string
	Field   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Invalid は ValidationError を生成する。
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// InvalidField はフィールド名付きの ValidationError を生成する。
func InvalidField(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation は err が ValidationError なら取り出す。
func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// IsOffline は err が接続不可を表すかを返す。
func IsOffline(err error) bool {
	return errors.Is(err, ErrOffline)
}
