package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrGeneratorNotConfigured は生成 API の資格情報が無いときに返す。
	ErrGeneratorNotConfigured = errors.New("OpenAI API key is not configured")
	// ErrGenerationOffline は生成 API へ到達できないときに返す。
	ErrGenerationOffline = errors.New("generation endpoint unreachable")
)

// GenerationError は生成 API がエラー応答を返したことを表す。Message は提供元のメッセージ。
type GenerationError struct {
	Status  int
	Message string
}

func (e *GenerationError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("generation failed (%d): %s", e.Status, e.Message)
	}
	return "generation failed: " + e.Message
}

// Entry は日記 1 件。作成後は削除以外で変更しない。
type Entry struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	PostDate  string
	PostTime  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GeneratedPost は生成結果のタイトルと本文。
type GeneratedPost struct {
	Title   string
	Content string
}

// AppendEnding は本文の末尾に締めテンプレートを空行区切りで付ける。
func AppendEnding(content, ending string) string {
	ending = strings.TrimSpace(ending)
	if ending == "" {
		return content
	}
	content = strings.TrimRight(content, "\n ")
	if content == "" {
		return ending
	}
	return content + "\n\n" + ending
}
