package application

import (
	"context"

	"github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

// DiaryRepository は日記の永続化ポート。
type DiaryRepository interface {
	Create(ctx context.Context, entry domain.Entry) (string, error)
	Get(ctx context.Context, id string) (*domain.Entry, error)
	FindByOwner(ctx context.Context, userID string) ([]domain.Entry, error)
	Delete(ctx context.Context, id string) error
}

// ProfileLookup は店舗設定と締めテンプレートの参照元。profile の SettingsService が満たす。
type ProfileLookup interface {
	ResolveShop(ctx context.Context, userID string, requested *int) (*profile.ShopProfile, error)
	EndingTemplate(ctx context.Context, userID string, index int) (string, error)
}

// Generator は外部の文章生成 API。
type Generator interface {
	Generate(ctx context.Context, system, user, theme string) (domain.GeneratedPost, error)
}

// CreateDiaryCommand は日記作成の入力。PostDate / PostTime が空なら現在時刻で補う。
type CreateDiaryCommand struct {
	UserID              string
	Title               string
	Content             string
	PostDate            string
	PostTime            string
	EndingTemplateIndex *int
}

// GenerateCommand は AI 生成の入力。
type GenerateCommand struct {
	UserID        string
	Theme         string
	AutoTheme     bool
	Category      string
	Tone          string
	CourseMinutes string
	CustomerType  string
	OtherInfo     string
	ShopIndex     *int
}

// GenerateResult は生成結果。Theme は実際に使ったテーマ（おまかせ時は空の場合がある）。
type GenerateResult struct {
	Title   string
	Content string
	Theme   string
}

// DiaryService は日記の作成・一覧・詳細・削除。
type DiaryService interface {
	Create(ctx context.Context, cmd CreateDiaryCommand) (domain.Entry, error)
	List(ctx context.Context, userID string) ([]domain.Entry, error)
	Detail(ctx context.Context, userID, id string) (domain.Entry, error)
	Delete(ctx context.Context, userID, id string) error
}

// GenerateService は設定とフォーム入力からプロンプトを組み立てて生成する。
type GenerateService interface {
	Generate(ctx context.Context, cmd GenerateCommand) (GenerateResult, error)
}
