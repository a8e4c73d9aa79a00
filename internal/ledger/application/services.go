package application

import (
	"context"

	"github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

// SalesRepository は売上明細のポート。
type SalesRepository interface {
	FindByOwner(ctx context.Context, userID string) ([]domain.SalesEntry, error)
	// ReplaceDay は日付・店舗の明細を全て削除してから entries を挿入する。
	ReplaceDay(ctx context.Context, userID string, shopIndex int, date string, entries []domain.SalesEntry) error
}

// AttendanceRepository は出勤日のポート。
type AttendanceRepository interface {
	FindByOwner(ctx context.Context, userID string) ([]domain.AttendanceEntry, error)
	Create(ctx context.Context, entry domain.AttendanceEntry) (string, error)
	SetWorkDay(ctx context.Context, id string, isWorkDay bool) error
	Delete(ctx context.Context, id string) error
}

// ShopLookup は店舗設定の参照元。profile の SettingsService が満たす。
type ShopLookup interface {
	ShopAt(ctx context.Context, userID string, index int) (profile.ShopProfile, error)
}

// MonthView はカレンダー 1 か月分の表示内容。
type MonthView struct {
	Month        string
	ShopIndex    int
	DailyTotals  map[string]int
	WorkDays     []string
	MonthlyTotal int
}

// DayView は 1 日分の明細と出勤状態。
type DayView struct {
	Date       string
	ShopIndex  int
	Entries    []domain.SalesEntry
	IsWorkDay  bool
	DailyTotal int
}

// SaveDayCommand は日付モーダルの保存入力。
type SaveDayCommand struct {
	UserID    string
	ShopIndex int
	Date      string
	Items     []domain.LineItem
	IsWorkDay bool
}

// SaveDayResult は保存結果と表示メッセージ。
type SaveDayResult struct {
	Message    string
	Entries    []domain.SalesEntry
	IsWorkDay  bool
	DailyTotal int
}

// QuoteQuery は明細 1 行の試算入力。
type QuoteQuery struct {
	UserID        string
	ShopIndex     int
	CourseMinutes int
	Tier          profile.CommissionTier
	Count         int
}

// QuoteResult は試算結果と内訳。
type QuoteResult struct {
	BaseRate       int
	TierFee        int
	MiscFeePercent float64
	Amount         int
}

// CalendarService は売上カレンダーのユースケース。
type CalendarService interface {
	Month(ctx context.Context, userID, month string, shopIndex int) (MonthView, error)
	Day(ctx context.Context, userID, date string, shopIndex int) (DayView, error)
	SaveDay(ctx context.Context, cmd SaveDayCommand) (SaveDayResult, error)
	Quote(ctx context.Context, query QuoteQuery) (QuoteResult, error)
}
