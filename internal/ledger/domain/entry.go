package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

const (
	// DateLayout は売上・出勤の日付キー形式。
	DateLayout = "2006-01-02"
	// MonthLayout は月表示の形式。
	MonthLayout = "2006-01"
)

// SalesEntry は 1 日・1 店舗の売上明細 1 行。
type SalesEntry struct {
	ID               string
	UserID           string
	ShopIndex        int
	Date             string
	CourseMinutes    int
	Tier             profile.CommissionTier
	Count            int
	CalculatedAmount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AttendanceEntry は出勤日フラグ。
type AttendanceEntry struct {
	ID        string
	UserID    string
	ShopIndex int
	Date      string
	IsWorkDay bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LineItem は保存前の入力 1 行。
type LineItem struct {
	CourseMinutes int
	Tier          profile.CommissionTier
	Count         int
}

// Complete はコース時間・指名区分・本数がすべて揃っているかを返す。
func (l LineItem) Complete() bool {
	return l.CourseMinutes > 0 && l.Tier != "" && l.Count > 0
}

// ParseDate は YYYY-MM-DD 形式を検証して time.Time を返す。
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("日付は YYYY-MM-DD 形式で指定してください: %w", err)
	}
	return parsed, nil
}

// ParseMonth は YYYY-MM 形式を検証して月初日を返す。
func ParseMonth(value string) (time.Time, error) {
	parsed, err := time.Parse(MonthLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, errors.New("月は YYYY-MM 形式で指定してください")
	}
	return parsed, nil
}
