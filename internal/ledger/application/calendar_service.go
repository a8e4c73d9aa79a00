package application

import (
	"context"
	"strings"
	"time"

	"github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
)

const (
	messageNothingToSave = "少なくとも1つの売上エントリーを入力するか、出勤日をチェックしてください"
	messageSavedBoth     = "売上と出勤日を保存しました"
	messageSavedSales    = "売上を保存しました"
	messageSavedWorkDay  = "出勤日を保存しました"
)

type calendarService struct {
	sales      SalesRepository
	attendance AttendanceRepository
	shops      ShopLookup
	now        func() time.Time
}

// NewCalendarService は CalendarService の実装を返す。
func NewCalendarService(sales SalesRepository, attendance AttendanceRepository, shops ShopLookup) CalendarService {
	return &calendarService{
		sales:      sales,
		attendance: attendance,
		shops:      shops,
		now:        time.Now,
	}
}

// Month は保存済み金額から日別・月間合計と出勤日を集計する。month が空なら当月。
func (s *calendarService) Month(ctx context.Context, userID, month string, shopIndex int) (MonthView, error) {
	month = strings.TrimSpace(month)
	if month == "" {
		month = s.now().Format(domain.MonthLayout)
	}
	if _, err := domain.ParseMonth(month); err != nil {
		return MonthView{}, apperr.InvalidField("month", err.Error())
	}

	sales, err := s.sales.FindByOwner(ctx, userID)
	if err != nil {
		return MonthView{}, err
	}
	attendance, err := s.attendance.FindByOwner(ctx, userID)
	if err != nil {
		return MonthView{}, err
	}

	return MonthView{
		Month:        month,
		ShopIndex:    shopIndex,
		DailyTotals:  domain.DailyTotals(sales, month, shopIndex),
		WorkDays:     domain.WorkDays(attendance, month, shopIndex),
		MonthlyTotal: domain.MonthlyTotal(sales, month, shopIndex),
	}, nil
}

func (s *calendarService) Day(ctx context.Context, userID, date string, shopIndex int) (DayView, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return DayView{}, apperr.InvalidField("date", err.Error())
	}
	sales, err := s.sales.FindByOwner(ctx, userID)
	if err != nil {
		return DayView{}, err
	}
	attendance, err := s.attendance.FindByOwner(ctx, userID)
	if err != nil {
		return DayView{}, err
	}

	entry, _ := domain.AttendanceFor(attendance, date, shopIndex)
	return DayView{
		Date:       date,
		ShopIndex:  shopIndex,
		Entries:    domain.EntriesFor(sales, date, shopIndex),
		IsWorkDay:  entry.IsWorkDay,
		DailyTotal: domain.DailyTotal(sales, date, shopIndex),
	}, nil
}

// SaveDay は入力済みの明細だけを残し、その日の明細を置き換えてから出勤日フラグを反映する。
// 明細も出勤日も無い入力はストアへ触れる前に弾く。
func (s *calendarService) SaveDay(ctx context.Context, cmd SaveDayCommand) (SaveDayResult, error) {
	if _, err := domain.ParseDate(cmd.Date); err != nil {
		return SaveDayResult{}, apperr.InvalidField("date", err.Error())
	}

	items := make([]domain.LineItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		if item.Complete() {
			items = append(items, item)
		}
	}
	if len(items) == 0 && !cmd.IsWorkDay {
		return SaveDayResult{}, apperr.Invalid(messageNothingToSave)
	}

	shop, err := s.shops.ShopAt(ctx, cmd.UserID, cmd.ShopIndex)
	if err != nil {
		return SaveDayResult{}, err
	}

	entries := make([]domain.SalesEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, domain.SalesEntry{
			UserID:           cmd.UserID,
			ShopIndex:        cmd.ShopIndex,
			Date:             cmd.Date,
			CourseMinutes:    item.CourseMinutes,
			Tier:             item.Tier,
			Count:            item.Count,
			CalculatedAmount: domain.Quote(shop, item.CourseMinutes, item.Tier, item.Count),
		})
	}
	if err := s.sales.ReplaceDay(ctx, cmd.UserID, cmd.ShopIndex, cmd.Date, entries); err != nil {
		return SaveDayResult{}, err
	}

	if err := s.saveAttendance(ctx, cmd); err != nil {
		return SaveDayResult{}, err
	}

	return SaveDayResult{
		Message:    saveMessage(len(entries) > 0, cmd.IsWorkDay),
		Entries:    entries,
		IsWorkDay:  cmd.IsWorkDay,
		DailyTotal: domain.DailyTotal(entries, cmd.Date, cmd.ShopIndex),
	}, nil
}

// saveAttendance は既存レコードがあれば更新または削除し、無ければチェック時のみ作成する。
func (s *calendarService) saveAttendance(ctx context.Context, cmd SaveDayCommand) error {
	existing, err := s.attendance.FindByOwner(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	current, found := domain.AttendanceFor(existing, cmd.Date, cmd.ShopIndex)
	switch {
	case found && cmd.IsWorkDay:
		return s.attendance.SetWorkDay(ctx, current.ID, true)
	case found:
		return s.attendance.Delete(ctx, current.ID)
	case cmd.IsWorkDay:
		_, err := s.attendance.Create(ctx, domain.AttendanceEntry{
			UserID:    cmd.UserID,
			ShopIndex: cmd.ShopIndex,
			Date:      cmd.Date,
			IsWorkDay: true,
		})
		return err
	}
	return nil
}

func saveMessage(hasSales, isWorkDay bool) string {
	switch {
	case hasSales && isWorkDay:
		return messageSavedBoth
	case hasSales:
		return messageSavedSales
	}
	return messageSavedWorkDay
}

// Quote は保存前の 1 行を店舗設定で試算する。コース時間か指名区分が未設定なら金額 0。
func (s *calendarService) Quote(ctx context.Context, query QuoteQuery) (QuoteResult, error) {
	shop, err := s.shops.ShopAt(ctx, query.UserID, query.ShopIndex)
	if err != nil {
		return QuoteResult{}, err
	}
	result := QuoteResult{
		MiscFeePercent: shop.MiscFeePercent,
		Amount:         domain.Quote(shop, query.CourseMinutes, query.Tier, query.Count),
	}
	if query.CourseMinutes > 0 {
		result.BaseRate = shop.Rates.BaseRate(query.CourseMinutes)
	}
	result.TierFee = shop.Fees.For(query.Tier)
	return result, nil
}
