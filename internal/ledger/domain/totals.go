package domain

import (
	"sort"
	"strings"
)

// DailyTotal は指定日・指定店舗の保存済み金額を合計する。再計算はしない。
func DailyTotal(entries []SalesEntry, date string, shopIndex int) int {
	total := 0
	for _, entry := range entries {
		if entry.Date == date && entry.ShopIndex == shopIndex {
			total += entry.CalculatedAmount
		}
	}
	return total
}

// MonthlyTotal は month (YYYY-MM) で始まる日付の保存済み金額を合計する。
func MonthlyTotal(entries []SalesEntry, month string, shopIndex int) int {
	prefix := month + "-"
	total := 0
	for _, entry := range entries {
		if entry.ShopIndex == shopIndex && strings.HasPrefix(entry.Date, prefix) {
			total += entry.CalculatedAmount
		}
	}
	return total
}

// DailyTotals は月内の日付ごとの合計を返す。売上のない日は含めない。
func DailyTotals(entries []SalesEntry, month string, shopIndex int) map[string]int {
	prefix := month + "-"
	totals := make(map[string]int)
	for _, entry := range entries {
		if entry.ShopIndex != shopIndex || !strings.HasPrefix(entry.Date, prefix) {
			continue
		}
		totals[entry.Date] += entry.CalculatedAmount
	}
	return totals
}

// WorkDays は月内の出勤日を昇順で返す。
func WorkDays(entries []AttendanceEntry, month string, shopIndex int) []string {
	prefix := month + "-"
	seen := make(map[string]struct{})
	days := make([]string, 0)
	for _, entry := range entries {
		if !entry.IsWorkDay || entry.ShopIndex != shopIndex || !strings.HasPrefix(entry.Date, prefix) {
			continue
		}
		if _, ok := seen[entry.Date]; ok {
			continue
		}
		seen[entry.Date] = struct{}{}
		days = append(days, entry.Date)
	}
	sort.Strings(days)
	return days
}

// EntriesFor は指定日・指定店舗の明細を抜き出す。
func EntriesFor(entries []SalesEntry, date string, shopIndex int) []SalesEntry {
	result := make([]SalesEntry, 0)
	for _, entry := range entries {
		if entry.Date == date && entry.ShopIndex == shopIndex {
			result = append(result, entry)
		}
	}
	return result
}

// AttendanceFor は指定日・指定店舗の出勤記録を探す。
func AttendanceFor(entries []AttendanceEntry, date string, shopIndex int) (AttendanceEntry, bool) {
	for _, entry := range entries {
		if entry.Date == date && entry.ShopIndex == shopIndex {
			return entry, true
		}
	}
	return AttendanceEntry{}, false
}
