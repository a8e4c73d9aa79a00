package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSales() []SalesEntry {
	return []SalesEntry{
		{ID: "1", ShopIndex: 0, Date: "2025-03-01", CalculatedAmount: 12000},
		{ID: "2", ShopIndex: 0, Date: "2025-03-01", CalculatedAmount: 8000},
		{ID: "3", ShopIndex: 1, Date: "2025-03-01", CalculatedAmount: 50000},
		{ID: "4", ShopIndex: 0, Date: "2025-03-15", CalculatedAmount: 21600},
		{ID: "5", ShopIndex: 0, Date: "2025-04-01", CalculatedAmount: 9999},
	}
}

func TestDailyAndMonthlyTotals(t *testing.T) {
	sales := sampleSales()

	assert.Equal(t, 20000, DailyTotal(sales, "2025-03-01", 0))
	assert.Equal(t, 50000, DailyTotal(sales, "2025-03-01", 1))
	assert.Zero(t, DailyTotal(sales, "2025-03-02", 0))

	assert.Equal(t, 41600, MonthlyTotal(sales, "2025-03", 0))
	assert.Equal(t, 9999, MonthlyTotal(sales, "2025-04", 0))

	totals := DailyTotals(sales, "2025-03", 0)
	assert.Equal(t, map[string]int{"2025-03-01": 20000, "2025-03-15": 21600}, totals)
}

func TestTotalsUseStoredAmounts(t *testing.T) {
	sales := []SalesEntry{{Date: "2025-03-01", CourseMinutes: 60, Count: 5, CalculatedAmount: 1}}
	assert.Equal(t, 1, DailyTotal(sales, "2025-03-01", 0))
}

func TestWorkDays(t *testing.T) {
	attendance := []AttendanceEntry{
		{Date: "2025-03-20", IsWorkDay: true},
		{Date: "2025-03-02", IsWorkDay: true},
		{Date: "2025-03-02", IsWorkDay: true},
		{Date: "2025-03-05", IsWorkDay: false},
		{Date: "2025-03-06", IsWorkDay: true, ShopIndex: 1},
		{Date: "2025-04-01", IsWorkDay: true},
	}
	assert.Equal(t, []string{"2025-03-02", "2025-03-20"}, WorkDays(attendance, "2025-03", 0))
}

func TestEntriesAndAttendanceFor(t *testing.T) {
	entries := EntriesFor(sampleSales(), "2025-03-01", 0)
	require.Len(t, entries, 2)

	_, ok := AttendanceFor(nil, "2025-03-01", 0)
	assert.False(t, ok)
	found, ok := AttendanceFor([]AttendanceEntry{{ID: "a", Date: "2025-03-01"}}, "2025-03-01", 0)
	assert.True(t, ok)
	assert.Equal(t, "a", found.ID)
}

func TestParseDateAndMonth(t *testing.T) {
	_, err := ParseDate("2025-03-01")
	assert.NoError(t, err)
	_, err = ParseDate("2025/03/01")
	assert.Error(t, err)
	_, err = ParseMonth("2025-13")
	assert.Error(t, err)

	assert.True(t, LineItem{CourseMinutes: 60, Tier: "free", Count: 1}.Complete())
	assert.False(t, LineItem{CourseMinutes: 60, Count: 1}.Complete())
}
