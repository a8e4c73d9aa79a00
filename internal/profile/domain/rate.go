package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	minutesPattern = regexp.MustCompile(`(\d+)\s*分`)
	pricePattern   = regexp.MustCompile(`\|\s*([\d,]+)`)
)

// Rate はバック料金表 1 行分。Label は入力された文字列をそのまま保持する。
type Rate struct {
	Label   string
	Minutes int
	Price   int
}

// Valid はコース時間と料金の両方が読み取れたかを返す。
func (r Rate) Valid() bool {
	return r.Minutes > 0 && r.Price > 0
}

// String は "60分 | 10,000円" 形式の表示文字列を返す。
func (r Rate) String() string {
	if !r.Valid() {
		return r.Label
	}
	return fmt.Sprintf("%d分 | %s円", r.Minutes, FormatYen(r.Price))
}

// ParseRate は自由入力の料金文字列からコース時間と料金を読み取る。
// 読み取れない部分は 0 のまま返し、エラーにはしない。
func ParseRate(raw string) Rate {
	rate := Rate{Label: strings.TrimSpace(raw)}
	normalized := normalizeDigits(raw)

	loc := minutesPattern.FindStringSubmatchIndex(normalized)
	if loc == nil {
		return rate
	}
	minutes, err := strconv.Atoi(normalized[loc[2]:loc[3]])
	if err != nil {
		return rate
	}
	rate.Minutes = minutes

	rest := normalized[loc[1]:]
	match := pricePattern.FindStringSubmatch(rest)
	if match == nil {
		return rate
	}
	price, err := strconv.Atoi(strings.ReplaceAll(match[1], ",", ""))
	if err != nil {
		return rate
	}
	rate.Price = price
	return rate
}

// ParseRatePrice は料金文字列のコース時間が minutes と一致する場合に料金を返す。
// 一致しない・読み取れない場合は 0。
func ParseRatePrice(raw string, minutes string) int {
	target, err := strconv.Atoi(strings.TrimSpace(normalizeDigits(minutes)))
	if err != nil || target <= 0 {
		return 0
	}
	rate := ParseRate(raw)
	if rate.Minutes != target {
		return 0
	}
	return rate.Price
}

// RateTable は店舗ごとのバック料金表。
type RateTable []Rate

// NewRateTable は入力文字列の一覧を一度だけ解析して料金表にする。空行は捨てる。
func NewRateTable(raws []string) RateTable {
	table := make(RateTable, 0, len(raws))
	for _, raw := range raws {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		table = append(table, ParseRate(raw))
	}
	return table
}

// BaseRate はコース時間に一致する最初の行の料金を返す。
func (t RateTable) BaseRate(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	for _, rate := range t {
		if rate.Minutes == minutes {
			return rate.Price
		}
	}
	return 0
}

// Labels は表示用の文字列一覧を返す。
func (t RateTable) Labels() []string {
	labels := make([]string, 0, len(t))
	for _, rate := range t {
		if rate.Label != "" {
			labels = append(labels, rate.Label)
			continue
		}
		labels = append(labels, rate.String())
	}
	return labels
}

// CourseMinutes は料金表に登場するコース時間を重複なく返す。
func (t RateTable) CourseMinutes() []int {
	seen := make(map[int]struct{})
	result := make([]int, 0, len(t))
	for _, rate := range t {
		if rate.Minutes <= 0 {
			continue
		}
		if _, ok := seen[rate.Minutes]; ok {
			continue
		}
		seen[rate.Minutes] = struct{}{}
		result = append(result, rate.Minutes)
	}
	return result
}
