package domain

import (
	"fmt"
	"strings"
)

// ShopProfile は 1 店舗分の在籍設定。プロンプト組み立てと売上計算の両方が参照する。
type ShopProfile struct {
	StageName       string
	Catchphrase     string
	Industry        Industry
	ShopName        string
	Courses         []string
	PriceRange      PriceRange
	Concept         string
	Personalities   []string
	Traits          []string
	ServiceStyle    string
	NGWords         []string
	TargetCustomers string
	Hobbies         []string
	Specialties     []string
	RecentInterests []string
	PreferredGifts  []string
	WorkStart       string
	WorkEnd         string
	Fees            Fees
	Rates           RateTable
	MiscFeePercent  float64
}

// DisplayName は店舗名→源氏名→「店舗N」の順で表示名を決める。position は 0 始まり。
func (s ShopProfile) DisplayName(position int) string {
	if name := strings.TrimSpace(s.ShopName); name != "" {
		return name
	}
	if name := strings.TrimSpace(s.StageName); name != "" {
		return name
	}
	return fmt.Sprintf("店舗%d", position+1)
}

// HasWorkHours は出勤時間のどちらかが設定されているかを返す。
func (s ShopProfile) HasWorkHours() bool {
	return strings.TrimSpace(s.WorkStart) != "" || strings.TrimSpace(s.WorkEnd) != ""
}

// Normalize は前後の空白や空要素を取り除いたコピーを返す。
func (s ShopProfile) Normalize() ShopProfile {
	s.StageName = strings.TrimSpace(s.StageName)
	s.Catchphrase = strings.TrimSpace(s.Catchphrase)
	s.ShopName = strings.TrimSpace(s.ShopName)
	s.Concept = strings.TrimSpace(s.Concept)
	s.ServiceStyle = strings.TrimSpace(s.ServiceStyle)
	s.TargetCustomers = strings.TrimSpace(s.TargetCustomers)
	s.WorkStart = strings.TrimSpace(s.WorkStart)
	s.WorkEnd = strings.TrimSpace(s.WorkEnd)
	s.Courses = cleanList(s.Courses)
	s.Personalities = cleanList(s.Personalities)
	s.Traits = cleanList(s.Traits)
	s.NGWords = cleanList(s.NGWords)
	s.Hobbies = cleanList(s.Hobbies)
	s.Specialties = cleanList(s.Specialties)
	s.RecentInterests = cleanList(s.RecentInterests)
	s.PreferredGifts = cleanList(s.PreferredGifts)
	if s.MiscFeePercent < 0 {
		s.MiscFeePercent = 0
	}
	return s
}

func cleanList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		result = append(result, value)
	}
	return result
}
