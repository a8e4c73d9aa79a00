package domain

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Industry は店舗の業種コード。
type Industry string

const (
	IndustryDelivery Industry = "delivery"
	IndustrySoap     Industry = "soap"
	IndustryNSSoap   Industry = "ns-soap"
)

var industryLabels = map[Industry]string{
	IndustryDelivery: "デリヘル",
	IndustrySoap:     "ソープ",
	IndustryNSSoap:   "NSソープ",
}

// NewIndustry は別名や日本語ラベルを正規のコードへ寄せる。空文字は未設定として許容する。
func NewIndustry(value string) (Industry, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	switch strings.ToLower(trimmed) {
	case "delivery", "deriheru", "delivery_health", "デリヘル":
		return IndustryDelivery, nil
	case "soap", "sopu", "ソープ", "ソープランド":
		return IndustrySoap, nil
	case "ns-soap", "ns_soap", "nssoap", "nsソープ":
		return IndustryNSSoap, nil
	}
	return "", fmt.Errorf("不正な業種です: %s", trimmed)
}

func (i Industry) String() string {
	return string(i)
}

// Label は画面・プロンプト表示用の日本語名を返す。
func (i Industry) Label() string {
	if label, ok := industryLabels[i]; ok {
		return label
	}
	return string(i)
}

// Known は 3 業種のいずれかであるかを返す。
func (i Industry) Known() bool {
	_, ok := industryLabels[i]
	return ok
}

// PriceRange は価格帯タグ。
type PriceRange string

const (
	PriceRangeLow    PriceRange = "low"
	PriceRangeMedium PriceRange = "medium"
	PriceRangeHigh   PriceRange = "high"
)

func NewPriceRange(value string) (PriceRange, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch PriceRange(trimmed) {
	case "":
		return "", nil
	case PriceRangeLow, PriceRangeMedium, PriceRangeHigh:
		return PriceRange(trimmed), nil
	}
	return "", fmt.Errorf("不正な価格帯です: %s", value)
}

func (p PriceRange) Label() string {
	switch p {
	case PriceRangeLow:
		return "低"
	case PriceRangeMedium:
		return "中"
	case PriceRangeHigh:
		return "高"
	}
	return string(p)
}

// CommissionTier は指名区分（フリー・パネル・ネット・本指名）。
type CommissionTier string

const (
	TierFree   CommissionTier = "free"
	TierPanel  CommissionTier = "panel"
	TierNet    CommissionTier = "net"
	TierDirect CommissionTier = "direct"
)

// AllTiers は表示順の指名区分一覧。
var AllTiers = []CommissionTier{TierFree, TierPanel, TierNet, TierDirect}

func NewCommissionTier(value string) (CommissionTier, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch CommissionTier(trimmed) {
	case "":
		return "", nil
	case TierFree, TierPanel, TierNet, TierDirect:
		return CommissionTier(trimmed), nil
	}
	return "", fmt.Errorf("不正な指名区分です: %s", value)
}

func (t CommissionTier) Label() string {
	switch t {
	case TierFree:
		return "フリー"
	case TierPanel:
		return "パネル指名"
	case TierNet:
		return "ネット指名"
	case TierDirect:
		return "本指名"
	}
	return string(t)
}

// Fees は指名区分ごとの指名料（円）。
type Fees struct {
	Free   int
	Panel  int
	Net    int
	Direct int
}

// For は指名区分に対応する指名料を返す。未知の区分は 0。
func (f Fees) For(tier CommissionTier) int {
	switch tier {
	case TierFree:
		return f.Free
	case TierPanel:
		return f.Panel
	case TierNet:
		return f.Net
	case TierDirect:
		return f.Direct
	}
	return 0
}

// ParseYen は "2,000" や "２，０００円" のような表示文字列を整数円へ変換する。
// 解釈できない値は 0 として扱う。
func ParseYen(value string) int {
	normalized := normalizeDigits(value)
	normalized = strings.TrimSuffix(strings.TrimSpace(normalized), "円")
	normalized = strings.ReplaceAll(normalized, ",", "")
	normalized = strings.TrimSpace(normalized)
	if normalized == "" {
		return 0
	}
	parsed, err := strconv.Atoi(normalized)
	if err != nil {
		return 0
	}
	return parsed
}

// FormatYen は整数円を "10,000" 形式の桁区切り文字列にする。
func FormatYen(value int) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}
	digits := strconv.Itoa(value)
	var builder strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			builder.WriteByte(',')
		}
		builder.WriteRune(r)
	}
	return sign + builder.String()
}

// ParsePercent は雑費率の文字列を float64 に変換する。空・不正値は 0。
func ParsePercent(value string) float64 {
	normalized := strings.TrimSpace(normalizeDigits(value))
	normalized = strings.TrimSuffix(normalized, "%")
	if normalized == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(strings.TrimSpace(normalized), 64)
	if err != nil {
		return 0
	}
	return parsed
}

// normalizeDigits は全角数字・記号を半角へ畳み込む。
func normalizeDigits(value string) string {
	return width.Fold.String(value)
}
