package domain

import (
	"math"

	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

// Calculate は 本数 × (バック + 指名料) × (1 − 雑費率/100) を四捨五入した金額を返す。
// count が 0 以下なら 0。
func Calculate(count, baseRate, tierFee int, miscPercent float64) int {
	if count <= 0 {
		return 0
	}
	gross := float64(count) * float64(baseRate+tierFee)
	net := gross * (1 - miscPercent/100)
	return int(math.Floor(net + 0.5))
}

// Quote は店舗設定から 1 行分の見込み売上を算出する。コース時間か指名区分が未設定なら 0。
func Quote(shop profile.ShopProfile, minutes int, tier profile.CommissionTier, count int) int {
	if minutes <= 0 || tier == "" {
		return 0
	}
	base := shop.Rates.BaseRate(minutes)
	fee := shop.Fees.For(tier)
	return Calculate(count, base, fee, shop.MiscFeePercent)
}
