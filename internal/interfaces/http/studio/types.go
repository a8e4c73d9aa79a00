package studio

import (
	"fmt"
	"strconv"
	"time"

	diary "github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
	ledgerapp "github.com/sngm3741/makoto-diary/api/internal/ledger/application"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

type generateRequest struct {
	Theme         string            `json:"theme" label:"テーマ" validate:"max=200"`
	AutoTheme     bool              `json:"autoTheme"`
	Category      string            `json:"category" label:"カテゴリ" validate:"max=20"`
	Tone          string            `json:"tone" label:"トーン" validate:"max=20"`
	CourseMinutes common.FlexString `json:"courseMinutes" label:"コース時間" validate:"max=10"`
	CustomerType  string            `json:"customerType" label:"お客様タイプ" validate:"max=50"`
	OtherInfo     string            `json:"otherInfo" label:"その他" validate:"max=500"`
	ShopIndex     *int              `json:"shopIndex" label:"店舗" validate:"omitempty,min=0"`
}

type generateResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Theme   string `json:"theme"`
}

// shopPayload は設定画面の店舗 1 件。金額系は画面表示のまま文字列でやり取りする。
type shopPayload struct {
	StageName           string   `json:"stageName" label:"源氏名" validate:"max=50"`
	Catchphrase         string   `json:"catchphrase" label:"キャッチコピー" validate:"max=100"`
	ShopIndustry        string   `json:"shopIndustry" label:"お店の業種" validate:"max=20"`
	ShopName            string   `json:"shopName" label:"お店の名前" validate:"max=100"`
	ShopCourses         []string `json:"shopCourses" label:"お店のコース" validate:"max=50,dive,max=100"`
	PriceRange          string   `json:"priceRange" label:"価格帯" validate:"omitempty,oneof=low medium high"`
	ShopConcept         string   `json:"shopConcept" label:"お店のコンセプト" validate:"max=500"`
	ShopPersonalities   []string `json:"shopPersonalities" label:"性格" validate:"max=30,dive,max=50"`
	ShopTraits          []string `json:"shopTraits" label:"個性" validate:"max=30,dive,max=50"`
	ServiceStyle        string   `json:"serviceStyle" label:"接客スタイル" validate:"max=500"`
	NGWords             []string `json:"ngWords" label:"NGワード" validate:"max=100,dive,max=50"`
	TargetCustomers     string   `json:"targetCustomers" label:"希望するお客様" validate:"max=500"`
	Hobby               []string `json:"hobby" label:"趣味" validate:"max=30,dive,max=50"`
	Specialty           []string `json:"specialty" label:"特技" validate:"max=30,dive,max=50"`
	RecentHobby         []string `json:"recentHobby" label:"最近ハマってるもの" validate:"max=30,dive,max=50"`
	PreferredGift       []string `json:"preferredGift" label:"貰いたい差し入れ" validate:"max=30,dive,max=50"`
	WorkStartTime       string   `json:"workStartTime" label:"出勤開始時間" validate:"max=10"`
	WorkEndTime         string   `json:"workEndTime" label:"出勤終了時間" validate:"max=10"`
	NominationFeeFree   string   `json:"nominationFeeFree" label:"フリー指名料" validate:"max=20"`
	NominationFeePanel  string   `json:"nominationFeePanel" label:"パネル指名料" validate:"max=20"`
	NominationFeeNet    string   `json:"nominationFeeNet" label:"ネット指名料" validate:"max=20"`
	NominationFeeDirect string   `json:"nominationFeeDirect" label:"本指名料" validate:"max=20"`
	Backs               []string `json:"backs" label:"バック料金" validate:"max=50,dive,max=100"`
	MiscFeePercent      string   `json:"miscFeePercent" label:"雑費率" validate:"max=10"`
}

func (p shopPayload) toDomain(position int) (profile.ShopProfile, error) {
	industry, err := profile.NewIndustry(p.ShopIndustry)
	if err != nil {
		return profile.ShopProfile{}, apperr.InvalidField(fmt.Sprintf("shops[%d].shopIndustry", position), err.Error())
	}
	priceRange, err := profile.NewPriceRange(p.PriceRange)
	if err != nil {
		return profile.ShopProfile{}, apperr.InvalidField(fmt.Sprintf("shops[%d].priceRange", position), err.Error())
	}
	return profile.ShopProfile{
		StageName:       p.StageName,
		Catchphrase:     p.Catchphrase,
		Industry:        industry,
		ShopName:        p.ShopName,
		Courses:         p.ShopCourses,
		PriceRange:      priceRange,
		Concept:         p.ShopConcept,
		Personalities:   p.ShopPersonalities,
		Traits:          p.ShopTraits,
		ServiceStyle:    p.ServiceStyle,
		NGWords:         p.NGWords,
		TargetCustomers: p.TargetCustomers,
		Hobbies:         p.Hobby,
		Specialties:     p.Specialty,
		RecentInterests: p.RecentHobby,
		PreferredGifts:  p.PreferredGift,
		WorkStart:       p.WorkStartTime,
		WorkEnd:         p.WorkEndTime,
		Fees: profile.Fees{
			Free:   profile.ParseYen(p.NominationFeeFree),
			Panel:  profile.ParseYen(p.NominationFeePanel),
			Net:    profile.ParseYen(p.NominationFeeNet),
			Direct: profile.ParseYen(p.NominationFeeDirect),
		},
		Rates:          profile.NewRateTable(p.Backs),
		MiscFeePercent: profile.ParsePercent(p.MiscFeePercent),
	}, nil
}

func newShopPayload(shop profile.ShopProfile) shopPayload {
	return shopPayload{
		StageName:           shop.StageName,
		Catchphrase:         shop.Catchphrase,
		ShopIndustry:        string(shop.Industry),
		ShopName:            shop.ShopName,
		ShopCourses:         nonNil(shop.Courses),
		PriceRange:          string(shop.PriceRange),
		ShopConcept:         shop.Concept,
		ShopPersonalities:   nonNil(shop.Personalities),
		ShopTraits:          nonNil(shop.Traits),
		ServiceStyle:        shop.ServiceStyle,
		NGWords:             nonNil(shop.NGWords),
		TargetCustomers:     shop.TargetCustomers,
		Hobby:               nonNil(shop.Hobbies),
		Specialty:           nonNil(shop.Specialties),
		RecentHobby:         nonNil(shop.RecentInterests),
		PreferredGift:       nonNil(shop.PreferredGifts),
		WorkStartTime:       shop.WorkStart,
		WorkEndTime:         shop.WorkEnd,
		NominationFeeFree:   yenOrEmpty(shop.Fees.Free),
		NominationFeePanel:  yenOrEmpty(shop.Fees.Panel),
		NominationFeeNet:    yenOrEmpty(shop.Fees.Net),
		NominationFeeDirect: yenOrEmpty(shop.Fees.Direct),
		Backs:               nonNil(shop.Rates.Labels()),
		MiscFeePercent:      percentOrEmpty(shop.MiscFeePercent),
	}
}

type settingsRequest struct {
	Shops            []shopPayload `json:"shops" label:"店舗設定" validate:"max=20,dive"`
	CurrentShopIndex int           `json:"currentShopIndex" label:"選択中の店舗" validate:"min=0"`
	EndingTemplates  []string      `json:"endingTemplates" label:"締めテンプレート" validate:"max=20,dive,max=500"`
}

type shopOptionResponse struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type settingsResponse struct {
	UserID           string               `json:"userId"`
	Shops            []shopPayload        `json:"shops"`
	CurrentShopIndex int                  `json:"currentShopIndex"`
	EndingTemplates  []string             `json:"endingTemplates"`
	ShopOptions      []shopOptionResponse `json:"shopOptions"`
	UpdatedAt        *time.Time           `json:"updatedAt,omitempty"`
}

func newSettingsResponse(settings profile.UserSettings) settingsResponse {
	shops := make([]shopPayload, 0, len(settings.Shops))
	for _, shop := range settings.Shops {
		shops = append(shops, newShopPayload(shop))
	}
	options := make([]shopOptionResponse, 0, len(settings.Shops))
	for _, option := range settings.ShopOptions() {
		options = append(options, shopOptionResponse{Index: option.Index, Name: option.Name})
	}
	resp := settingsResponse{
		UserID:           settings.UserID,
		Shops:            shops,
		CurrentShopIndex: settings.CurrentShopIndex,
		EndingTemplates:  nonNil(settings.EndingTemplates),
		ShopOptions:      options,
	}
	if !settings.UpdatedAt.IsZero() {
		updated := settings.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

type createDiaryRequest struct {
	Title               string `json:"title" label:"タイトル" validate:"max=100"`
	Content             string `json:"content" label:"本文" validate:"max=2000"`
	PostDate            string `json:"postDate" label:"投稿日" validate:"max=10"`
	PostTime            string `json:"postTime" label:"投稿時刻" validate:"max=5"`
	EndingTemplateIndex *int   `json:"endingTemplateIndex" label:"締めテンプレート" validate:"omitempty,min=0"`
}

type diaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	PostDate  string    `json:"postDate"`
	PostTime  string    `json:"postTime"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newDiaryResponse(entry diary.Entry) diaryResponse {
	return diaryResponse{
		ID:        entry.ID,
		Title:     entry.Title,
		Content:   entry.Content,
		PostDate:  entry.PostDate,
		PostTime:  entry.PostTime,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
	}
}

type monthResponse struct {
	Month        string         `json:"month"`
	ShopIndex    int            `json:"shopIndex"`
	DailyTotals  map[string]int `json:"dailyTotals"`
	WorkDays     []string       `json:"workDays"`
	MonthlyTotal int            `json:"monthlyTotal"`
}

func newMonthResponse(view ledgerapp.MonthView) monthResponse {
	totals := view.DailyTotals
	if totals == nil {
		totals = map[string]int{}
	}
	return monthResponse{
		Month:        view.Month,
		ShopIndex:    view.ShopIndex,
		DailyTotals:  totals,
		WorkDays:     nonNil(view.WorkDays),
		MonthlyTotal: view.MonthlyTotal,
	}
}

type salesEntryResponse struct {
	ID               string `json:"id,omitempty"`
	CourseMinutes    int    `json:"courseMinutes"`
	NominationType   string `json:"nominationType"`
	NominationLabel  string `json:"nominationLabel"`
	Count            int    `json:"count"`
	CalculatedAmount int    `json:"calculatedAmount"`
}

func newSalesEntries(entries []ledger.SalesEntry) []salesEntryResponse {
	result := make([]salesEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, salesEntryResponse{
			ID:               entry.ID,
			CourseMinutes:    entry.CourseMinutes,
			NominationType:   string(entry.Tier),
			NominationLabel:  entry.Tier.Label(),
			Count:            entry.Count,
			CalculatedAmount: entry.CalculatedAmount,
		})
	}
	return result
}

type dayResponse struct {
	Date       string               `json:"date"`
	ShopIndex  int                  `json:"shopIndex"`
	Entries    []salesEntryResponse `json:"entries"`
	IsWorkDay  bool                 `json:"isWorkDay"`
	DailyTotal int                  `json:"dailyTotal"`
	Message    string               `json:"message,omitempty"`
}

type lineItemPayload struct {
	CourseMinutes  common.FlexString `json:"courseMinutes" label:"コース時間" validate:"max=5"`
	NominationType string            `json:"nominationType" label:"指名区分" validate:"omitempty,oneof=free panel net direct"`
	Count          int               `json:"count" label:"本数" validate:"min=0,max=99"`
}

func (p lineItemPayload) toDomain() ledger.LineItem {
	minutes, err := strconv.Atoi(p.CourseMinutes.String())
	if err != nil || minutes < 0 {
		minutes = 0
	}
	tier, _ := profile.NewCommissionTier(p.NominationType)
	count := p.Count
	if count == 0 {
		count = 1
	}
	return ledger.LineItem{CourseMinutes: minutes, Tier: tier, Count: count}
}

type saveDayRequest struct {
	ShopIndex int               `json:"shopIndex" label:"店舗" validate:"min=0"`
	Entries   []lineItemPayload `json:"entries" label:"売上エントリー" validate:"max=50,dive"`
	IsWorkDay bool              `json:"isWorkDay"`
}

type quoteRequest struct {
	ShopIndex      int               `json:"shopIndex" label:"店舗" validate:"min=0"`
	CourseMinutes  common.FlexString `json:"courseMinutes" label:"コース時間" validate:"max=5"`
	NominationType string            `json:"nominationType" label:"指名区分" validate:"omitempty,oneof=free panel net direct"`
	Count          int               `json:"count" label:"本数" validate:"min=0,max=99"`
}

type quoteResponse struct {
	BaseRate       int     `json:"baseRate"`
	NominationFee  int     `json:"nominationFee"`
	MiscFeePercent float64 `json:"miscFeePercent"`
	Amount         int     `json:"amount"`
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func yenOrEmpty(value int) string {
	if value == 0 {
		return ""
	}
	return profile.FormatYen(value)
}

func percentOrEmpty(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
