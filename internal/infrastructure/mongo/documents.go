package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	diary "github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

// FeesDocument は指名区分ごとの指名料（円）。
type FeesDocument struct {
	Free   int `bson:"free"`
	Panel  int `bson:"panel"`
	Net    int `bson:"net"`
	Direct int `bson:"direct"`
}

// ShopDocument は userSettings.shops の要素。料金表は入力文字列のまま保存する。
type ShopDocument struct {
	StageName       string       `bson:"stageName,omitempty"`
	Catchphrase     string       `bson:"catchphrase,omitempty"`
	Industry        string       `bson:"industry,omitempty"`
	ShopName        string       `bson:"shopName,omitempty"`
	Courses         []string     `bson:"courses,omitempty"`
	PriceRange      string       `bson:"priceRange,omitempty"`
	Concept         string       `bson:"concept,omitempty"`
	Personalities   []string     `bson:"personalities,omitempty"`
	Traits          []string     `bson:"traits,omitempty"`
	ServiceStyle    string       `bson:"serviceStyle,omitempty"`
	NGWords         []string     `bson:"ngWords,omitempty"`
	TargetCustomers string       `bson:"targetCustomers,omitempty"`
	Hobbies         []string     `bson:"hobbies,omitempty"`
	Specialties     []string     `bson:"specialties,omitempty"`
	RecentInterests []string     `bson:"recentInterests,omitempty"`
	PreferredGifts  []string     `bson:"preferredGifts,omitempty"`
	WorkStart       string       `bson:"workStart,omitempty"`
	WorkEnd         string       `bson:"workEnd,omitempty"`
	Fees            FeesDocument `bson:"fees"`
	Rates           []string     `bson:"rates,omitempty"`
	MiscFeePercent  float64      `bson:"miscFeePercent,omitempty"`
}

// SettingsDocument は userSettings コレクションのスキーマ。_id はユーザー ID。
type SettingsDocument struct {
	ID               string         `bson:"_id"`
	UserID           string         `bson:"userId"`
	Shops            []ShopDocument `bson:"shops"`
	CurrentShopIndex int            `bson:"currentShopIndex"`
	EndingTemplates  []string       `bson:"endingTemplates"`
	CreatedAt        *time.Time     `bson:"createdAt,omitempty"`
	UpdatedAt        *time.Time     `bson:"updatedAt,omitempty"`
}

// DiaryDocument は diaries コレクションのスキーマ。
type DiaryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	PostDate  string             `bson:"postDate"`
	PostTime  string             `bson:"postTime"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
}

// SalesDocument は sales コレクションのスキーマ。
type SalesDocument struct {
	ID               primitive.ObjectID `bson:"_id,omitempty"`
	UserID           string             `bson:"userId"`
	ShopIndex        int                `bson:"shopIndex"`
	Date             string             `bson:"date"`
	CourseMinutes    int                `bson:"courseMinutes"`
	Tier             string             `bson:"commissionType"`
	Count            int                `bson:"count"`
	CalculatedAmount int                `bson:"calculatedAmount"`
	CreatedAt        *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt        *time.Time         `bson:"updatedAt,omitempty"`
}

// AttendanceDocument は attendance コレクションのスキーマ。
type AttendanceDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	ShopIndex int                `bson:"shopIndex"`
	Date      string             `bson:"date"`
	IsWorkDay bool               `bson:"isWorkDay"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt *time.Time         `bson:"updatedAt,omitempty"`
}

func timeValue(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func toShopDocument(shop profile.ShopProfile) ShopDocument {
	rates := make([]string, 0, len(shop.Rates))
	for _, rate := range shop.Rates {
		if rate.Label != "" {
			rates = append(rates, rate.Label)
			continue
		}
		rates = append(rates, rate.String())
	}
	return ShopDocument{
		StageName:       shop.StageName,
		Catchphrase:     shop.Catchphrase,
		Industry:        string(shop.Industry),
		ShopName:        shop.ShopName,
		Courses:         shop.Courses,
		PriceRange:      string(shop.PriceRange),
		Concept:         shop.Concept,
		Personalities:   shop.Personalities,
		Traits:          shop.Traits,
		ServiceStyle:    shop.ServiceStyle,
		NGWords:         shop.NGWords,
		TargetCustomers: shop.TargetCustomers,
		Hobbies:         shop.Hobbies,
		Specialties:     shop.Specialties,
		RecentInterests: shop.RecentInterests,
		PreferredGifts:  shop.PreferredGifts,
		WorkStart:       shop.WorkStart,
		WorkEnd:         shop.WorkEnd,
		Fees: FeesDocument{
			Free:   shop.Fees.Free,
			Panel:  shop.Fees.Panel,
			Net:    shop.Fees.Net,
			Direct: shop.Fees.Direct,
		},
		Rates:          rates,
		MiscFeePercent: shop.MiscFeePercent,
	}
}

// toShopProfile は保存値を読み戻す。不正な業種・価格帯は未設定として扱う。
func (d ShopDocument) toShopProfile() profile.ShopProfile {
	industry, err := profile.NewIndustry(d.Industry)
	if err != nil {
		industry = ""
	}
	priceRange, err := profile.NewPriceRange(d.PriceRange)
	if err != nil {
		priceRange = ""
	}
	return profile.ShopProfile{
		StageName:       d.StageName,
		Catchphrase:     d.Catchphrase,
		Industry:        industry,
		ShopName:        d.ShopName,
		Courses:         d.Courses,
		PriceRange:      priceRange,
		Concept:         d.Concept,
		Personalities:   d.Personalities,
		Traits:          d.Traits,
		ServiceStyle:    d.ServiceStyle,
		NGWords:         d.NGWords,
		TargetCustomers: d.TargetCustomers,
		Hobbies:         d.Hobbies,
		Specialties:     d.Specialties,
		RecentInterests: d.RecentInterests,
		PreferredGifts:  d.PreferredGifts,
		WorkStart:       d.WorkStart,
		WorkEnd:         d.WorkEnd,
		Fees: profile.Fees{
			Free:   d.Fees.Free,
			Panel:  d.Fees.Panel,
			Net:    d.Fees.Net,
			Direct: d.Fees.Direct,
		},
		Rates:          profile.NewRateTable(d.Rates),
		MiscFeePercent: d.MiscFeePercent,
	}
}

func toSettingsDocument(settings profile.UserSettings) SettingsDocument {
	shops := make([]ShopDocument, 0, len(settings.Shops))
	for _, shop := range settings.Shops {
		shops = append(shops, toShopDocument(shop))
	}
	return SettingsDocument{
		ID:               settings.UserID,
		UserID:           settings.UserID,
		Shops:            shops,
		CurrentShopIndex: settings.CurrentShopIndex,
		EndingTemplates:  settings.EndingTemplates,
	}
}

func (d SettingsDocument) toDomain() profile.UserSettings {
	shops := make([]profile.ShopProfile, 0, len(d.Shops))
	for _, shop := range d.Shops {
		shops = append(shops, shop.toShopProfile())
	}
	userID := d.UserID
	if userID == "" {
		userID = d.ID
	}
	return profile.UserSettings{
		ID:               d.ID,
		UserID:           userID,
		Shops:            shops,
		CurrentShopIndex: d.CurrentShopIndex,
		EndingTemplates:  d.EndingTemplates,
		CreatedAt:        timeValue(d.CreatedAt),
		UpdatedAt:        timeValue(d.UpdatedAt),
	}
}

func toDiaryDocument(entry diary.Entry) DiaryDocument {
	return DiaryDocument{
		UserID:   entry.UserID,
		Title:    entry.Title,
		Content:  entry.Content,
		PostDate: entry.PostDate,
		PostTime: entry.PostTime,
	}
}

func (d DiaryDocument) toDomain() diary.Entry {
	return diary.Entry{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		PostDate:  d.PostDate,
		PostTime:  d.PostTime,
		CreatedAt: timeValue(d.CreatedAt),
		UpdatedAt: timeValue(d.UpdatedAt),
	}
}

func toSalesDocument(entry ledger.SalesEntry) SalesDocument {
	return SalesDocument{
		UserID:           entry.UserID,
		ShopIndex:        entry.ShopIndex,
		Date:             entry.Date,
		CourseMinutes:    entry.CourseMinutes,
		Tier:             string(entry.Tier),
		Count:            entry.Count,
		CalculatedAmount: entry.CalculatedAmount,
	}
}

func (d SalesDocument) toDomain() ledger.SalesEntry {
	tier, err := profile.NewCommissionTier(d.Tier)
	if err != nil {
		tier = profile.CommissionTier(d.Tier)
	}
	return ledger.SalesEntry{
		ID:               d.ID.Hex(),
		UserID:           d.UserID,
		ShopIndex:        d.ShopIndex,
		Date:             d.Date,
		CourseMinutes:    d.CourseMinutes,
		Tier:             tier,
		Count:            d.Count,
		CalculatedAmount: d.CalculatedAmount,
		CreatedAt:        timeValue(d.CreatedAt),
		UpdatedAt:        timeValue(d.UpdatedAt),
	}
}

func toAttendanceDocument(entry ledger.AttendanceEntry) AttendanceDocument {
	return AttendanceDocument{
		UserID:    entry.UserID,
		ShopIndex: entry.ShopIndex,
		Date:      entry.Date,
		IsWorkDay: entry.IsWorkDay,
	}
}

func (d AttendanceDocument) toDomain() ledger.AttendanceEntry {
	return ledger.AttendanceEntry{
		ID:        d.ID.Hex(),
		UserID:    d.UserID,
		ShopIndex: d.ShopIndex,
		Date:      d.Date,
		IsWorkDay: d.IsWorkDay,
		CreatedAt: timeValue(d.CreatedAt),
		UpdatedAt: timeValue(d.UpdatedAt),
	}
}
