package prompt

import (
	"fmt"
	"strings"

	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

const defaultSystemKey = "default"

// カテゴリ。テーブルにないカテゴリは案内文なしで扱う。
const (
	CategoryBeforeWork = "出勤前"
	CategoryAtWork     = "出勤中"
	CategoryThanks     = "お礼"
	CategoryAfterWork  = "退勤後"
	CategoryCharacter  = "キャラ付け"
	CategoryOther      = "その他"
)

// トーン。
const (
	ToneSweet    = "甘め"
	ToneStrong   = "強め"
	ToneNeat     = "清楚"
	ToneFluffy   = "ゆるふわ"
	ToneAlluring = "大人の色気"
	ToneFriendly = "フレンドリー"
)

// Request は生成リクエストの入力一式。
type Request struct {
	Theme         string
	AutoTheme     bool
	Category      string
	Tone          string
	CourseMinutes string
	CustomerType  string
	OtherInfo     string
	Shop          *profile.ShopProfile
}

// Prompt は LLM に渡す system / user メッセージ。
type Prompt struct {
	System string
	User   string
	Theme  string
}

// Assembler は Request からプロンプトを組み立てる。同じ入力なら同じ出力を返す。
type Assembler struct {
	table  *Table
	themes ThemeStrategy
}

func NewAssembler(table *Table, themes ThemeStrategy) *Assembler {
	if themes == nil {
		themes = DelegateTheme{}
	}
	return &Assembler{table: table, themes: themes}
}

// Assemble はセクションを固定順（役割→ルール→業種→カテゴリ→トーン→設定→出力形式）で連結する。
func (a *Assembler) Assemble(req Request) Prompt {
	theme := a.themes.Resolve(req.Theme, req.AutoTheme)
	category := strings.TrimSpace(req.Category)

	var industry profile.Industry
	if req.Shop != nil {
		industry = req.Shop.Industry
	}

	sections := []string{
		a.roleSection(theme, industry),
		a.table.HouseRules,
		a.table.Industries[string(industry)],
		a.categorySection(category, req),
		a.toneSection(strings.TrimSpace(req.Tone)),
		a.profileSection(req.Shop, category),
		a.table.OutputFormat,
	}

	return Prompt{
		System: a.system(industry),
		User:   joinSections(sections),
		Theme:  theme,
	}
}

func (a *Assembler) system(industry profile.Industry) string {
	if system := a.table.Systems[string(industry)]; system != "" {
		return system
	}
	return a.table.Systems[defaultSystemKey]
}

func (a *Assembler) roleSection(theme string, industry profile.Industry) string {
	themeClause := ""
	if theme != "" {
		themeClause = fmt.Sprintf("「%s」について、", theme)
	}
	label := "夜のお店"
	if industry.Known() {
		label = industry.Label()
	}
	return strings.NewReplacer("{{theme}}", themeClause, "{{industry}}", label).Replace(a.table.Role)
}

// categorySection はカテゴリ指針と詳細情報を返す。詳細情報はカテゴリ指定時のみ付ける。
func (a *Assembler) categorySection(category string, req Request) string {
	if category == "" {
		return ""
	}
	guidance := a.table.Categories[category]
	details := DetailLines(req)
	if guidance == "" && len(details) == 0 {
		return ""
	}

	var b strings.Builder
	if guidance != "" {
		b.WriteString("【カテゴリ】")
		b.WriteString(category)
		b.WriteString("\n")
		b.WriteString(guidance)
	}
	if len(details) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(a.table.DetailHeader)
		b.WriteString("\n")
		b.WriteString(strings.Join(details, "\n"))
		if a.table.DetailNote != "" {
			b.WriteString("\n")
			b.WriteString(a.table.DetailNote)
		}
	}
	return b.String()
}

func (a *Assembler) toneSection(tone string) string {
	if tone == "" {
		return ""
	}
	return a.table.Tones[tone]
}

func (a *Assembler) profileSection(shop *profile.ShopProfile, category string) string {
	if shop == nil {
		return ""
	}
	lines := ProfileLines(*shop)
	if len(lines) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(a.table.ProfileHeader)
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	if a.table.ProfileFooter != "" {
		b.WriteString("\n\n")
		b.WriteString(a.table.ProfileFooter)
	}
	if note := a.categoryNote(*shop, category); note != "" {
		b.WriteString("\n")
		b.WriteString(note)
	}
	return b.String()
}

func (a *Assembler) categoryNote(shop profile.ShopProfile, category string) string {
	note := a.table.CategoryNotes[category]
	if note == "" {
		return ""
	}
	workHours := ""
	if shop.HasWorkHours() {
		workHours = strings.NewReplacer(
			"{{start}}", orPlaceholder(shop.WorkStart),
			"{{end}}", orPlaceholder(shop.WorkEnd),
		).Replace(a.table.WorkHoursNote)
	}
	return strings.ReplaceAll(note, "{{work_hours}}", workHours)
}

// DetailLines はカテゴリ詳細（コース時間・お客様タイプ・その他）の行を返す。
func DetailLines(req Request) []string {
	var lines []string
	if minutes := strings.TrimSpace(req.CourseMinutes); minutes != "" {
		if !strings.HasSuffix(minutes, "分") {
			minutes += "分"
		}
		lines = append(lines, "コース時間: "+minutes)
	}
	if customer := strings.TrimSpace(req.CustomerType); customer != "" {
		lines = append(lines, "お客様タイプ: "+customer)
	}
	if other := strings.TrimSpace(req.OtherInfo); other != "" {
		lines = append(lines, "その他: "+other)
	}
	return lines
}

// ProfileLines は設定済みの項目だけをラベル付きの行にする。空の項目は出力しない。
func ProfileLines(shop profile.ShopProfile) []string {
	var lines []string
	add := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	addList := func(label string, values []string) {
		add(label, strings.Join(values, "、"))
	}

	add("源氏名", shop.StageName)
	add("キャッチコピー", shop.Catchphrase)
	if shop.Industry != "" {
		add("お店の業種", shop.Industry.Label())
	}
	add("お店の名前", shop.ShopName)
	addList("お店のコース", shop.Courses)
	if shop.PriceRange != "" {
		add("価格帯", shop.PriceRange.Label())
	}
	add("お店のコンセプト", shop.Concept)
	addList("設定された性格", shop.Personalities)
	addList("設定された個性", shop.Traits)
	add("接客スタイル", shop.ServiceStyle)
	add("希望するお客様", shop.TargetCustomers)
	addList("趣味", shop.Hobbies)
	addList("特技", shop.Specialties)
	addList("最近ハマってるもの", shop.RecentInterests)
	addList("貰いたい差し入れ", shop.PreferredGifts)
	if shop.HasWorkHours() {
		add("出勤時間", fmt.Sprintf("%s〜%s", orPlaceholder(shop.WorkStart), orPlaceholder(shop.WorkEnd)))
	}
	if len(shop.NGWords) > 0 {
		addList("NGワード（使用禁止）", shop.NGWords)
	}
	addList("料金表", shop.Rates.Labels())
	addList("指名料", feeLabels(shop.Fees))
	if shop.MiscFeePercent > 0 {
		add("雑費率", fmt.Sprintf("%g%%", shop.MiscFeePercent))
	}
	return lines
}

func feeLabels(fees profile.Fees) []string {
	var labels []string
	for _, tier := range profile.AllTiers {
		if fee := fees.For(tier); fee > 0 {
			labels = append(labels, fmt.Sprintf("%s %s円", tier.Label(), profile.FormatYen(fee)))
		}
	}
	return labels
}

func orPlaceholder(value string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return "○時"
}

func joinSections(sections []string) string {
	kept := make([]string, 0, len(sections))
	for _, section := range sections {
		if section = strings.TrimSpace(section); section != "" {
			kept = append(kept, section)
		}
	}
	return strings.Join(kept, "\n\n")
}
