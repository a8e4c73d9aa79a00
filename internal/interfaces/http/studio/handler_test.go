package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diaryapp "github.com/sngm3741/makoto-diary/api/internal/diary/application"
	diary "github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/diary/prompt"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
	ledgerapp "github.com/sngm3741/makoto-diary/api/internal/ledger/application"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
	profileapp "github.com/sngm3741/makoto-diary/api/internal/profile/application"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

const testUserHeader = "X-Test-User"

type memorySettings struct {
	items   map[string]profile.UserSettings
	saveErr error
}

func (m *memorySettings) FindByUser(_ context.Context, userID string) (*profile.UserSettings, error) {
	settings, ok := m.items[userID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (m *memorySettings) Save(_ context.Context, settings profile.UserSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.items[settings.UserID] = settings
	return nil
}

type memoryDiaries struct {
	items  map[string]diary.Entry
	nextID int
}

func (m *memoryDiaries) Create(_ context.Context, entry diary.Entry) (string, error) {
	m.nextID++
	entry.ID = fmt.Sprintf("d%d", m.nextID)
	m.items[entry.ID] = entry
	return entry.ID, nil
}

func (m *memoryDiaries) Get(_ context.Context, id string) (*diary.Entry, error) {
	entry, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *memoryDiaries) FindByOwner(_ context.Context, userID string) ([]diary.Entry, error) {
	var result []diary.Entry
	for _, entry := range m.items {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *memoryDiaries) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type memorySales struct {
	items []ledger.SalesEntry
}

func (m *memorySales) FindByOwner(_ context.Context, userID string) ([]ledger.SalesEntry, error) {
	var result []ledger.SalesEntry
	for _, entry := range m.items {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *memorySales) ReplaceDay(_ context.Context, userID string, shopIndex int, date string, entries []ledger.SalesEntry) error {
	kept := m.items[:0]
	for _, entry := range m.items {
		if entry.UserID == userID && entry.ShopIndex == shopIndex && entry.Date == date {
			continue
		}
		kept = append(kept, entry)
	}
	m.items = append(kept, entries...)
	return nil
}

type memoryAttendance struct {
	items  map[string]ledger.AttendanceEntry
	nextID int
}

func (m *memoryAttendance) FindByOwner(_ context.Context, userID string) ([]ledger.AttendanceEntry, error) {
	var result []ledger.AttendanceEntry
	for _, entry := range m.items {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (m *memoryAttendance) Create(_ context.Context, entry ledger.AttendanceEntry) (string, error) {
	m.nextID++
	entry.ID = fmt.Sprintf("a%d", m.nextID)
	m.items[entry.ID] = entry
	return entry.ID, nil
}

func (m *memoryAttendance) SetWorkDay(_ context.Context, id string, isWorkDay bool) error {
	entry := m.items[id]
	entry.IsWorkDay = isWorkDay
	m.items[id] = entry
	return nil
}

func (m *memoryAttendance) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type fixedGenerator struct {
	user string
}

func (g *fixedGenerator) Generate(_ context.Context, _, user, theme string) (diary.GeneratedPost, error) {
	g.user = user
	return diary.GeneratedPost{Title: theme + "💕", Content: "生成された本文"}, nil
}

type testEnv struct {
	router    http.Handler
	settings  *memorySettings
	diaries   *memoryDiaries
	generator *fixedGenerator
}

func newTestEnv(t *testing.T, withGenerator bool) *testEnv {
	t.Helper()
	env := &testEnv{
		settings: &memorySettings{items: map[string]profile.UserSettings{}},
		diaries:  &memoryDiaries{items: map[string]diary.Entry{}},
	}
	settingsService := profileapp.NewSettingsService(env.settings)

	table, err := prompt.LoadTable(prompt.DetailDetailed)
	require.NoError(t, err)
	var generator diaryapp.Generator
	if withGenerator {
		env.generator = &fixedGenerator{}
		generator = env.generator
	}

	handler := NewHandler(Config{
		Settings:  settingsService,
		Diaries:   diaryapp.NewDiaryService(env.diaries, settingsService, time.UTC),
		Generator: diaryapp.NewGenerateService(prompt.NewAssembler(table, prompt.DelegateTheme{}), settingsService, generator, nil),
		Calendar: ledgerapp.NewCalendarService(
			&memorySales{},
			&memoryAttendance{items: map[string]ledger.AttendanceEntry{}},
			settingsService,
		),
	})

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		handler.Register(r, fakeAuth)
	})
	env.router = router
	return env
}

func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(testUserHeader)
		if userID == "" {
			common.WriteJSON(nil, w, http.StatusUnauthorized, common.ErrorResponse{Error: "Authorization ヘッダーがありません"})
			return
		}
		next.ServeHTTP(w, r.WithContext(common.ContextWithUser(r.Context(), common.AuthenticatedUser{ID: userID})))
	})
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func TestRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodGet, "/api/settings", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSettingsDefaultAndSave(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/api/settings", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var initial settingsResponse
	decodeBody(t, rec, &initial)
	assert.Len(t, initial.Shops, 1)
	assert.Equal(t, []shopOptionResponse{{Index: 0, Name: "店舗1"}}, initial.ShopOptions)

	rec = env.do(t, http.MethodPut, "/api/settings", "u1", map[string]any{
		"shops": []map[string]any{{
			"stageName":         "ゆい",
			"shopIndustry":      "soap",
			"nominationFeeNet":  "2,000",
			"backs":             []string{"60分 | 10,000円"},
			"miscFeePercent":    "10",
			"shopPersonalities": []string{"明るい"},
		}},
		"endingTemplates": []string{"またね"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored := env.settings.items["u1"]
	require.Len(t, stored.Shops, 1)
	assert.Equal(t, 2000, stored.Shops[0].Fees.Net)
	assert.Equal(t, 10000, stored.Shops[0].Rates.BaseRate(60))
	assert.Equal(t, 10.0, stored.Shops[0].MiscFeePercent)

	rec = env.do(t, http.MethodGet, "/api/settings", "u1", nil)
	var reloaded settingsResponse
	decodeBody(t, rec, &reloaded)
	assert.Equal(t, "2,000", reloaded.Shops[0].NominationFeeNet)
	assert.Equal(t, []string{"60分 | 10,000円"}, reloaded.Shops[0].Backs)
	assert.Equal(t, "ゆい", reloaded.ShopOptions[0].Name)
}

func TestSettingsRejectsUnknownIndustry(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodPut, "/api/settings", "u1", map[string]any{
		"shops": []map[string]any{{"shopIndustry": "cabaret"}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.settings.items)
}

func TestSettingsSaveOffline(t *testing.T) {
	env := newTestEnv(t, true)
	env.settings.saveErr = fmt.Errorf("upsert: %w", apperr.ErrOffline)

	rec := env.do(t, http.MethodPost, "/api/settings/shops", "u1", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body common.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, common.MessageOffline, body.Error)
}

func TestShopAddAndRemove(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPost, "/api/settings/shops", "u1", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var added settingsResponse
	decodeBody(t, rec, &added)
	assert.Len(t, added.Shops, 2)
	assert.Equal(t, 1, added.CurrentShopIndex)

	rec = env.do(t, http.MethodDelete, "/api/settings/shops/0", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var removed settingsResponse
	decodeBody(t, rec, &removed)
	assert.Len(t, removed.Shops, 1)

	rec = env.do(t, http.MethodDelete, "/api/settings/shops/0", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/settings/shops/x", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateEndpoint(t *testing.T) {
	env := newTestEnv(t, true)
	env.settings.items["u1"] = profile.UserSettings{
		UserID: "u1",
		Shops:  []profile.ShopProfile{{StageName: "ゆい"}},
	}

	rec := env.do(t, http.MethodPost, "/api/generate", "u1", map[string]any{
		"theme":         "雨の日",
		"category":      "お礼",
		"courseMinutes": 60,
		"customerType":  "リピーター",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body generateResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, generateResponse{Title: "雨の日💕", Content: "生成された本文", Theme: "雨の日"}, body)
	assert.Contains(t, env.generator.user, "コース時間: 60分")
	assert.Contains(t, env.generator.user, "源氏名: ゆい")
}

func TestGenerateWithoutCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	rec := env.do(t, http.MethodPost, "/api/generate", "u1", map[string]any{"theme": "雨"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body common.ErrorResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, "OpenAI API key is not configured", body.Error)
}

func TestDiaryLifecycle(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPost, "/api/diaries", "u1", map[string]any{"title": "", "content": "本文"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid common.ErrorResponse
	decodeBody(t, rec, &invalid)
	assert.Equal(t, "タイトルと本文を入力してください", invalid.Error)
	assert.Empty(t, env.diaries.items)

	rec = env.do(t, http.MethodPost, "/api/diaries", "u1", map[string]any{
		"title":    "雨の日",
		"content":  "ありがとう",
		"postDate": "2024-05-01",
		"postTime": "21:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created diaryResponse
	decodeBody(t, rec, &created)
	assert.Equal(t, "2024-05-01", created.PostDate)

	rec = env.do(t, http.MethodGet, "/api/diaries", "u1", nil)
	var list struct {
		Items []diaryResponse `json:"items"`
	}
	decodeBody(t, rec, &list)
	require.Len(t, list.Items, 1)

	rec = env.do(t, http.MethodGet, "/api/diaries/"+created.ID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/diaries/"+created.ID, "u1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, env.diaries.items)
}

func TestCalendarSaveAndMonth(t *testing.T) {
	env := newTestEnv(t, true)
	env.settings.items["u1"] = profile.UserSettings{
		UserID: "u1",
		Shops: []profile.ShopProfile{{
			Fees:           profile.Fees{Net: 2000},
			Rates:          profile.NewRateTable([]string{"60分 | 10,000円"}),
			MiscFeePercent: 10,
		}},
	}

	rec := env.do(t, http.MethodPut, "/api/calendar/2024-05-01", "u1", map[string]any{"shopIndex": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid common.ErrorResponse
	decodeBody(t, rec, &invalid)
	assert.Equal(t, "少なくとも1つの売上エントリーを入力するか、出勤日をチェックしてください", invalid.Error)

	rec = env.do(t, http.MethodPut, "/api/calendar/2024-05-01", "u1", map[string]any{
		"shopIndex": 0,
		"isWorkDay": true,
		"entries": []map[string]any{
			{"courseMinutes": "60", "nominationType": "net", "count": 2},
			{"courseMinutes": "", "nominationType": "free", "count": 1},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var saved dayResponse
	decodeBody(t, rec, &saved)
	assert.Equal(t, "売上と出勤日を保存しました", saved.Message)
	require.Len(t, saved.Entries, 1)
	assert.Equal(t, 21600, saved.Entries[0].CalculatedAmount)
	assert.Equal(t, "ネット指名", saved.Entries[0].NominationLabel)

	rec = env.do(t, http.MethodGet, "/api/calendar?month=2024-05&shopIndex=0", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var month monthResponse
	decodeBody(t, rec, &month)
	assert.Equal(t, map[string]int{"2024-05-01": 21600}, month.DailyTotals)
	assert.Equal(t, []string{"2024-05-01"}, month.WorkDays)
	assert.Equal(t, 21600, month.MonthlyTotal)

	rec = env.do(t, http.MethodGet, "/api/calendar/2024-05-01", "u1", nil)
	var day dayResponse
	decodeBody(t, rec, &day)
	assert.True(t, day.IsWorkDay)
	assert.Equal(t, 21600, day.DailyTotal)

	rec = env.do(t, http.MethodGet, "/api/calendar?month=May", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/calendar?shopIndex=-1", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuoteEndpoint(t *testing.T) {
	env := newTestEnv(t, true)
	env.settings.items["u1"] = profile.UserSettings{
		UserID: "u1",
		Shops: []profile.ShopProfile{{
			Fees:  profile.Fees{Direct: 3000},
			Rates: profile.NewRateTable([]string{"90分 | 15,000円"}),
		}},
	}

	rec := env.do(t, http.MethodPost, "/api/sales/quote", "u1", map[string]any{
		"courseMinutes":  90,
		"nominationType": "direct",
		"count":          1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body quoteResponse
	decodeBody(t, rec, &body)
	assert.Equal(t, quoteResponse{BaseRate: 15000, NominationFee: 3000, Amount: 18000}, body)

	rec = env.do(t, http.MethodPost, "/api/sales/quote", "u1", map[string]any{"nominationType": "vip"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
