package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	diaryapp "github.com/sngm3741/makoto-diary/api/internal/diary/application"
	mongodoc "github.com/sngm3741/makoto-diary/api/internal/infrastructure/mongo"
	ledgerapp "github.com/sngm3741/makoto-diary/api/internal/ledger/application"
	ledger "github.com/sngm3741/makoto-diary/api/internal/ledger/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/logging"
	profileapp "github.com/sngm3741/makoto-diary/api/internal/profile/application"
	profile "github.com/sngm3741/makoto-diary/api/internal/profile/domain"
)

type seedOptions struct {
	envFile         string
	userID          string
	days            int
	diaryCount      int
	dropCollections bool
	randomSeed      uint64
}

var (
	demoTitles = []string{"雨の日のごほうび☔", "今日もありがとう💕", "出勤しました✨", "おつかれさまでした🌙"}
	demoBodies = []string{
		"今日は雨だったけど、会いに来てくれてほんとに嬉しかったよ。",
		"久しぶりのお兄さんとたくさんお話できて楽しかった！",
		"これから出勤です。待ってるね。",
		"今日も一日おつかれさまでした。ゆっくり休んでね。",
	}
)

func main() {
	opts := parseFlags()

	if err := loadEnvFile(opts.envFile); err != nil {
		log.Fatalf("環境変数の読み込みに失敗しました: %v", err)
	}
	logger, err := logging.New(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗しました: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	names := mongodoc.CollectionNames{
		Settings:   envOrDefault("SETTINGS_COLLECTION", "user_settings"),
		Diaries:    envOrDefault("DIARY_COLLECTION", "diaries"),
		Sales:      envOrDefault("SALES_COLLECTION", "sales"),
		Attendance: envOrDefault("ATTENDANCE_COLLECTION", "attendance"),
	}
	mongoURI := envOrDefault("MONGO_URI", "mongodb://localhost:27017")
	dbName := envOrDefault("MONGO_DB", "makoto-diary")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logger.Fatal("MongoDB 接続に失敗しました", zap.Error(err))
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	db := client.Database(dbName)

	if opts.dropCollections {
		for _, name := range []string{names.Settings, names.Diaries, names.Sales, names.Attendance} {
			if err := db.Collection(name).Drop(ctx); err != nil {
				logger.Fatal("コレクション削除に失敗しました", zap.String("collection", name), zap.Error(err))
			}
		}
		logger.Info("既存コレクションを削除しました")
	}
	if err := mongodoc.EnsureIndexes(ctx, db, names); err != nil {
		logger.Fatal("インデックス作成に失敗しました", zap.Error(err))
	}

	settings := profileapp.NewSettingsService(
		mongodoc.NewSettingsRepository(db.Collection(names.Settings), nil, logger),
	)
	diaries := diaryapp.NewDiaryService(
		mongodoc.NewDiaryRepository(db.Collection(names.Diaries), nil, logger),
		settings,
		time.FixedZone("JST", 9*60*60),
	)
	calendar := ledgerapp.NewCalendarService(
		mongodoc.NewSalesRepository(db.Collection(names.Sales), nil, mongodoc.NewTransactor(client, logger), logger),
		mongodoc.NewAttendanceRepository(db.Collection(names.Attendance), nil, logger),
		settings,
	)

	if _, err := settings.Save(ctx, demoSettings(opts.userID)); err != nil {
		logger.Fatal("設定の投入に失敗しました", zap.Error(err))
	}

	rng := rand.New(rand.NewPCG(opts.randomSeed, opts.randomSeed))
	today := time.Now()

	for i := 0; i < opts.diaryCount; i++ {
		day := today.AddDate(0, 0, -i)
		pick := rng.IntN(len(demoTitles))
		if _, err := diaries.Create(ctx, diaryapp.CreateDiaryCommand{
			UserID:   opts.userID,
			Title:    demoTitles[pick],
			Content:  demoBodies[pick],
			PostDate: day.Format(ledger.DateLayout),
			PostTime: fmt.Sprintf("%02d:%02d", 18+rng.IntN(6), rng.IntN(60)),
		}); err != nil {
			logger.Fatal("日記の投入に失敗しました", zap.Error(err))
		}
	}

	total := 0
	workDays := 0
	for i := 0; i < opts.days; i++ {
		if rng.IntN(3) == 0 {
			continue
		}
		result, err := calendar.SaveDay(ctx, ledgerapp.SaveDayCommand{
			UserID:    opts.userID,
			ShopIndex: 0,
			Date:      today.AddDate(0, 0, -i).Format(ledger.DateLayout),
			Items:     demoLineItems(rng),
			IsWorkDay: true,
		})
		if err != nil {
			logger.Fatal("売上の投入に失敗しました", zap.Error(err))
		}
		total += result.DailyTotal
		workDays++
	}

	logger.Info("Seed 完了",
		zap.String("user", opts.userID),
		zap.Int("diaries", opts.diaryCount),
		zap.Int("workDays", workDays),
		zap.Int("salesTotal", total),
		zap.String("database", dbName),
	)
}

func parseFlags() seedOptions {
	var opts seedOptions
	flag.StringVar(&opts.envFile, "env-file", ".env", "読み込む env ファイル（存在しなければ無視）")
	flag.StringVar(&opts.userID, "user", "demo-user", "投入先のユーザー ID（JWT の subject）")
	flag.IntVar(&opts.days, "days", 30, "売上を投入する日数（今日から遡る）")
	flag.IntVar(&opts.diaryCount, "diaries", 10, "生成する日記数")
	flag.BoolVar(&opts.dropCollections, "drop", false, "既存コレクションを削除してから投入する")
	flag.Uint64Var(&opts.randomSeed, "seed", uint64(time.Now().UnixNano()), "乱数シード（再現用）")
	flag.Parse()

	if opts.userID == "" {
		log.Fatal("user を指定してください")
	}
	if opts.days < 0 {
		opts.days = 0
	}
	if opts.diaryCount < 0 {
		opts.diaryCount = 0
	}
	return opts
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func demoSettings(userID string) profile.UserSettings {
	return profile.UserSettings{
		UserID: userID,
		Shops: []profile.ShopProfile{{
			StageName:       "ゆい",
			Catchphrase:     "癒し系のおっとり娘",
			Industry:        profile.IndustryDelivery,
			ShopName:        "まことクラブ",
			Courses:         []string{"60分", "90分", "120分"},
			PriceRange:      profile.PriceRangeMedium,
			Personalities:   []string{"明るい", "甘えん坊"},
			Traits:          []string{"聞き上手"},
			ServiceStyle:    "ゆっくりお話ししながら",
			Hobbies:         []string{"カフェ巡り"},
			RecentInterests: []string{"韓国ドラマ"},
			PreferredGifts:  []string{"甘いもの"},
			WorkStart:       "18:00",
			WorkEnd:         "24:00",
			Fees:            profile.Fees{Free: 0, Panel: 1000, Net: 2000, Direct: 3000},
			Rates:           profile.NewRateTable([]string{"60分 | 10,000円", "90分 | 15,000円", "120分 | 20,000円"}),
			MiscFeePercent:  10,
		}},
		EndingTemplates: []string{"また会いに来てね💕", "次の出勤も待ってるよ✨"},
	}
}

func demoLineItems(rng *rand.Rand) []ledger.LineItem {
	courses := []int{60, 90, 120}
	items := make([]ledger.LineItem, 0, 3)
	for i := 0; i <= rng.IntN(3); i++ {
		items = append(items, ledger.LineItem{
			CourseMinutes: courses[rng.IntN(len(courses))],
			Tier:          profile.AllTiers[rng.IntN(len(profile.AllTiers))],
			Count:         1,
		})
	}
	return items
}
