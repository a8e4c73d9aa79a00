package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/config"
	diaryapp "github.com/sngm3741/makoto-diary/api/internal/diary/application"
	"github.com/sngm3741/makoto-diary/api/internal/diary/prompt"
	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/cache"
	mongodoc "github.com/sngm3741/makoto-diary/api/internal/infrastructure/mongo"
	"github.com/sngm3741/makoto-diary/api/internal/infrastructure/openai"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/common"
	"github.com/sngm3741/makoto-diary/api/internal/interfaces/http/studio"
	ledgerapp "github.com/sngm3741/makoto-diary/api/internal/ledger/application"
	"github.com/sngm3741/makoto-diary/api/internal/platform/logging"
	profileapp "github.com/sngm3741/makoto-diary/api/internal/profile/application"
)

// Server は HTTP サーバーのライフサイクルを管理し、各サービスをハンドラへ注入するコンポジションルート。
type Server struct {
	logger         *zap.Logger
	client         *mongo.Client
	database       *mongo.Database
	collections    mongodoc.CollectionNames
	jwt            config.JWTConfig
	addr           string
	allowedOrigins []string
	studio         *studio.Handler
}

// New は Config と Mongo クライアントからリポジトリ・サービス・ハンドラを組み立てる。
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	logger := logging.OrNop(cfg.Logger)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.FixedZone("JST", 9*60*60)
		logger.Warn("タイムゾーンの読み込みに失敗したため JST を使用します", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	level, err := prompt.ParseDetailLevel(cfg.PromptDetailLevel)
	if err != nil {
		return nil, err
	}
	table, err := prompt.LoadTable(level)
	if err != nil {
		return nil, fmt.Errorf("load prompt table: %w", err)
	}
	themes, err := prompt.NewThemeStrategy(cfg.ThemeStrategy, table)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		logger:   logger,
		client:   client,
		database: client.Database(cfg.MongoDatabase),
		collections: mongodoc.CollectionNames{
			Settings:   cfg.SettingsCollection,
			Diaries:    cfg.DiaryCollection,
			Sales:      cfg.SalesCollection,
			Attendance: cfg.AttendanceCollection,
		},
		jwt:            cfg.JWT,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	readCache := cache.New(cfg.CacheSize)
	transactor := mongodoc.NewTransactor(client, logger)
	settingsRepo := mongodoc.NewSettingsRepository(srv.database.Collection(cfg.SettingsCollection), readCache, logger)
	diaryRepo := mongodoc.NewDiaryRepository(srv.database.Collection(cfg.DiaryCollection), readCache, logger)
	salesRepo := mongodoc.NewSalesRepository(srv.database.Collection(cfg.SalesCollection), readCache, transactor, logger)
	attendanceRepo := mongodoc.NewAttendanceRepository(srv.database.Collection(cfg.AttendanceCollection), readCache, logger)

	var generator diaryapp.Generator
	if ai := openai.NewClient(openai.Config{
		APIKey:      cfg.OpenAI.APIKey,
		BaseURL:     cfg.OpenAI.BaseURL,
		Model:       cfg.OpenAI.Model,
		Temperature: cfg.OpenAI.Temperature,
		MaxTokens:   cfg.OpenAI.MaxTokens,
	}, logger); ai != nil {
		generator = ai
	} else {
		logger.Warn("OPENAI_API_KEY が未設定のため生成は無効です")
	}

	settingsService := profileapp.NewSettingsService(settingsRepo)
	srv.studio = studio.NewHandler(studio.Config{
		Logger:    logger,
		Settings:  settingsService,
		Diaries:   diaryapp.NewDiaryService(diaryRepo, settingsService, loc),
		Generator: diaryapp.NewGenerateService(prompt.NewAssembler(table, themes), settingsService, generator, logger),
		Calendar:  ledgerapp.NewCalendarService(salesRepo, attendanceRepo, settingsService),
	})
	return srv, nil
}

// Run はインデックスを用意してから HTTP サーバーを起動し、シグナル受信まで待つ。
func (s *Server) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := mongodoc.EnsureIndexes(ctx, s.database, s.collections); err != nil {
		s.logger.Warn("インデックスの作成に失敗しました", zap.Error(err))
	}
	cancel()

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP サーバー起動", zap.String("addr", s.addr))
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

func (s *Server) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Route("/api", func(r chi.Router) {
		s.studio.Register(r, s.authMiddleware)
	})
	return router
}

// withCORS は許可されたオリジン情報をもとに CORS ヘッダーを付与するミドルウェアを返す。
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler は MongoDB への疎通だけを確認する。
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			common.WriteJSON(s.logger, w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		common.WriteJSON(s.logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Warn("MongoDB 切断時にエラー", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Error("サーバーが異常終了", zap.Error(err))
			runErr = err
		}
	case sig := <-sigChan:
		srv.logger.Info("シグナルを受信。サーバー停止処理を開始します。", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Warn("サーバー停止時にエラー", zap.Error(err))
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
