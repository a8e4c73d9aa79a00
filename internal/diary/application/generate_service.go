package application

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/diary/prompt"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
	"github.com/sngm3741/makoto-diary/api/internal/platform/logging"
)

type generateService struct {
	assembler *prompt.Assembler
	profiles  ProfileLookup
	generator Generator
	logger    *zap.Logger
}

// NewGenerateService は GenerateService の実装を返す。generator が nil の場合、生成は ErrGeneratorNotConfigured になる。
func NewGenerateService(assembler *prompt.Assembler, profiles ProfileLookup, generator Generator, logger *zap.Logger) GenerateService {
	return &generateService{
		assembler: assembler,
		profiles:  profiles,
		generator: generator,
		logger:    logging.OrNop(logger),
	}
}

func (s *generateService) Generate(ctx context.Context, cmd GenerateCommand) (GenerateResult, error) {
	if !cmd.AutoTheme && strings.TrimSpace(cmd.Theme) == "" {
		return GenerateResult{}, apperr.InvalidField("theme", "テーマを入力するか、おまかせを選択してください")
	}
	if s.generator == nil {
		return GenerateResult{}, domain.ErrGeneratorNotConfigured
	}

	req := prompt.Request{
		Theme:         cmd.Theme,
		AutoTheme:     cmd.AutoTheme,
		Category:      cmd.Category,
		Tone:          cmd.Tone,
		CourseMinutes: cmd.CourseMinutes,
		CustomerType:  cmd.CustomerType,
		OtherInfo:     cmd.OtherInfo,
	}
	if strings.TrimSpace(cmd.UserID) != "" && s.profiles != nil {
		shop, err := s.profiles.ResolveShop(ctx, cmd.UserID, cmd.ShopIndex)
		if err != nil {
			s.logger.Warn("店舗設定の取得に失敗したため設定なしで生成します",
				zap.String("user_id", cmd.UserID),
				zap.Error(err),
			)
		} else {
			req.Shop = shop
		}
	}

	built := s.assembler.Assemble(req)
	post, err := s.generator.Generate(ctx, built.System, built.User, built.Theme)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{Title: post.Title, Content: post.Content, Theme: built.Theme}, nil
}
