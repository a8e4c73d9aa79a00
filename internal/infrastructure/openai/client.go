package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/logging"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.8
	DefaultMaxTokens   = 800

	genericFailure = "AI生成に失敗しました"
)

var (
	titlePattern   = regexp.MustCompile(`"title":\s*"([^"]+)"`)
	contentPattern = regexp.MustCompile(`"content":\s*"([^"]+)"`)
)

// Config は生成クライアントの接続設定。APIKey が空の場合 NewClient は nil を返す。
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req goopenai.ChatCompletionRequest) (goopenai.ChatCompletionResponse, error)
}

// Client は Chat Completions API で日記のタイトルと本文を生成する。
type Client struct {
	api         chatCompleter
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewClient は Config からクライアントを組み立てる。資格情報が無ければ nil。
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}
	apiConfig := goopenai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		apiConfig.BaseURL = base
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = DefaultTemperature
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{
		api:         goopenai.NewClientWithConfig(apiConfig),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		logger:      logging.OrNop(logger),
	}
}

// Generate は system / user メッセージを送り、JSON 応答をタイトルと本文に分解する。
func (c *Client) Generate(ctx context.Context, system, user, theme string) (domain.GeneratedPost, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: c.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		mapped := mapError(err)
		c.logger.Error("AI生成エラー", zap.String("model", c.model), zap.Error(err))
		return domain.GeneratedPost{}, mapped
	}

	raw := ""
	if len(resp.Choices) > 0 {
		raw = resp.Choices[0].Message.Content
	}
	return ParseGeneratedPost(raw, theme), nil
}

func mapError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		message := strings.TrimSpace(apiErr.Message)
		if message == "" {
			message = genericFailure
		}
		return &domain.GenerationError{Status: apiErr.HTTPStatusCode, Message: message}
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return &domain.GenerationError{Status: reqErr.HTTPStatusCode, Message: genericFailure}
	}
	if isTransportError(err) {
		return domain.ErrGenerationOffline
	}
	return &domain.GenerationError{Message: genericFailure}
}

func isTransportError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

type generatedPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ParseGeneratedPost は生成テキストを解釈する。JSON として読めなければ
// "title" / "content" を正規表現で拾い、それも無ければ theme と生テキストを使う。
func ParseGeneratedPost(raw, theme string) domain.GeneratedPost {
	var payload generatedPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		payload = generatedPayload{}
		if match := titlePattern.FindStringSubmatch(raw); match != nil {
			payload.Title = match[1]
		}
		if match := contentPattern.FindStringSubmatch(raw); match != nil {
			payload.Content = match[1]
		}
	}
	post := domain.GeneratedPost{Title: payload.Title, Content: payload.Content}
	if post.Title == "" {
		post.Title = theme
	}
	if post.Content == "" {
		post.Content = raw
	}
	return post
}
