package application

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sngm3741/makoto-diary/api/internal/diary/domain"
	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
)

const (
	postDateLayout = "2006-01-02"
	postTimeLayout = "15:04"
)

type diaryService struct {
	repo     DiaryRepository
	profiles ProfileLookup
	location *time.Location
	now      func() time.Time
}

// NewDiaryService は DiaryService の実装を返す。location は投稿日時の既定値の算出に使う。
func NewDiaryService(repo DiaryRepository, profiles ProfileLookup, location *time.Location) DiaryService {
	if location == nil {
		location = time.UTC
	}
	return &diaryService{repo: repo, profiles: profiles, location: location, now: time.Now}
}

func (s *diaryService) Create(ctx context.Context, cmd CreateDiaryCommand) (domain.Entry, error) {
	if strings.TrimSpace(cmd.UserID) == "" {
		return domain.Entry{}, apperr.Invalid("ユーザーが特定できません")
	}
	title := strings.TrimSpace(cmd.Title)
	content := strings.TrimSpace(cmd.Content)
	if title == "" || content == "" {
		return domain.Entry{}, apperr.Invalid("タイトルと本文を入力してください")
	}

	now := s.now().In(s.location)
	postDate := strings.TrimSpace(cmd.PostDate)
	if postDate == "" {
		postDate = now.Format(postDateLayout)
	} else if _, err := time.Parse(postDateLayout, postDate); err != nil {
		return domain.Entry{}, apperr.InvalidField("postDate", "投稿日は YYYY-MM-DD 形式で入力してください")
	}
	postTime := strings.TrimSpace(cmd.PostTime)
	if postTime == "" {
		postTime = now.Format(postTimeLayout)
	} else if _, err := time.Parse(postTimeLayout, postTime); err != nil {
		return domain.Entry{}, apperr.InvalidField("postTime", "投稿時刻は HH:MM 形式で入力してください")
	}

	if cmd.EndingTemplateIndex != nil {
		ending, err := s.profiles.EndingTemplate(ctx, cmd.UserID, *cmd.EndingTemplateIndex)
		if err != nil {
			return domain.Entry{}, err
		}
		content = domain.AppendEnding(content, ending)
	}

	entry := domain.Entry{
		UserID:   cmd.UserID,
		Title:    title,
		Content:  content,
		PostDate: postDate,
		PostTime: postTime,
	}
	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return domain.Entry{}, err
	}
	entry.ID = id
	entry.CreatedAt = now
	entry.UpdatedAt = now
	return entry, nil
}

// List は投稿日時の新しい順で返す。
func (s *diaryService) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.Invalid("ユーザーが特定できません")
	}
	entries, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(entries, func(i, j int) bool {
		left := entries[i].PostDate + " " + entries[i].PostTime
		right := entries[j].PostDate + " " + entries[j].PostTime
		if left != right {
			return left > right
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Detail は所有者が一致する日記を返す。他人の日記は存在しない扱い。
func (s *diaryService) Detail(ctx context.Context, userID, id string) (domain.Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Entry{}, err
	}
	if entry == nil || entry.UserID != userID {
		return domain.Entry{}, apperr.ErrNotFound
	}
	return *entry, nil
}

func (s *diaryService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Detail(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
