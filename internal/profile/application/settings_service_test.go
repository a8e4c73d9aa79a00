package application

import (
	"context"
	"testing"

	"github.com/sngm3741/makoto-diary/api/internal/platform/apperr"
	"github.com/sngm3741/makoto-diary/api/internal/profile/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySettingsRepo struct {
	stored  map[string]domain.UserSettings
	saveErr error
	findErr error
	saves   int
}

func newMemorySettingsRepo() *memorySettingsRepo {
	return &memorySettingsRepo{stored: make(map[string]domain.UserSettings)}
}

func (r *memorySettingsRepo) FindByUser(_ context.Context, userID string) (*domain.UserSettings, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	settings, ok := r.stored[userID]
	if !ok {
		return nil, nil
	}
	return &settings, nil
}

func (r *memorySettingsRepo) Save(_ context.Context, settings domain.UserSettings) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.stored[settings.UserID] = settings
	return nil
}

func TestGetReturnsDefaultForNewUser(t *testing.T) {
	svc := NewSettingsService(newMemorySettingsRepo())

	settings, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", settings.UserID)
	assert.Len(t, settings.Shops, 1)
	assert.Zero(t, settings.CurrentShopIndex)

	_, err = svc.Get(context.Background(), " ")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestGetNormalizesStoredIndex(t *testing.T) {
	repo := newMemorySettingsRepo()
	repo.stored["u1"] = domain.UserSettings{UserID: "u1", Shops: []domain.ShopProfile{{ShopName: "A"}}, CurrentShopIndex: 3}
	svc := NewSettingsService(repo)

	settings, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, settings.CurrentShopIndex)
}

func TestAddAndRemoveShopPersist(t *testing.T) {
	repo := newMemorySettingsRepo()
	svc := NewSettingsService(repo)
	ctx := context.Background()

	settings, err := svc.AddShop(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, settings.Shops, 2)
	assert.Equal(t, 1, settings.CurrentShopIndex)
	assert.Equal(t, 1, repo.saves)

	settings, err = svc.RemoveShop(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, settings.Shops, 1)
	assert.Zero(t, settings.CurrentShopIndex)

	_, err = svc.RemoveShop(ctx, "u1", 0)
	verr, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, domain.ErrLastShop.Error(), verr.Message)

	_, err = svc.AddShop(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.RemoveShop(ctx, "u1", 5)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSavePropagatesOffline(t *testing.T) {
	repo := newMemorySettingsRepo()
	repo.saveErr = apperr.ErrOffline
	svc := NewSettingsService(repo)

	_, err := svc.Save(context.Background(), domain.UserSettings{UserID: "u1"})
	assert.ErrorIs(t, err, apperr.ErrOffline)
}

func TestResolveShop(t *testing.T) {
	repo := newMemorySettingsRepo()
	svc := NewSettingsService(repo)
	ctx := context.Background()

	shop, err := svc.ResolveShop(ctx, "u1", nil)
	require.NoError(t, err)
	assert.Nil(t, shop)

	repo.stored["u1"] = domain.UserSettings{
		UserID:           "u1",
		Shops:            []domain.ShopProfile{{ShopName: "A"}, {ShopName: "B"}},
		CurrentShopIndex: 1,
	}
	shop, err = svc.ResolveShop(ctx, "u1", nil)
	require.NoError(t, err)
	require.NotNil(t, shop)
	assert.Equal(t, "B", shop.ShopName)

	first := 0
	shop, err = svc.ResolveShop(ctx, "u1", &first)
	require.NoError(t, err)
	assert.Equal(t, "A", shop.ShopName)
}

func TestShopAtAndEndingTemplate(t *testing.T) {
	repo := newMemorySettingsRepo()
	repo.stored["u1"] = domain.UserSettings{
		UserID:          "u1",
		Shops:           []domain.ShopProfile{{ShopName: "A"}},
		EndingTemplates: []string{"またね♡"},
	}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	shop, err := svc.ShopAt(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, "A", shop.ShopName)

	_, err = svc.ShopAt(ctx, "u1", 2)
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	tpl, err := svc.EndingTemplate(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Equal(t, "またね♡", tpl)

	_, err = svc.EndingTemplate(ctx, "u1", 1)
	assert.Error(t, err)
}
