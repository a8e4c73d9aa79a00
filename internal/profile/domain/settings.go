package domain

import (
	"errors"
	"time"
)

// ErrLastShop は最後の 1 店舗を削除しようとしたときに返す。
var ErrLastShop = errors.New("最低1つの店舗設定が必要です")

// ErrShopIndexOutOfRange は存在しない店舗インデックスを指定したときに返す。
var ErrShopIndexOutOfRange = errors.New("店舗設定が見つかりません")

// UserSettings はユーザー単位の設定ドキュメント。
type UserSettings struct {
	ID               string
	UserID           string
	Shops            []ShopProfile
	CurrentShopIndex int
	EndingTemplates  []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DefaultUserSettings は未保存ユーザー向けの空店舗 1 件の設定を返す。
func DefaultUserSettings(userID string) UserSettings {
	return UserSettings{
		UserID: userID,
		Shops:  []ShopProfile{{}},
	}
}

// Normalize は店舗が 0 件なら空店舗を補い、範囲外の選択インデックスを 0 に戻す。
func (u UserSettings) Normalize() UserSettings {
	shops := make([]ShopProfile, 0, len(u.Shops))
	for _, shop := range u.Shops {
		shops = append(shops, shop.Normalize())
	}
	if len(shops) == 0 {
		shops = append(shops, ShopProfile{})
	}
	u.Shops = shops
	if u.CurrentShopIndex < 0 || u.CurrentShopIndex >= len(u.Shops) {
		u.CurrentShopIndex = 0
	}
	u.EndingTemplates = cleanList(u.EndingTemplates)
	return u
}

// ShopAt は index の店舗を返す。範囲外は ErrShopIndexOutOfRange。
func (u UserSettings) ShopAt(index int) (ShopProfile, error) {
	if index < 0 || index >= len(u.Shops) {
		return ShopProfile{}, ErrShopIndexOutOfRange
	}
	return u.Shops[index], nil
}

// CurrentShop は選択中の店舗を返す。インデックスが不正なら先頭の店舗。
func (u UserSettings) CurrentShop() (ShopProfile, bool) {
	if len(u.Shops) == 0 {
		return ShopProfile{}, false
	}
	if u.CurrentShopIndex < 0 || u.CurrentShopIndex >= len(u.Shops) {
		return u.Shops[0], true
	}
	return u.Shops[u.CurrentShopIndex], true
}

// ResolveShop は明示指定があればそれを、なければ選択中の店舗を返す。
// 明示指定が範囲外の場合は先頭の店舗に寄せる。
func (u UserSettings) ResolveShop(requested *int) (ShopProfile, bool) {
	if len(u.Shops) == 0 {
		return ShopProfile{}, false
	}
	if requested != nil {
		if shop, err := u.ShopAt(*requested); err == nil {
			return shop, true
		}
		return u.Shops[0], true
	}
	return u.CurrentShop()
}

// AddShop は空の店舗を末尾に追加し、追加した店舗を選択状態にする。
func (u *UserSettings) AddShop() int {
	u.Shops = append(u.Shops, ShopProfile{})
	u.CurrentShopIndex = len(u.Shops) - 1
	return u.CurrentShopIndex
}

// RemoveShop は index の店舗を削除する。最後の 1 件は削除できない。
// 選択中より前の店舗を削除した場合は選択インデックスを 1 つ左へずらす。
func (u *UserSettings) RemoveShop(index int) error {
	if len(u.Shops) <= 1 {
		return ErrLastShop
	}
	if index < 0 || index >= len(u.Shops) {
		return ErrShopIndexOutOfRange
	}
	u.Shops = append(u.Shops[:index:index], u.Shops[index+1:]...)
	switch {
	case u.CurrentShopIndex > index:
		u.CurrentShopIndex--
	case u.CurrentShopIndex >= len(u.Shops):
		u.CurrentShopIndex = len(u.Shops) - 1
	}
	return nil
}

// EndingTemplate は締めテンプレートを取得する。
func (u UserSettings) EndingTemplate(index int) (string, bool) {
	if index < 0 || index >= len(u.EndingTemplates) {
		return "", false
	}
	return u.EndingTemplates[index], true
}

// ShopOption は店舗切り替え UI 向けの表示名付き一覧要素。
type ShopOption struct {
	Index int
	Name  string
}

// ShopOptions は全店舗の表示名一覧を返す。
func (u UserSettings) ShopOptions() []ShopOption {
	options := make([]ShopOption, 0, len(u.Shops))
	for i, shop := range u.Shops {
		options = append(options, ShopOption{Index: i, Name: shop.DisplayName(i)})
	}
	return options
}
