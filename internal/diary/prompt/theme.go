package prompt

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// ThemeStrategy は「テーマおまかせ」時のテーマ決定方法。
type ThemeStrategy interface {
	Resolve(theme string, auto bool) string
}

// DelegateTheme はおまかせ時にテーマを空にし、モデルへ委ねる。
type DelegateTheme struct{}

func (DelegateTheme) Resolve(theme string, auto bool) string {
	if auto {
		return ""
	}
	return strings.TrimSpace(theme)
}

// RandomTheme はおまかせ時に候補からひとつ選ぶ。
type RandomTheme struct {
	candidates []string
	intn       func(n int) int
}

// NewRandomTheme は候補一覧から選ぶ戦略を返す。intn が nil なら math/rand を使う。
func NewRandomTheme(candidates []string, intn func(n int) int) RandomTheme {
	if intn == nil {
		intn = rand.IntN
	}
	cleaned := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			cleaned = append(cleaned, candidate)
		}
	}
	return RandomTheme{candidates: cleaned, intn: intn}
}

func (r RandomTheme) Resolve(theme string, auto bool) string {
	if !auto {
		return strings.TrimSpace(theme)
	}
	if len(r.candidates) == 0 {
		return ""
	}
	return r.candidates[r.intn(len(r.candidates))]
}

// NewThemeStrategy は設定名から戦略を組み立てる。空文字は delegate。
func NewThemeStrategy(name string, table *Table) (ThemeStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "delegate":
		return DelegateTheme{}, nil
	case "random":
		var candidates []string
		if table != nil {
			candidates = table.ThemeCandidates
		}
		return NewRandomTheme(candidates, nil), nil
	}
	return nil, fmt.Errorf("unknown theme strategy %q", name)
}
