package prompt

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables/*.yaml
var tableFiles embed.FS

// DetailLevel はプロンプト文言の詳しさ。
type DetailLevel string

const (
	DetailConcise  DetailLevel = "concise"
	DetailDetailed DetailLevel = "detailed"
)

// ParseDetailLevel は設定値を DetailLevel に変換する。空文字は detailed。
func ParseDetailLevel(value string) (DetailLevel, error) {
	switch DetailLevel(strings.ToLower(strings.TrimSpace(value))) {
	case "", DetailDetailed:
		return DetailDetailed, nil
	case DetailConcise:
		return DetailConcise, nil
	}
	return "", fmt.Errorf("unknown prompt detail level %q", value)
}

// Table はプロンプトの各セクションに差し込む文言一式。
type Table struct {
	Role            string            `yaml:"role"`
	HouseRules      string            `yaml:"house_rules"`
	Industries      map[string]string `yaml:"industries"`
	Categories      map[string]string `yaml:"categories"`
	DetailHeader    string            `yaml:"detail_header"`
	DetailNote      string            `yaml:"detail_note"`
	Tones           map[string]string `yaml:"tones"`
	ProfileHeader   string            `yaml:"profile_header"`
	ProfileFooter   string            `yaml:"profile_footer"`
	CategoryNotes   map[string]string `yaml:"category_notes"`
	WorkHoursNote   string            `yaml:"work_hours_note"`
	OutputFormat    string            `yaml:"output_format"`
	Systems         map[string]string `yaml:"systems"`
	ThemeCandidates []string          `yaml:"theme_candidates"`
}

// LoadTable は埋め込み済みの文言テーブルを読み込む。
func LoadTable(level DetailLevel) (*Table, error) {
	raw, err := tableFiles.ReadFile("tables/" + string(level) + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("read prompt table %s: %w", level, err)
	}
	var table Table
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("decode prompt table %s: %w", level, err)
	}
	if err := table.validate(); err != nil {
		return nil, fmt.Errorf("prompt table %s: %w", level, err)
	}
	return &table, nil
}

func (t *Table) validate() error {
	switch {
	case strings.TrimSpace(t.Role) == "":
		return fmt.Errorf("role is empty")
	case strings.TrimSpace(t.HouseRules) == "":
		return fmt.Errorf("house_rules is empty")
	case strings.TrimSpace(t.OutputFormat) == "":
		return fmt.Errorf("output_format is empty")
	case strings.TrimSpace(t.Systems[defaultSystemKey]) == "":
		return fmt.Errorf("systems.%s is empty", defaultSystemKey)
	}
	return nil
}
