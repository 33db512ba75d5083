package config

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// ColorScheme is a named palette a template can be rendered with.
type ColorScheme struct {
	Code       string `json:"code" mapstructure:"code"`
	Name       string `json:"name" mapstructure:"name"`
	Primary    string `json:"primary" mapstructure:"primary"`
	Secondary  string `json:"secondary" mapstructure:"secondary"`
	Background string `json:"background" mapstructure:"background"`
	Text       string `json:"text" mapstructure:"text"`
}

// ThemeConfig is the operator-tunable presentation config: the color schemes
// offered to every template.
type ThemeConfig struct {
	ColorSchemes []ColorScheme `mapstructure:"colorSchemes"`
}

func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorSchemes: []ColorScheme{
			{Code: "midnight", Name: "Midnight", Primary: "#6366f1", Secondary: "#a5b4fc", Background: "#0f172a", Text: "#e2e8f0"},
			{Code: "daybreak", Name: "Daybreak", Primary: "#f59e0b", Secondary: "#fcd34d", Background: "#fffbeb", Text: "#1c1917"},
			{Code: "forest", Name: "Forest", Primary: "#059669", Secondary: "#6ee7b7", Background: "#f0fdf4", Text: "#064e3b"},
			{Code: "mono", Name: "Monochrome", Primary: "#171717", Secondary: "#737373", Background: "#fafafa", Text: "#171717"},
		},
	}
}

// ThemeConfigHolder exposes an atomic snapshot of the theme config so request
// handlers never observe a half-applied reload.
type ThemeConfigHolder struct {
	current atomic.Value // holds ThemeConfig
}

func NewThemeConfigHolder() (*ThemeConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("themes")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/sparklink/config")
	v.AddConfigPath("/etc/sparklink")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SPARKLINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := DefaultThemeConfig()
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No themes.yml anywhere; the built-in palettes apply.
	} else {
		if err := v.UnmarshalKey("themes", &cfg); err != nil {
			return nil, err
		}
	}
	if err := validateThemeConfig(cfg); err != nil {
		return nil, err
	}

	holder := &ThemeConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		// zap globals: the holder is built before the fx logger exists.
		var updated ThemeConfig
		if err := v.UnmarshalKey("themes", &updated); err != nil {
			zap.L().Warn("theme config reload failed", zap.Error(err))
			return
		}
		if err := validateThemeConfig(updated); err != nil {
			zap.L().Warn("theme config rejected", zap.Error(err))
			return
		}
		holder.current.Store(updated)
		zap.L().Info("theme config reloaded", zap.String("file", e.Name))
	})

	return holder, nil
}

// NewStaticThemeConfigHolder pins the holder to cfg without file watching.
// Used by tests.
func NewStaticThemeConfigHolder(cfg ThemeConfig) (*ThemeConfigHolder, error) {
	if err := validateThemeConfig(cfg); err != nil {
		return nil, err
	}
	holder := &ThemeConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func (h *ThemeConfigHolder) Get() ThemeConfig {
	return h.current.Load().(ThemeConfig)
}

// Scheme looks up a color scheme by code in the current snapshot.
func (h *ThemeConfigHolder) Scheme(code string) (ColorScheme, bool) {
	for _, s := range h.Get().ColorSchemes {
		if s.Code == code {
			return s, true
		}
	}
	return ColorScheme{}, false
}

func validateThemeConfig(cfg ThemeConfig) error {
	if len(cfg.ColorSchemes) == 0 {
		return errors.New("themes.colorSchemes cannot be empty")
	}
	seen := map[string]bool{}
	for _, s := range cfg.ColorSchemes {
		if strings.TrimSpace(s.Code) == "" {
			return errors.New("themes.colorSchemes entries need a code")
		}
		if seen[s.Code] {
			return errors.New("themes.colorSchemes codes must be unique")
		}
		seen[s.Code] = true
	}
	return nil
}
