package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-rent-must-flow/internal/common"
	"github.com/Veraticus/the-rent-must-flow/internal/engine"
	"github.com/Veraticus/the-rent-must-flow/internal/model"
	"github.com/Veraticus/the-rent-must-flow/internal/pattern"
	"github.com/Veraticus/the-rent-must-flow/internal/performance"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// DefaultDatabasePath is used when database.path is not configured.
const DefaultDatabasePath = "~/.local/share/rent/rent.db"

// categoryKeys maps config keys to the accounting class their synonyms join.
var categoryKeys = map[string]model.AccountingClass{
	"categories.income":            model.ClassIncome,
	"categories.operating_expense": model.ClassOperatingExpense,
	"categories.asset":             model.ClassAsset,
	"categories.liability":         model.ClassLiability,
	"categories.equity":            model.ClassEquity,
}

// DatabasePath returns the configured database path with ~ and environment
// variables expanded.
func DatabasePath(v *viper.Viper) string {
	path := v.GetString("database.path")
	if path == "" {
		path = DefaultDatabasePath
	}
	return ExpandPath(path)
}

// LoadVocabulary merges the configured category synonyms into the default
// vocabulary. Each categories.* key may hold a list or a comma separated
// string.
func LoadVocabulary(v *viper.Viper) (*performance.Vocabulary, error) {
	extra := make(map[model.AccountingClass][]string)
	for key, class := range categoryKeys {
		raw := v.Get(key)
		if raw == nil {
			continue
		}

		var words []string
		if s, ok := raw.(string); ok {
			words = strings.Split(s, ",")
		} else {
			list, err := cast.ToStringSliceE(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s must be a list of strings: %v", common.ErrInvalidConfig, key, err)
			}
			words = list
		}

		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				extra[class] = append(extra[class], w)
			}
		}
	}

	if len(extra) == 0 {
		return performance.DefaultVocabulary(), nil
	}
	return performance.DefaultVocabulary().Merge(extra), nil
}

// LoadEngineConfig loads engine settings from Viper. It follows this
// precedence:
// 1. Viper configuration (from config file or RENT_ env vars)
// 2. engine.DefaultConfig values
func LoadEngineConfig(v *viper.Viper) (engine.Config, error) {
	config := engine.DefaultConfig()

	if v.IsSet("engine.workers") {
		workers, err := cast.ToIntE(v.Get("engine.workers"))
		if err != nil || workers <= 0 {
			return config, fmt.Errorf("%w: engine.workers must be a positive integer", common.ErrInvalidConfig)
		}
		config.Workers = workers
	}

	if v.IsSet("engine.amortization_timeout") {
		timeout, err := cast.ToDurationE(v.Get("engine.amortization_timeout"))
		if err != nil || timeout <= 0 {
			return config, fmt.Errorf("%w: engine.amortization_timeout must be a positive duration", common.ErrInvalidConfig)
		}
		config.AmortizationTimeout = timeout
	}

	if v.IsSet("engine.cache") {
		enabled, err := cast.ToBoolE(v.Get("engine.cache"))
		if err != nil {
			return config, fmt.Errorf("%w: engine.cache must be a boolean", common.ErrInvalidConfig)
		}
		config.EnableCache = enabled
	}

	if v.IsSet("engine.retry_attempts") {
		config.Retry.MaxAttempts = cast.ToInt(v.Get("engine.retry_attempts"))
	}
	if v.IsSet("engine.retry_delay") {
		config.Retry.InitialDelay = cast.ToDuration(v.Get("engine.retry_delay"))
	}
	if config.Retry.MaxDelay < config.Retry.InitialDelay {
		config.Retry.MaxDelay = 10 * time.Second
	}

	vocabulary, err := LoadVocabulary(v)
	if err != nil {
		return config, err
	}
	config.Vocabulary = vocabulary

	return config, nil
}

// LoadRules reads the import.rules list and validates each rule against the
// configured vocabulary. An unset key yields no rules.
func LoadRules(v *viper.Viper) ([]pattern.Rule, error) {
	if !v.IsSet("import.rules") {
		return nil, nil
	}

	var rules []pattern.Rule
	if err := v.UnmarshalKey("import.rules", &rules); err != nil {
		return nil, fmt.Errorf("%w: import.rules: %v", common.ErrInvalidConfig, err)
	}

	vocabulary, err := LoadVocabulary(v)
	if err != nil {
		return nil, err
	}
	if err := pattern.NewValidator(vocabulary).ValidateRules(rules); err != nil {
		return nil, fmt.Errorf("%w: import.rules: %w", common.ErrInvalidConfig, err)
	}
	return rules, nil
}
