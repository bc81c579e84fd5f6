package config

import (
	"fmt"

	"github.com/ariel-frischer/changeforge/internal/changelog"
)

// ValidateValues checks configuration values after loading. Invalid
// values are configuration errors regardless of which source supplied
// them.
func ValidateValues(cfg *Configuration) error {
	if _, err := changelog.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if _, err := changelog.NewExcludeFilter(cfg.ExcludePatterns); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if cfg.MaxCommits < 0 {
		return fmt.Errorf("config: max_commits must not be negative (got %d)", cfg.MaxCommits)
	}

	return nil
}
