package config

import "github.com/ariel-frischer/changeforge/internal/changelog"

// Defaults returns the default configuration values as koanf keys.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"project":          "",
		"repo_url":         "",
		"output":           "",
		"format":           string(changelog.FormatMarkdown),
		"backup":           true,
		"include_hashes":   false,
		"date_format":      changelog.DefaultDateFormat,
		"exclude_patterns": changelog.DefaultExcludePatterns(),
		"max_commits":      0,
	}
}

// DefaultTemplate returns a fully commented config template for
// 'changeforge init'-style bootstrapping and documentation.
func DefaultTemplate() string {
	return `# Changeforge Configuration
# Project config: .changeforge.yml (this file)
# User config:    ~/.config/changeforge/config.yml
# Every key can be overridden via CHANGEFORGE_* environment variables.

project: ""                 # Name shown in the changelog header (default: repo dir name)
repo_url: ""                # Repository URL for version compare links (empty = no links)
output: ""                  # Output path (default: CHANGELOG.md / .txt / .yaml per format)
format: markdown            # Output format: markdown | text | tree
backup: true                # Back up an existing changelog before overwriting
include_hashes: false       # Append short commit ids to entries
date_format: "2006-01-02"   # Go time layout for release dates
max_commits: 0              # Cap on commits read from history (0 = no cap)

# Commits whose messages match any of these regular expressions are
# dropped from the changelog entirely.
exclude_patterns:
  - '^Merge (branch|pull request|remote-tracking branch) '
  - '(?i)^wip\b'
  - '^fixup! '
  - '^squash! '
`
}
