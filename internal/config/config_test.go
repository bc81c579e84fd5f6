package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changeforge/internal/changelog"
)

func loadFromDir(t *testing.T, dir string) (*Configuration, error) {
	t.Helper()
	return LoadWithOptions(LoadOptions{ProjectDir: dir, SkipUserConfig: true})
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadFromDir(t, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, string(changelog.FormatMarkdown), cfg.Format)
	assert.True(t, cfg.Backup)
	assert.False(t, cfg.IncludeHashes)
	assert.Equal(t, changelog.DefaultDateFormat, cfg.DateFormat)
	assert.Equal(t, changelog.DefaultExcludePatterns(), cfg.ExcludePatterns)
	assert.Zero(t, cfg.MaxCommits)
	assert.Empty(t, cfg.Output)
	assert.Empty(t, cfg.RepoURL)
}

func TestLoad_ProjectYAML(t *testing.T) {
	dir := t.TempDir()
	content := `
project: myproject
format: text
backup: false
include_hashes: true
max_commits: 500
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte(content), 0o644))

	cfg, err := loadFromDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "myproject", cfg.Project)
	assert.Equal(t, "text", cfg.Format)
	assert.False(t, cfg.Backup)
	assert.True(t, cfg.IncludeHashes)
	assert.Equal(t, 500, cfg.MaxCommits)
	// Untouched keys keep their defaults.
	assert.Equal(t, changelog.DefaultDateFormat, cfg.DateFormat)
}

func TestLoad_ProjectJSONFallback(t *testing.T) {
	dir := t.TempDir()
	content := `{"project": "jsonproject", "format": "tree"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigJSONName), []byte(content), 0o644))

	cfg, err := loadFromDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "jsonproject", cfg.Project)
	assert.Equal(t, "tree", cfg.Format)
}

func TestLoad_YAMLPreferredOverJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("project: from-yaml\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigJSONName), []byte(`{"project": "from-json"}`), 0o644))

	cfg, err := loadFromDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cfg.Project)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("format: text\n"), 0o644))

	t.Setenv("CHANGEFORGE_FORMAT", "tree")
	t.Setenv("CHANGEFORGE_PROJECT", "from-env")

	cfg, err := loadFromDir(t, dir)
	require.NoError(t, err)

	assert.Equal(t, "tree", cfg.Format)
	assert.Equal(t, "from-env", cfg.Project)
}

func TestLoad_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("format: pdf\n"), 0o644))

	_, err := loadFromDir(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestLoad_InvalidExcludePattern(t *testing.T) {
	dir := t.TempDir()
	content := "exclude_patterns:\n  - '(unclosed'\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte(content), 0o644))

	_, err := loadFromDir(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling exclude pattern")
}

func TestLoad_NegativeMaxCommits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("max_commits: -1\n"), 0o644))

	_, err := loadFromDir(t, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_commits")
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte("format: [unclosed\n"), 0o644))

	_, err := loadFromDir(t, dir)
	require.Error(t, err)
}

func TestUserConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/xdg")

	path, err := UserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, "/custom/xdg/changeforge/config.yml", path)
}

func TestDefaultTemplate_IsValidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigName), []byte(DefaultTemplate()), 0o644))

	cfg, err := loadFromDir(t, dir)
	require.NoError(t, err)
	assert.Equal(t, string(changelog.FormatMarkdown), cfg.Format)
	assert.Equal(t, changelog.DefaultExcludePatterns(), cfg.ExcludePatterns)
}
