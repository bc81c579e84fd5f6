package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "changeforge", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotEmpty(t, rootCmd.Example)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	flag := rootCmd.PersistentFlags().Lookup("debug")
	assert.NotNil(t, flag, "debug flag should exist")
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		use string
	}{
		"generate": {use: "generate [path]"},
		"check":    {use: "check [path]"},
		"config":   {use: "config"},
		"version":  {use: "version"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			found := false
			for _, cmd := range rootCmd.Commands() {
				if cmd.Use == tc.use {
					found = true
					break
				}
			}
			assert.True(t, found, "command %s should be registered", tc.use)
		})
	}
}
