package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	// Verify the tui command is registered
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
}

func TestTUICmd_LongDescription(t *testing.T) {
	assert.Contains(t, tuiCmd.Long, "interactive terminal user interface")
	assert.Contains(t, tuiCmd.Long, "Controls:")
}

func TestSetTUIConfig(t *testing.T) {
	config := &TUIConfig{
		AnswerService:   &mockAnswerService{},
		CatalogService:  &mockCatalogService{},
		IngestService:   &mockIngestService{},
		JobService:      &mockJobService{},
		SettingsService: &mockSettingsService{},
	}

	SetTUIConfig(config)

	assert.Equal(t, config, tuiConfig)

	// Cleanup
	tuiConfig = nil
}

func TestTUICmd_HelpOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"tui", "--help"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "interactive terminal user interface")
	assert.Contains(t, output, "Controls:")
}

func TestTUIConfig_Fields(t *testing.T) {
	config := &TUIConfig{
		AnswerService:   &mockAnswerService{},
		CatalogService:  &mockCatalogService{},
		IngestService:   &mockIngestService{},
		JobService:      &mockJobService{},
		SettingsService: &mockSettingsService{},
	}

	assert.NotNil(t, config.AnswerService)
	assert.NotNil(t, config.CatalogService)
	assert.NotNil(t, config.IngestService)
	assert.NotNil(t, config.JobService)
	assert.NotNil(t, config.SettingsService)
}
