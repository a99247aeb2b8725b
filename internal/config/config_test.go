package config

import (
	"os"
	"path/filepath"
	"testing"

	"barberm/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
app:
  name: "barberm-test"
database:
  path: "data/test.db"
business:
  working_hours:
    monday: { start: "10:00", end: "20:00" }
    sunday: { closed: true }
  slot_duration_minutes: 30
services:
  - id: 1
    name: "Corte de Cabello Caballero"
    price: 200
    duration_minutes: 30
    available: true
`

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.HTTP.Port)
	assert.Equal(t, "x-api-key", cfg.API.Auth.HeaderAPIKey)
	assert.Equal(t, 365, cfg.Business.MaxBookingDays)
	assert.Equal(t, models.DefaultRefreshIntervalSeconds, cfg.Refresh.IntervalSeconds)
	assert.Equal(t, models.DefaultCleanupDays, cfg.Cleanup.RetentionDays)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_ADMIN_KEY", "secret-key-123")

	path := writeConfig(t, minimalConfig+`
api:
  auth:
    api_keys:
      - key: "${TEST_ADMIN_KEY}"
        name: "admin"
        permissions: ["manage:appointments"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.API.Auth.APIKeys, 1)
	assert.Equal(t, "secret-key-123", cfg.API.Auth.APIKeys[0].Key)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate_RequiresDatabasePath(t *testing.T) {
	path := writeConfig(t, `
business:
  working_hours:
    monday: { start: "10:00", end: "20:00" }
  slot_duration_minutes: 30
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateBusiness(t *testing.T) {
	valid := BusinessConfig{
		WorkingHours:        map[string]DayHours{"monday": {Start: "10:00", End: "20:00"}},
		BreakTime:           TimeWindow{Start: "14:00", End: "15:00"},
		SlotDurationMinutes: 30,
	}
	assert.NoError(t, ValidateBusiness(valid))

	badDay := valid
	badDay.WorkingHours = map[string]DayHours{"moonday": {Start: "10:00", End: "20:00"}}
	assert.Error(t, ValidateBusiness(badDay))

	inverted := valid
	inverted.WorkingHours = map[string]DayHours{"monday": {Start: "20:00", End: "10:00"}}
	assert.Error(t, ValidateBusiness(inverted))

	badBreak := valid
	badBreak.BreakTime = TimeWindow{Start: "15:00", End: "14:00"}
	assert.Error(t, ValidateBusiness(badBreak))

	noSlot := valid
	noSlot.SlotDurationMinutes = 0
	assert.Error(t, ValidateBusiness(noSlot))
}

func TestValidateServices(t *testing.T) {
	valid := []models.Service{
		{ID: 1, Name: "Corte", Price: 200, DurationMinutes: 30},
		{ID: 2, Name: "Barba", Price: 150, DurationMinutes: 30},
	}
	assert.NoError(t, ValidateServices(valid))

	dupID := []models.Service{
		{ID: 1, Name: "Corte", Price: 200, DurationMinutes: 30},
		{ID: 1, Name: "Barba", Price: 150, DurationMinutes: 30},
	}
	assert.Error(t, ValidateServices(dupID))

	dupName := []models.Service{
		{ID: 1, Name: "Corte", Price: 200, DurationMinutes: 30},
		{ID: 2, Name: "corte ", Price: 150, DurationMinutes: 30},
	}
	assert.Error(t, ValidateServices(dupName))

	badDuration := []models.Service{{ID: 1, Name: "Corte", Price: 200}}
	assert.Error(t, ValidateServices(badDuration))

	negativePrice := []models.Service{{ID: 1, Name: "Corte", Price: -1, DurationMinutes: 30}}
	assert.Error(t, ValidateServices(negativePrice))
}
