package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvString(t *testing.T) {
	t.Setenv("ASHES_SCHEDULE", "")
	result := LoadEnvString("ASHES_SCHEDULE", "*/15 * * * *", ValidateCronSchedule)
	assert.Equal(t, "*/15 * * * *", result.Value)
	assert.False(t, result.FallbackApplied)
	assert.Empty(t, result.Warnings)

	t.Setenv("ASHES_SCHEDULE", "0 * * * *")
	result = LoadEnvString("ASHES_SCHEDULE", "*/15 * * * *", ValidateCronSchedule)
	assert.Equal(t, "0 * * * *", result.Value)
	assert.False(t, result.FallbackApplied)

	t.Setenv("ASHES_SCHEDULE", "whenever")
	result = LoadEnvString("ASHES_SCHEDULE", "*/15 * * * *", ValidateCronSchedule)
	assert.Equal(t, "*/15 * * * *", result.Value)
	assert.True(t, result.FallbackApplied)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Invalid ASHES_SCHEDULE='whenever'")
	assert.Contains(t, result.Warnings[0], "falling back to default '*/15 * * * *'")
}

func TestLoadEnvString_NilValidator(t *testing.T) {
	t.Setenv("ASHES_NAME", "anything goes")
	result := LoadEnvString("ASHES_NAME", "default", nil)
	assert.Equal(t, "anything goes", result.Value)
	assert.False(t, result.FallbackApplied)
}

func TestLoadEnvInt(t *testing.T) {
	inRange := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	tests := []struct {
		name         string
		value        string
		want         int
		wantFallback bool
		wantWarning  string
	}{
		{"unset", "", 9090, false, ""},
		{"valid", "8081", 8081, false, ""},
		{"padded", " 8081 ", 8081, false, ""},
		{"not a number", "ninety", 9090, true, "invalid integer format"},
		{"float", "80.5", 9090, true, "invalid integer format"},
		{"out of range", "80", 9090, true, "below minimum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("ASHES_PORT", tt.value)
			result := LoadEnvInt("ASHES_PORT", 9090, inRange)
			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantWarning != "" {
				require.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], tt.wantWarning)
			}
		})
	}
}

func TestLoadEnvDuration(t *testing.T) {
	t.Setenv("ASHES_TIMEOUT", "45s")
	result := LoadEnvDuration("ASHES_TIMEOUT", 2*time.Minute, ValidatePositiveDuration)
	assert.Equal(t, 45*time.Second, result.Value)
	assert.False(t, result.FallbackApplied)

	t.Setenv("ASHES_TIMEOUT", "45")
	result = LoadEnvDuration("ASHES_TIMEOUT", 2*time.Minute, ValidatePositiveDuration)
	assert.Equal(t, 2*time.Minute, result.Value)
	assert.True(t, result.FallbackApplied)
	assert.Contains(t, result.Warnings[0], "falling back to default '2m0s'")

	t.Setenv("ASHES_TIMEOUT", "-1s")
	result = LoadEnvDuration("ASHES_TIMEOUT", 2*time.Minute, ValidatePositiveDuration)
	assert.Equal(t, 2*time.Minute, result.Value)
	assert.Contains(t, result.Warnings[0], "must be positive")
}

func TestLoadEnv_CustomParser(t *testing.T) {
	parse := func(s string) ([]byte, error) {
		if s == "bad" {
			return nil, errors.New("unreadable")
		}
		return []byte(s), nil
	}

	t.Setenv("ASHES_BYTES", "bad")
	result := LoadEnv("ASHES_BYTES", []byte("ok"), parse, nil)
	assert.Equal(t, []byte("ok"), result.Value)
	assert.True(t, result.FallbackApplied)
	assert.Contains(t, result.Warnings[0], "unreadable")
}
