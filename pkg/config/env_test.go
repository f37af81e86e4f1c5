package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("ASHES_TEST_STRING", "")
	assert.Equal(t, "fallback", GetEnvString("ASHES_TEST_STRING", "fallback"))

	t.Setenv("ASHES_TEST_STRING", "phoenix")
	assert.Equal(t, "phoenix", GetEnvString("ASHES_TEST_STRING", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 30},
		{"42", 42},
		{" 7 ", 7},
		{"-3", -3},
		{"4.5", 30},
		{"many", 30},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ASHES_TEST_INT", tt.value)
			assert.Equal(t, tt.want, GetEnvInt("ASHES_TEST_INT", 30))
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		def   bool
		want  bool
	}{
		{"", true, true},
		{"1", false, true},
		{"true", false, true},
		{"FALSE", true, false},
		{"f", true, false},
		{"yes", true, true},
		{"yes", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("ASHES_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, GetEnvBool("ASHES_TEST_BOOL", tt.def))
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("ASHES_TEST_DURATION", "1m30s")
	assert.Equal(t, 90*time.Second, GetEnvDuration("ASHES_TEST_DURATION", time.Second))

	t.Setenv("ASHES_TEST_DURATION", "90")
	assert.Equal(t, time.Second, GetEnvDuration("ASHES_TEST_DURATION", time.Second))
}

func TestGetEnvStringList(t *testing.T) {
	def := []string{"default"}

	t.Setenv("ASHES_TEST_LIST", "")
	assert.Equal(t, def, GetEnvStringList("ASHES_TEST_LIST", def))

	t.Setenv("ASHES_TEST_LIST", " https://a.example , ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetEnvStringList("ASHES_TEST_LIST", def))

	t.Setenv("ASHES_TEST_LIST", " , ")
	assert.Equal(t, def, GetEnvStringList("ASHES_TEST_LIST", def))
}
