package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultsProduceValidConfig(t *testing.T) {
	v, err := InitConfig()
	require.NoError(t, err)
	v.Set("API_KEY", "test-secret")

	cfg, err := GetApplicationConfig(v)
	require.NoError(t, err)

	require.Equal(t, "interview-recorder", cfg.Name)
	require.Equal(t, 8000, cfg.Port)
	require.Equal(t, "test-secret", cfg.ApiKey)
	require.Equal(t, "answers", cfg.AnswersDir)
	require.Equal(t, "session_logs", cfg.LogsDir)
	require.Equal(t, 60, cfg.RequestTimeout)
}

func TestMissingApiKeyFailsValidation(t *testing.T) {
	v, err := InitConfig()
	require.NoError(t, err)

	_, err = GetApplicationConfig(v)
	require.Error(t, err)
}

func TestRequestTimeoutDuration(t *testing.T) {
	v, err := InitConfig()
	require.NoError(t, err)
	v.Set("API_KEY", "k")
	v.Set("REQUEST_TIMEOUT", 5)

	cfg, err := GetApplicationConfig(v)
	require.NoError(t, err)
	require.Equal(t, "5s", cfg.GetRequestTimeout().String())
}
