package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DB_TYPE", "mysql")
	t.Setenv("LLM_TIMEOUT", "15s")
	t.Setenv("LLM_CONCURRENCY", "3")
	t.Setenv("TOKEN_TTL", "bogus")

	cfg := Default()
	applyEnv(cfg)

	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Concurrency)
	// 非法的时长保持默认值
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
}
