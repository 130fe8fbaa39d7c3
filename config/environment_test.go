package config_test

import (
	"context"
	"testing"

	"github.com/finsight/webhooks/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvironment(t *testing.T) {
	t.Run("success - production", func(t *testing.T) {
		env := config.NewEnvironment("production")
		assert.Equal(t, config.Production, env)
		assert.True(t, env.IsProduction())
	})

	t.Run("success - case and whitespace insensitive", func(t *testing.T) {
		assert.Equal(t, config.Production, config.NewEnvironment("  Production "))
		assert.Equal(t, config.Development, config.NewEnvironment("DEVELOPMENT"))
	})

	t.Run("unknown values default to sandbox", func(t *testing.T) {
		env := config.NewEnvironment("staging")
		assert.Equal(t, config.Sandbox, env)
		assert.False(t, env.IsProduction())
	})
}

func TestEnvironment_Validate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		for _, env := range []config.Environment{config.Production, config.Sandbox, config.Development} {
			require.NoError(t, env.Validate())
		}
	})

	t.Run("error - invalid environment", func(t *testing.T) {
		err := config.Environment("staging").Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid environment")
	})
}

func TestStaticFlags(t *testing.T) {
	ctx := context.Background()

	t.Run("enabled", func(t *testing.T) {
		assert.True(t, config.StaticFlags{Enabled: true}.WebhooksEnabled(ctx))
	})

	t.Run("disabled", func(t *testing.T) {
		assert.False(t, config.StaticFlags{Enabled: false}.WebhooksEnabled(ctx))
	})
}
