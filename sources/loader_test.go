package sources_test

import (
	"os"
	"testing"

	"github.com/finsight/webhooks/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSourcesFile(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "sources-*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	tmpFile.Close()

	return tmpFile.Name()
}

func TestLoader_Load(t *testing.T) {
	t.Run("success - valid sources file", func(t *testing.T) {
		path := writeSourcesFile(t, `
sources:
  - name: "bankfeed"
    path: "/v1/webhooks/bankfeed"
    signature_header: "X-Provider-Signature"
    secret: "shared-secret"
  - name: "sandbox-feed"
    path: "/v1/webhooks/sandbox"
    secret_env: "SANDBOX_FEED_SECRET"
`)

		loader := sources.NewLoader()
		require.NoError(t, loader.Load(path))

		assert.Len(t, loader.List(), 2)
		assert.True(t, loader.Exists("bankfeed"))

		source, err := loader.Get("bankfeed")
		require.NoError(t, err)
		assert.Equal(t, "/v1/webhooks/bankfeed", source.Path)
		assert.Equal(t, "X-Provider-Signature", source.SignatureHeader)
		assert.Equal(t, "shared-secret", source.SigningSecret())

		source, err = loader.Get("sandbox-feed")
		require.NoError(t, err)
		assert.Equal(t, sources.DefaultSignatureHeader, source.SignatureHeader, "header defaults when omitted")
	})

	t.Run("success - unverified source without any secret", func(t *testing.T) {
		path := writeSourcesFile(t, `
sources:
  - name: "open-feed"
    path: "/v1/webhooks/open"
`)

		loader := sources.NewLoader()
		require.NoError(t, loader.Load(path))

		source, err := loader.Get("open-feed")
		require.NoError(t, err)
		assert.Empty(t, source.SigningSecret())
	})

	t.Run("success - secret resolved from environment", func(t *testing.T) {
		t.Setenv("BANKFEED_WEBHOOK_SECRET", "env-secret")
		path := writeSourcesFile(t, `
sources:
  - name: "bankfeed"
    path: "/v1/webhooks/bankfeed"
    secret_env: "BANKFEED_WEBHOOK_SECRET"
`)

		loader := sources.NewLoader()
		require.NoError(t, loader.Load(path))

		source, err := loader.Get("bankfeed")
		require.NoError(t, err)
		assert.Equal(t, "env-secret", source.SigningSecret())
	})

	t.Run("error - missing file", func(t *testing.T) {
		loader := sources.NewLoader()
		err := loader.Load("/nonexistent/sources.yaml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading sources file")
	})

	t.Run("error - relative path", func(t *testing.T) {
		path := writeSourcesFile(t, `
sources:
  - name: "bad"
    path: "webhooks/bad"
`)

		err := sources.NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "path must be absolute")
	})

	t.Run("error - secret and secret_env together", func(t *testing.T) {
		path := writeSourcesFile(t, `
sources:
  - name: "bad"
    path: "/v1/webhooks/bad"
    secret: "a"
    secret_env: "B"
`)

		err := sources.NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})

	t.Run("error - missing name", func(t *testing.T) {
		path := writeSourcesFile(t, `
sources:
  - path: "/v1/webhooks/x"
`)

		err := sources.NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestLoader_Get(t *testing.T) {
	t.Run("error - unknown source", func(t *testing.T) {
		_, err := sources.NewLoader().Get("nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source not found")
	})
}
