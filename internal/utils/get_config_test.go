package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET: from-file\nBOT_TOKEN: bot-from-file\n"), 0o600))

	LoadConfigFile(path)
	t.Cleanup(func() { config = Config{} })

	assert.Equal(t, "bot-from-file", GetConfig("BOT_TOKEN"))

	t.Setenv("JWT_SECRET", "from-env")
	assert.Equal(t, "from-env", GetConfig("JWT_SECRET"))

	assert.Equal(t, "8080", GetConfig("APP_PORT"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
}

func TestValidatorDecimalTags(t *testing.T) {
	InitValidator()

	type amount struct {
		Value decimal.Decimal `validate:"gte=0"`
	}

	assert.NoError(t, Validate.Struct(amount{Value: decimal.NewFromInt(45200)}))
	assert.NoError(t, Validate.Struct(amount{}))
	assert.Error(t, Validate.Struct(amount{Value: decimal.NewFromInt(-1)}))
}
