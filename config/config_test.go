package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithoutFiles(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("ADMIN_USERNAME", "")

	c, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "techblog", c.Mongo.DBName)
	assert.Equal(t, 200, c.Content.WordsPerMinute)
	assert.Equal(t, 150, c.Content.ExcerptLength)
	assert.Equal(t, 10, c.Content.PageSize)
	assert.Equal(t, 12, c.Content.CategoryPageSize)
	assert.Equal(t, 24*time.Hour, c.Admin.TokenTTL)
	assert.Equal(t, "/uploads", c.Uploads.URLPrefix)
	assert.False(t, c.KafkaEnabled())
}

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	yml := `
server:
  addr: ":9090"
  site_url: "https://blog.example.com/"
mongo:
  db_name: "fromyaml"
admin:
  username: "yaml-admin"
content:
  strip_orphan_placeholders: true
kafka:
  enabled: true
  bootstrap_servers: "localhost:9092"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte(yml), 0o644))
	t.Setenv("ADMIN_USERNAME", "env-admin")
	t.Setenv("MONGODB_DB", "")

	c, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, "https://blog.example.com", c.Server.SiteURL)
	assert.Equal(t, "fromyaml", c.Mongo.DBName)
	assert.Equal(t, "env-admin", c.Admin.Username)
	assert.True(t, c.Content.StripOrphanPlaceholders)
	assert.True(t, c.KafkaEnabled())
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CONFIG_FILE), []byte("server: [unterminated"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
