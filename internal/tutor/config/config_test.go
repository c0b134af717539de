package config

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var cfg Config
	cfg.LoadDefaults()

	assert.Equal(t, "tutor.db", cfg.DatabasePath)
	assert.Equal(t, "http://127.0.0.1:8090", cfg.ProviderEndpointAddr)
	assert.Equal(t, "tutor-default", cfg.ProviderModel)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestJsonConfig_Unmarshal(t *testing.T) {
	data := `{
  "database_path": "/tmp/t.db",
  "provider_endpoint_addr": "http://provider:9000",
  "request_timeout": "45s"
}`

	var jc JsonConfig
	require.NoError(t, json.Unmarshal([]byte(data), &jc))

	assert.Equal(t, "/tmp/t.db", jc.DatabasePath)
	assert.Equal(t, "http://provider:9000", jc.ProviderEndpointAddr)
	assert.Equal(t, "", jc.ProviderModel)
	assert.Equal(t, 45*time.Second, jc.RequestTimeout.Duration)
}
