package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/verlato/mathtutor/internal/flagx"
	"github.com/verlato/mathtutor/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify timeouts either as strings like "30s"
// or as integer nanoseconds.
type JsonConfig struct {
	DatabasePath         string         `json:"database_path"`
	ProviderEndpointAddr string         `json:"provider_endpoint_addr"`
	ProviderModel        string         `json:"provider_model"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flags; when neither is given, nothing is
// loaded. Zero-valued JSON fields leave the existing value in place.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.ProviderEndpointAddr != "" {
		cfg.ProviderEndpointAddr = jc.ProviderEndpointAddr
	}
	if jc.ProviderModel != "" {
		cfg.ProviderModel = jc.ProviderModel
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
}
