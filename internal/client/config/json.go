package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/skdtracker/internal/flagx"
	"github.com/dmitrijs2005/skdtracker/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Nil fields
// were absent from the file.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ExportDir           *string         `json:"export_dir"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Read or unmarshal errors panic.
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

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ExportDir != nil {
		cfg.ExportDir = *jc.ExportDir
	}
}
