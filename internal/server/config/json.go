package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/skdtracker/internal/flagx"
	"github.com/dmitrijs2005/skdtracker/internal/timex"
)

// JsonConfig is the on-disk shape of the server configuration file. Interval
// fields use timex.Duration so both "12h" and integer nanoseconds parse.
// Fields left out of the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC        *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP        *string         `json:"endpoint_addr_http"`
	StoreDriver             *string         `json:"store_driver"`
	StoreDSN                *string         `json:"store_dsn"`
	SecretKey               *string         `json:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration"`
	RedisURL                *string         `json:"redis_url"`
	S3RootUser              *string         `json:"s3_root_user"`
	S3RootPassword          *string         `json:"s3_root_password"`
	S3Bucket                *string         `json:"s3_bucket"`
	S3Region                *string         `json:"s3_region"`
	S3BaseEndpoint          *string         `json:"s3_base_endpoint"`
	LogLevel                *string         `json:"log_level"`
	LogFormat               *string         `json:"log_format"`
	AdminUsername           *string         `json:"admin_username"`
	AdminPassword           *string         `json:"admin_password"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flag. Without the flag nothing is loaded. A file that cannot be read
// or parsed panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.StoreDriver, c.StoreDriver)
	set(&config.StoreDSN, c.StoreDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.RedisURL, c.RedisURL)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.LogLevel, c.LogLevel)
	set(&config.LogFormat, c.LogFormat)
	set(&config.AdminUsername, c.AdminUsername)
	set(&config.AdminPassword, c.AdminPassword)
	if c.SessionValidityDuration != nil {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
