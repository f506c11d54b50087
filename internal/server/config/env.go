package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is the file read by parseEnv; a missing file is not an error.
var dotenvFile = ".env"

// parseEnv overlays values from environment variables. Variables already set
// in the process environment win over the .env file.
//
//	GRPC_ADDRESS, HTTP_ADDRESS, STORE_DRIVER, STORE_DSN, SECRET_KEY,
//	SESSION_VALIDITY (duration, e.g. "12h"), REDIS_URL,
//	S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	LOG_LEVEL, LOG_FORMAT, ADMIN_USERNAME, ADMIN_PASSWORD
func parseEnv(config *Config) {
	_ = godotenv.Load(dotenvFile)

	lookup(&config.EndpointAddrGRPC, "GRPC_ADDRESS")
	lookup(&config.EndpointAddrHTTP, "HTTP_ADDRESS")
	lookup(&config.StoreDriver, "STORE_DRIVER")
	lookup(&config.StoreDSN, "STORE_DSN")
	lookup(&config.SecretKey, "SECRET_KEY")
	lookup(&config.RedisURL, "REDIS_URL")
	lookup(&config.S3RootUser, "S3_ROOT_USER")
	lookup(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	lookup(&config.S3Bucket, "S3_BUCKET")
	lookup(&config.S3Region, "S3_REGION")
	lookup(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	lookup(&config.LogLevel, "LOG_LEVEL")
	lookup(&config.LogFormat, "LOG_FORMAT")
	lookup(&config.AdminUsername, "ADMIN_USERNAME")
	lookup(&config.AdminPassword, "ADMIN_PASSWORD")

	if v, ok := os.LookupEnv("SESSION_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionValidityDuration = d
	}
}

func lookup(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
