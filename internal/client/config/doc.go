// Package config loads runtime configuration for the SKD tracker CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the dashboard gRPC endpoint
//	-w int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-o string   directory for downloaded exports ("" disables downloads)
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "export_dir": "exports"
//	}
//
// Keys missing from the file keep their default.
package config
