// Package config loads runtime configuration for the sociopedia CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment: SOCIOPEDIA_SERVER_URL, SOCIOPEDIA_REQUEST_TIMEOUT.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the server HTTP API
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3001",
//	  "request_timeout": "10s"
//	}
package config
