// Package config provides configuration loading and validation for the mock
// gateway.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (ACSIGN_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"acs-mock.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx = config.WithContext(ctx, cfg)
//
// # Environment Variables
//
// All config keys map to environment variables with ACSIGN_ prefix:
//   - server.port → ACSIGN_SERVER_PORT
//   - database.dsn → ACSIGN_DATABASE_DSN
//   - auth.max_skew → ACSIGN_AUTH_MAX_SKEW
//
// # Configuration Structure
//
//   - Server: port, body size limit, read timeout
//   - Database: nonce backend type, DSN and table name
//   - Nonce: replay protection switch, retention and purge interval
//   - Auth: whether signatures are required, clock skew, payload hash
//     checking and access keys
//   - CORS: cross-origin resource sharing settings
//   - Log: level and format (text or json)
package config
