// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config file, a .env file and LEDGER_ prefixed
// environment variables. It provides type-safe access to the settings needed
// by the server and worker processes.
package config
