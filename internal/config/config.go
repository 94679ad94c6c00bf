// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for
// consent-keeper. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: cryptographic keys and token
	// parameters.
	App App `envPrefix:"APP_"`

	// Storage holds the submission store, hash chain, and evidence database
	// settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Timestamp holds the trusted-timestamp authority settings.
	Timestamp Timestamp `envPrefix:"TSA_"`

	// Notice describes the consent notice version currently in force.
	Notice Notice `envPrefix:"NOTICE_"`

	// OTP holds one-time-passcode parameters.
	OTP OTP `envPrefix:"OTP_"`

	// Grants holds download-grant parameters.
	Grants Grants `envPrefix:"GRANTS_"`

	// Workers holds the background sweep intervals.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control encryption
// and download-token signing.
type App struct {
	// MasterKey is the secret all per-field encryption keys are derived
	// from. Must be kept confidential.
	// Env: APP_MASTER_KEY
	MasterKey string `env:"MASTER_KEY"`

	// KDFIterations is the PBKDF2 iteration count used for per-blob key
	// derivation. Zero selects the built-in floor (100000).
	// Env: APP_KDF_ITERATIONS
	KDFIterations int `env:"KDF_ITERATIONS"`

	// TokenSignKey is the secret key used to sign and verify download
	// tokens. Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued download
	// token and validated on redemption.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the persistence settings.
type Storage struct {
	// DataDir is the directory holding per-submission storage units.
	// Env: STORAGE_DATA_DIR
	DataDir string `env:"DATA_DIR"`

	// ChainFile is the path of the append-only hash chain file. Defaults to
	// <DataDir>/chain.json.
	// Env: STORAGE_CHAIN_FILE
	ChainFile string `env:"CHAIN_FILE"`

	// RetentionDays is the retention window applied to new submissions.
	// Env: STORAGE_RETENTION_DAYS
	RetentionDays int `env:"RETENTION_DAYS"`

	// ShredPasses is how many random-byte overwrite passes secure deletion
	// performs on each storage unit before removal.
	// Env: STORAGE_SHRED_PASSES
	ShredPasses int `env:"SHRED_PASSES"`

	// DB holds the evidence database connection settings (download grants
	// and encrypted evidence bundles).
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the evidence database.
type DB struct {
	// DSN is the data source name. A "postgres://" DSN selects the pgx
	// driver and a shared grant store; anything else is treated as a SQLite
	// file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the inbound HTTP layer.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on, in
	// "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Timestamp holds trusted-timestamp authority settings.
type Timestamp struct {
	// URL is the base URL of the timestamp authority. When empty, every
	// bundle is stamped with an explicitly degraded local timestamp.
	// Env: TSA_URL
	URL string `env:"URL"`

	// Timeout is the hard deadline for a stamp request before the
	// deterministic degraded fallback kicks in.
	// Env: TSA_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Notice describes the active consent notice version.
type Notice struct {
	// Version is the human-assigned notice version label.
	// Env: NOTICE_VERSION
	Version string `env:"VERSION"`

	// ContentHash is the hex SHA-256 of the notice text.
	// Env: NOTICE_CONTENT_HASH
	ContentHash string `env:"CONTENT_HASH"`

	// EffectiveDate is when this version became active, RFC 3339.
	// Env: NOTICE_EFFECTIVE_DATE
	EffectiveDate string `env:"EFFECTIVE_DATE"`
}

// OTP holds one-time-passcode verification parameters.
type OTP struct {
	// CodeLength is the number of digits in a generated code.
	// Env: OTP_CODE_LENGTH
	CodeLength int `env:"CODE_LENGTH"`

	// MaxAttempts is the verification attempt limit per challenge.
	// Env: OTP_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// TTL is how long a challenge stays verifiable.
	// Env: OTP_TTL
	TTL time.Duration `env:"TTL"`
}

// Grants holds download-grant parameters.
type Grants struct {
	// TTL is how long an issued download token remains valid.
	// Env: GRANTS_TTL
	TTL time.Duration `env:"TTL"`

	// MaxUses is how many redemptions a grant allows.
	// Env: GRANTS_MAX_USES
	MaxUses int `env:"MAX_USES"`

	// ExhaustedGrace is how long an exhausted grant record lingers so a
	// redundant retry gets a precise answer before the sweeper collects it.
	// Env: GRANTS_EXHAUSTED_GRACE
	ExhaustedGrace time.Duration `env:"EXHAUSTED_GRACE"`
}

// Workers holds the background sweep intervals. The retention and grant
// sweeps run on independent timers.
type Workers struct {
	// RetentionSweepInterval is how often expired submissions are scanned
	// and securely deleted.
	// Env: WORKERS_RETENTION_SWEEP_INTERVAL
	RetentionSweepInterval time.Duration `env:"RETENTION_SWEEP_INTERVAL"`

	// GrantSweepInterval is how often expired and grace-elapsed grant
	// records are collected.
	// Env: WORKERS_GRANT_SWEEP_INTERVAL
	GrantSweepInterval time.Duration `env:"GRANT_SWEEP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
