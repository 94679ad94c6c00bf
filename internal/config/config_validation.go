package config

import (
	"errors"
	"path/filepath"
	"time"
)

// Defaults applied to fields no configuration source set. Secrets and paths
// have no defaults on purpose; they fail validation instead.
const (
	defaultHTTPAddress    = "localhost:8080"
	defaultRequestTimeout = 30 * time.Second
	defaultRetentionDays  = 365
	defaultShredPasses    = 3

	defaultOTPCodeLength  = 6
	defaultOTPMaxAttempts = 3
	defaultOTPTTL         = 5 * time.Minute

	defaultGrantTTL       = 24 * time.Hour
	defaultGrantMaxUses   = 3
	defaultGrantGrace     = time.Minute
	defaultTSATimeout     = 5 * time.Second
	defaultSweepInterval  = time.Hour
	defaultTokenIssuer    = "consent-keeper"
	defaultNoticeVersion  = "unversioned"
	defaultChainFileName  = "chain.json"
	defaultSQLiteFileName = "evidence.db"
)

// applyDefaults fills every optional field left zero after merging all
// sources. Called before validate.
func (c *StructuredConfig) applyDefaults() {
	if c.Server.HTTPAddress == "" {
		c.Server.HTTPAddress = defaultHTTPAddress
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}

	if c.Storage.RetentionDays == 0 {
		c.Storage.RetentionDays = defaultRetentionDays
	}
	if c.Storage.ShredPasses == 0 {
		c.Storage.ShredPasses = defaultShredPasses
	}
	if c.Storage.ChainFile == "" && c.Storage.DataDir != "" {
		c.Storage.ChainFile = filepath.Join(c.Storage.DataDir, defaultChainFileName)
	}
	if c.Storage.DB.DSN == "" && c.Storage.DataDir != "" {
		c.Storage.DB.DSN = filepath.Join(c.Storage.DataDir, defaultSQLiteFileName)
	}

	if c.App.TokenIssuer == "" {
		c.App.TokenIssuer = defaultTokenIssuer
	}

	if c.OTP.CodeLength == 0 {
		c.OTP.CodeLength = defaultOTPCodeLength
	}
	if c.OTP.MaxAttempts == 0 {
		c.OTP.MaxAttempts = defaultOTPMaxAttempts
	}
	if c.OTP.TTL == 0 {
		c.OTP.TTL = defaultOTPTTL
	}

	if c.Grants.TTL == 0 {
		c.Grants.TTL = defaultGrantTTL
	}
	if c.Grants.MaxUses == 0 {
		c.Grants.MaxUses = defaultGrantMaxUses
	}
	if c.Grants.ExhaustedGrace == 0 {
		c.Grants.ExhaustedGrace = defaultGrantGrace
	}

	if c.Timestamp.Timeout == 0 {
		c.Timestamp.Timeout = defaultTSATimeout
	}

	if c.Notice.Version == "" {
		c.Notice.Version = defaultNoticeVersion
	}

	if c.Workers.RetentionSweepInterval == 0 {
		c.Workers.RetentionSweepInterval = defaultSweepInterval
	}
	if c.Workers.GrantSweepInterval == 0 {
		c.Workers.GrantSweepInterval = defaultSweepInterval
	}
}

// validate checks that every setting without a safe default has been
// provided by at least one source.
func (c *StructuredConfig) validate() error {
	var err error

	if c.App.MasterKey == "" {
		err = errors.Join(err, ErrNoMasterKey)
	}
	if c.App.TokenSignKey == "" {
		err = errors.Join(err, ErrNoTokenSignKey)
	}
	if c.Storage.DataDir == "" {
		err = errors.Join(err, ErrNoDataDir)
	}
	if c.Storage.RetentionDays < 0 {
		err = errors.Join(err, ErrBadRetention)
	}

	return err
}
