package config

import "errors"

var (
	// ErrNoMasterKey is returned when validation finds no field encryption
	// master key in any configuration source.
	ErrNoMasterKey = errors.New("no master key provided")

	// ErrNoTokenSignKey is returned when validation finds no download token
	// signing key.
	ErrNoTokenSignKey = errors.New("no token sign key provided")

	// ErrNoDataDir is returned when validation finds no submission storage
	// directory.
	ErrNoDataDir = errors.New("no storage data directory provided")

	// ErrBadRetention is returned when the retention window is negative.
	ErrBadRetention = errors.New("retention days must be positive")
)
