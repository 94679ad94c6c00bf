// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package chain

import "errors"

// Sentinel errors returned by chain operations. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrLoadingChain is returned when the chain file exists but cannot be
	// read or parsed. The chain is never auto-repaired; this surfaces to an
	// operator.
	ErrLoadingChain = errors.New("error loading hash chain")

	// ErrPersistingChain is returned when writing the updated entry list to
	// disk fails. The in-memory append is discarded in that case.
	ErrPersistingChain = errors.New("error persisting hash chain")

	// ErrCanonicalizingData is returned when an entry payload cannot be
	// serialized to canonical JSON for hashing.
	ErrCanonicalizingData = errors.New("error canonicalizing entry data")
)
