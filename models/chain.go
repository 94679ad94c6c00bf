// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package models

import "time"

// ChainEntry is one record of the append-only evidence hash chain.
//
// Entries are immutable once written. For every entry at index i > 0,
// PrevHash equals the Hash of entry i-1; the genesis entry (index 0) has an
// empty PrevHash. Hash is recomputable from the entry's declared inputs:
// SHA-256(index ‖ prevHash ‖ canonical JSON of Data).
type ChainEntry struct {
	// Index is the monotonic position of the entry, starting at 0 for the
	// genesis entry.
	Index int64 `json:"index"`

	// Timestamp is when the entry was appended.
	Timestamp time.Time `json:"timestamp"`

	// PrevHash is the hex-encoded hash of the previous entry, empty for
	// genesis.
	PrevHash string `json:"prev_hash,omitempty"`

	// Data is the payload of the entry. Keys are canonicalized (sorted) when
	// the hash is computed.
	Data map[string]any `json:"data"`

	// Hash is the hex-encoded SHA-256 over the entry's index, previous hash
	// and canonical data.
	Hash string `json:"hash"`
}

// ChainVerification is the result of walking the chain and recomputing every
// entry hash and linkage.
type ChainVerification struct {
	// Valid is true when every hash matches its recomputation and every
	// PrevHash equals the prior entry's Hash.
	Valid bool `json:"valid"`

	// BrokenAtIndex is the first index at which either check failed.
	// Nil when Valid is true.
	BrokenAtIndex *int64 `json:"broken_at_index,omitempty"`

	// Entries is the number of entries inspected.
	Entries int `json:"entries"`
}
