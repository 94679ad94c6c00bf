// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

// Package chain maintains the append-only, tamper-evident evidence log.
//
// The chain is a single ordered sequence of [models.ChainEntry] records
// persisted as one JSON file. Every mutation follows the same read-modify-
// write cycle — load the full list, compute the next entry, write the whole
// list back atomically — and the cycle is serialized through a single mutex.
// Two unsynchronized appends that both read the old tail would both write
// "index N+1" and corrupt the chain irrecoverably, so no chain method ever
// touches the file outside the lock.
package chain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

// genesisData is the payload of entry 0, written on first use.
var genesisData = map[string]any{"type": "genesis"}

// Chain is the file-backed hash chain. Safe for concurrent use.
type Chain struct {
	path   string
	logger *logger.Logger

	// mu serializes every load-append-persist cycle.
	mu sync.Mutex
}

// New opens the chain stored at path, creating the file with a genesis entry
// if it does not exist yet. Parent directories are created as needed.
func New(path string, log *logger.Logger) (*Chain, error) {
	c := &Chain{path: path, logger: log}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(path); err == nil {
		// Existing chain: load once to fail fast on unreadable files.
		if _, loadErr := c.load(); loadErr != nil {
			return nil, loadErr
		}
		return c, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %w", ErrLoadingChain, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistingChain, err)
	}

	genesis, err := buildEntry(0, "", genesisData)
	if err != nil {
		return nil, err
	}
	if err := c.persist([]models.ChainEntry{genesis}); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Msg("hash chain initialized with genesis entry")

	return c, nil
}

// Append adds a new entry carrying data and returns it.
//
// The entry's index is lastIndex+1, its PrevHash is the current tail's hash,
// and its own hash covers index, PrevHash and the canonical form of data.
func (c *Chain) Append(ctx context.Context, data map[string]any) (models.ChainEntry, error) {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load()
	if err != nil {
		log.Err(err).Str("func", "Chain.Append").Msg("failed to load chain before append")
		return models.ChainEntry{}, err
	}

	tail := entries[len(entries)-1]
	entry, err := buildEntry(tail.Index+1, tail.Hash, data)
	if err != nil {
		log.Err(err).Str("func", "Chain.Append").Msg("failed to build chain entry")
		return models.ChainEntry{}, err
	}

	entries = append(entries, entry)
	if err := c.persist(entries); err != nil {
		log.Err(err).Str("func", "Chain.Append").Int64("index", entry.Index).Msg("failed to persist chain")
		return models.ChainEntry{}, err
	}

	log.Debug().
		Str("func", "Chain.Append").
		Int64("index", entry.Index).
		Str("hash", entry.Hash).
		Msg("appended hash chain entry")

	return entry, nil
}

// Head returns the current tail entry.
func (c *Chain) Head(ctx context.Context) (models.ChainEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load()
	if err != nil {
		return models.ChainEntry{}, err
	}

	return entries[len(entries)-1], nil
}

// Verify walks the chain from fromIndex and recomputes every entry.
//
// Both checks run at every step: the stored hash must match its recomputation
// from the entry's declared inputs, and PrevHash must equal the prior entry's
// hash. Trusting stored hashes without recomputation would defeat the
// tamper-evidence the chain exists for. The first failing index is reported.
func (c *Chain) Verify(ctx context.Context, fromIndex int64) (models.ChainVerification, error) {
	log := logger.FromContext(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.load()
	if err != nil {
		return models.ChainVerification{}, err
	}

	if fromIndex < 0 {
		fromIndex = 0
	}

	result := models.ChainVerification{Valid: true}
	for i := fromIndex; i < int64(len(entries)); i++ {
		entry := entries[i]
		result.Entries++

		broken := entry.Index != i
		if !broken && i > 0 {
			broken = entry.PrevHash != entries[i-1].Hash
		}
		if !broken && i == 0 {
			broken = entry.PrevHash != ""
		}
		if !broken {
			recomputed, hashErr := computeHash(entry.Index, entry.PrevHash, entry.Data)
			broken = hashErr != nil || recomputed != entry.Hash
		}

		if broken {
			idx := i
			result.Valid = false
			result.BrokenAtIndex = &idx

			log.Error().
				Str("func", "Chain.Verify").
				Int64("broken_at_index", idx).
				Msg("hash chain verification failed")

			return result, nil
		}
	}

	return result, nil
}

// load reads the whole entry list. Callers must hold c.mu.
func (c *Chain) load() ([]models.ChainEntry, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingChain, err)
	}

	var entries []models.ChainEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingChain, err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: chain file is empty", ErrLoadingChain)
	}

	return entries, nil
}

// persist writes the whole entry list to a temp file and renames it over the
// chain file, so readers never observe a torn write. Callers must hold c.mu.
func (c *Chain) persist(entries []models.ChainEntry) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistingChain, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistingChain, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistingChain, err)
	}

	return nil
}

// buildEntry computes the hash for a prospective entry and assembles it.
func buildEntry(index int64, prevHash string, data map[string]any) (models.ChainEntry, error) {
	hash, err := computeHash(index, prevHash, data)
	if err != nil {
		return models.ChainEntry{}, err
	}

	return models.ChainEntry{
		Index:     index,
		Timestamp: time.Now().UTC(),
		PrevHash:  prevHash,
		Data:      data,
		Hash:      hash,
	}, nil
}

// computeHash derives SHA-256(index ‖ prevHash ‖ canonical(data)).
// encoding/json sorts map keys, which gives the canonical form.
func computeHash(index int64, prevHash string, data map[string]any) (string, error) {
	canonical, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCanonicalizingData, err)
	}

	h := sha256.New()
	h.Write([]byte(strconv.FormatInt(index, 10)))
	h.Write([]byte(prevHash))
	h.Write(canonical)

	return hex.EncodeToString(h.Sum(nil)), nil
}
