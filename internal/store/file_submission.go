// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

const (
	metaUnit     = "meta.json"
	formUnit     = "form.json"
	artifactUnit = "artifact.json"
)

// fileSubmissionStorage is the filesystem implementation of
// [SubmissionStorage].
//
// Layout: <root>/submissions/<id>/{meta.json, form.json, artifact.json}.
// The three units are independently readable and independently erasable; the
// retention sweep inspects only meta.json and never touches ciphertext.
//
// Writes to the same submission ID are serialized through a per-ID mutex;
// operations on different IDs run concurrently.
type fileSubmissionStorage struct {
	root        string
	shredPasses int
	logger      *logger.Logger

	// mu guards locks. Entries are never removed: an ID must map to the
	// same mutex for the whole process lifetime, or a writer holding a
	// removed mutex and the next lockFor caller would proceed in parallel.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFileSubmissionStorage constructs a [SubmissionStorage] rooted at
// dataDir. The submissions directory is created eagerly so that a
// misconfigured path fails at startup, not on the first consent.
func NewFileSubmissionStorage(dataDir string, shredPasses int, log *logger.Logger) (SubmissionStorage, error) {
	root := filepath.Join(dataDir, "submissions")
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("error creating submissions directory: %w", err)
	}

	if shredPasses < 1 {
		shredPasses = 1
	}

	return &fileSubmissionStorage{
		root:        root,
		shredPasses: shredPasses,
		logger:      log,
		locks:       make(map[string]*sync.Mutex),
	}, nil
}

// lockFor returns the mutex serializing writes for one submission ID.
func (f *fileSubmissionStorage) lockFor(id string) *sync.Mutex {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.locks[id]
	if !ok {
		l = &sync.Mutex{}
		f.locks[id] = l
	}
	return l
}

func (f *fileSubmissionStorage) dir(id string) string {
	return filepath.Join(f.root, id)
}

// Save implements [SubmissionStorage].
func (f *fileSubmissionStorage) Save(ctx context.Context, sub *models.Submission) error {
	log := logger.FromContext(ctx)

	l := f.lockFor(sub.ID)
	l.Lock()
	defer l.Unlock()

	dir := f.dir(sub.ID)
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("%w: %s", ErrSubmissionExists, sub.ID)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating submission directory: %w", err)
	}

	units := []struct {
		name string
		data any
	}{
		{metaUnit, sub.SubmissionMeta},
		{formUnit, sub.EncryptedForm},
		{artifactUnit, sub.EncryptedArtifact},
	}

	for _, unit := range units {
		if err := writeUnit(filepath.Join(dir, unit.name), unit.data); err != nil {
			log.Err(err).
				Str("func", "fileSubmissionStorage.Save").
				Str("submission_id", sub.ID).
				Str("unit", unit.name).
				Msg("failed to persist submission unit")
			return err
		}
	}

	log.Debug().
		Str("func", "fileSubmissionStorage.Save").
		Str("submission_id", sub.ID).
		Int64("size_bytes", sub.SizeBytes).
		Msg("submission persisted")

	return nil
}

// GetMeta implements [SubmissionStorage].
func (f *fileSubmissionStorage) GetMeta(ctx context.Context, id string) (models.SubmissionMeta, error) {
	var meta models.SubmissionMeta
	if err := readUnit(filepath.Join(f.dir(id), metaUnit), &meta); err != nil {
		return models.SubmissionMeta{}, err
	}
	return meta, nil
}

// GetForm implements [SubmissionStorage].
func (f *fileSubmissionStorage) GetForm(ctx context.Context, id string) (map[string]models.EncryptedBlob, error) {
	form := make(map[string]models.EncryptedBlob)
	if err := readUnit(filepath.Join(f.dir(id), formUnit), &form); err != nil {
		return nil, err
	}
	return form, nil
}

// GetArtifact implements [SubmissionStorage].
func (f *fileSubmissionStorage) GetArtifact(ctx context.Context, id string) (models.EncryptedBlob, error) {
	var blob models.EncryptedBlob
	if err := readUnit(filepath.Join(f.dir(id), artifactUnit), &blob); err != nil {
		return models.EncryptedBlob{}, err
	}
	return blob, nil
}

// Delete implements [SubmissionStorage]. Every unit is overwritten with
// random bytes before removal so raw-disk recovery is not feasible.
// Deleting an absent ID returns nil.
func (f *fileSubmissionStorage) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	l := f.lockFor(id)
	l.Lock()
	defer l.Unlock()

	dir := f.dir(id)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil // already gone, sweep is re-runnable
	}
	if err != nil {
		return fmt.Errorf("error reading submission directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if shredErr := shredFile(path, f.shredPasses); shredErr != nil {
			log.Err(shredErr).
				Str("func", "fileSubmissionStorage.Delete").
				Str("submission_id", id).
				Str("unit", entry.Name()).
				Msg("failed to shred submission unit")
			return shredErr
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("error removing submission directory: %w", err)
	}

	log.Info().
		Str("func", "fileSubmissionStorage.Delete").
		Str("submission_id", id).
		Int("shred_passes", f.shredPasses).
		Msg("submission securely deleted")

	return nil
}

// ListMeta implements [SubmissionStorage]. Unreadable metadata is logged and
// skipped so one corrupted record never blocks a sweep.
func (f *fileSubmissionStorage) ListMeta(ctx context.Context) ([]models.SubmissionMeta, error) {
	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("error reading submissions directory: %w", err)
	}

	metas := make([]models.SubmissionMeta, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		var meta models.SubmissionMeta
		if readErr := readUnit(filepath.Join(f.root, entry.Name(), metaUnit), &meta); readErr != nil {
			log.Warn().
				Err(readErr).
				Str("func", "fileSubmissionStorage.ListMeta").
				Str("submission_id", entry.Name()).
				Msg("skipping submission with unreadable metadata")
			continue
		}

		metas = append(metas, meta)
	}

	return metas, nil
}

// writeUnit serializes data to JSON and writes it via temp-file-then-rename
// so readers never observe a torn unit.
func writeUnit(path string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("error marshalling storage unit: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("error writing storage unit: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error renaming storage unit: %w", err)
	}

	return nil
}

// readUnit loads one JSON unit into target. A missing file maps to
// [ErrSubmissionNotFound]; an unparsable one to [ErrCorruptedUnit].
func readUnit(path string, target any) error {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSubmissionNotFound, filepath.Base(filepath.Dir(path)))
	}
	if err != nil {
		return fmt.Errorf("error reading storage unit: %w", err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptedUnit, filepath.Base(path), err)
	}

	return nil
}

// shredFile overwrites the file's full length with bytes from the OS CSPRNG
// for the requested number of passes, syncing after each pass, then removes
// it.
func shredFile(path string, passes int) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error inspecting file for shredding: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("error opening file for shredding: %w", err)
	}

	for pass := 0; pass < passes; pass++ {
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			file.Close()
			return fmt.Errorf("error seeking during shred pass %d: %w", pass+1, err)
		}
		if _, err := io.CopyN(file, rand.Reader, info.Size()); err != nil {
			file.Close()
			return fmt.Errorf("error overwriting during shred pass %d: %w", pass+1, err)
		}
		if err := file.Sync(); err != nil {
			file.Close()
			return fmt.Errorf("error syncing during shred pass %d: %w", pass+1, err)
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing shredded file: %w", err)
	}

	return os.Remove(path)
}
