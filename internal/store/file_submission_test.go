// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The consent-keeper Authors

package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consentvault/consent-keeper/internal/logger"
	"github.com/consentvault/consent-keeper/models"
)

func newTestSubmissionStorage(t *testing.T) (SubmissionStorage, string) {
	t.Helper()

	dir := t.TempDir()
	storage, err := NewFileSubmissionStorage(dir, 2, logger.Nop())
	require.NoError(t, err)

	return storage, dir
}

func testSubmission(id string) *models.Submission {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	return &models.Submission{
		SubmissionMeta: models.SubmissionMeta{
			ID:          id,
			CreatedAt:   now,
			SizeBytes:   128,
			ContentHash: "abc123",
			Retention: models.RetentionInfo{
				CreatedAt:     now,
				ExpiresAt:     now.AddDate(0, 0, 30),
				RetentionDays: 30,
			},
		},
		EncryptedForm: map[string]models.EncryptedBlob{
			"full_name": {Ciphertext: "enc-name", Salt: "s", IV: "iv", AuthTag: "tag", Algorithm: "aes-256-gcm+pbkdf2-sha256"},
		},
		EncryptedArtifact: models.EncryptedBlob{Ciphertext: "enc-artifact", Salt: "s2", IV: "iv2", AuthTag: "tag2", Algorithm: "aes-256-gcm+pbkdf2-sha256"},
	}
}

func TestFileSubmissionStorage_SaveAndReadUnits(t *testing.T) {
	storage, _ := newTestSubmissionStorage(t)
	ctx := context.Background()

	sub := testSubmission("sub-1")
	require.NoError(t, storage.Save(ctx, sub))

	meta, err := storage.GetMeta(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, sub.SubmissionMeta, meta)

	form, err := storage.GetForm(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, sub.EncryptedForm, form)

	artifact, err := storage.GetArtifact(ctx, "sub-1")
	require.NoError(t, err)
	assert.Equal(t, sub.EncryptedArtifact, artifact)
}

func TestFileSubmissionStorage_SaveDuplicateID(t *testing.T) {
	storage, _ := newTestSubmissionStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, testSubmission("sub-1")))

	err := storage.Save(ctx, testSubmission("sub-1"))
	assert.ErrorIs(t, err, ErrSubmissionExists)
}

func TestFileSubmissionStorage_GetMissing(t *testing.T) {
	storage, _ := newTestSubmissionStorage(t)
	ctx := context.Background()

	_, err := storage.GetMeta(ctx, "absent")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = storage.GetForm(ctx, "absent")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	_, err = storage.GetArtifact(ctx, "absent")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestFileSubmissionStorage_CorruptedUnit(t *testing.T) {
	storage, dir := newTestSubmissionStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, testSubmission("sub-1")))

	metaPath := filepath.Join(dir, "submissions", "sub-1", "meta.json")
	require.NoError(t, os.WriteFile(metaPath, []byte("{not json"), 0o600))

	_, err := storage.GetMeta(ctx, "sub-1")
	assert.ErrorIs(t, err, ErrCorruptedUnit)
}

func TestFileSubmissionStorage_DeleteRemovesAllUnits(t *testing.T) {
	storage, dir := newTestSubmissionStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, testSubmission("sub-1")))
	require.NoError(t, storage.Delete(ctx, "sub-1"))

	_, err := os.Stat(filepath.Join(dir, "submissions", "sub-1"))
	assert.True(t, os.IsNotExist(err))

	_, err = storage.GetMeta(ctx, "sub-1")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestFileSubmissionStorage_DeleteAbsentIsNoop(t *testing.T) {
	storage, _ := newTestSubmissionStorage(t)

	assert.NoError(t, storage.Delete(context.Background(), "never-existed"))
}

func TestFileSubmissionStorage_DeleteKeepsLockIdentity(t *testing.T) {
	storage, _ := newTestSubmissionStorage(t)
	fs := storage.(*fileSubmissionStorage)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, testSubmission("sub-1")))

	before := fs.lockFor("sub-1")
	require.NoError(t, storage.Delete(ctx, "sub-1"))

	assert.Same(t, before, fs.lockFor("sub-1"),
		"writers still holding the mutex and later callers must serialize on the same lock")
}

func TestFileSubmissionStorage_ConcurrentSaveDelete(t *testing.T) {
	storage, _ := newTestSubmissionStorage(t)
	ctx := context.Background()

	const rounds = 50

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := storage.Save(ctx, testSubmission("sub-1")); err != nil && !errors.Is(err, ErrSubmissionExists) {
				t.Errorf("save round %d: %v", i, err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			if err := storage.Delete(ctx, "sub-1"); err != nil {
				t.Errorf("delete round %d: %v", i, err)
				return
			}
		}
	}()
	wg.Wait()

	// whatever interleaving happened, the ID must end up whole: a final
	// delete-then-save cycle succeeds and every unit reads back
	require.NoError(t, storage.Delete(ctx, "sub-1"))
	require.NoError(t, storage.Save(ctx, testSubmission("sub-1")))

	_, err := storage.GetMeta(ctx, "sub-1")
	require.NoError(t, err)
	_, err = storage.GetForm(ctx, "sub-1")
	require.NoError(t, err)
	_, err = storage.GetArtifact(ctx, "sub-1")
	require.NoError(t, err)
}

func TestFileSubmissionStorage_ListMetaSkipsCorrupted(t *testing.T) {
	storage, dir := newTestSubmissionStorage(t)
	l := zerolog.Nop()
	ctx := l.WithContext(context.Background())

	require.NoError(t, storage.Save(ctx, testSubmission("sub-1")))
	require.NoError(t, storage.Save(ctx, testSubmission("sub-2")))

	// break one submission's metadata on disk
	metaPath := filepath.Join(dir, "submissions", "sub-2", "meta.json")
	require.NoError(t, os.WriteFile(metaPath, []byte("garbage"), 0o600))

	metas, err := storage.ListMeta(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, "sub-1", metas[0].ID)
}

func TestShredFile_RemovesAndOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.json")
	require.NoError(t, os.WriteFile(path, []byte("sensitive plaintext"), 0o600))

	require.NoError(t, shredFile(path, 3))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestShredFile_AbsentIsNoop(t *testing.T) {
	assert.NoError(t, shredFile(filepath.Join(t.TempDir(), "absent"), 3))
}
