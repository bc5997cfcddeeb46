package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/novelreader/internal/entities"
)

func TestNewDatabase_MigratesSchema(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())

	migrator := db.DB.Migrator()
	for _, model := range []any{
		&entities.CachedNovel{},
		&entities.NovelContent{},
		&entities.AuditEvent{},
		&entities.CacheItem{},
	} {
		assert.True(t, migrator.HasTable(model), "missing table for %T", model)
	}
}

func TestNewDatabase_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	novel := &entities.CachedNovel{Title: "第一卷", Author: "作者", PathParts: []string{"在线资源", "作者"}}
	require.NoError(t, db.DB.Create(novel).Error)
	require.NoError(t, db.Close())

	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	var got entities.CachedNovel
	require.NoError(t, db.DB.First(&got, novel.ID).Error)
	assert.Equal(t, "第一卷", got.Title)
	assert.Equal(t, []string{"在线资源", "作者"}, got.PathParts)
}

func TestClose_ThenPingFails(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	assert.Error(t, db.Ping())
}

func TestNewDatabase_BadPath(t *testing.T) {
	_, err := NewDatabase(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	assert.Error(t, err)
}
