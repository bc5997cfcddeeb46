package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/novelreader/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	return db
}

func TestRepository_LogEvent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventIngest,
		Action:      "url",
		Description: "Cached 斗破苍穹",
		Source:      "http://example.com/a.txt",
		ByteSize:    1024,
		Status:      entities.AuditStatusSuccess,
	}

	require.NoError(t, repo.LogEvent(event))
	assert.NotZero(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestRepository_GetEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	now := time.Now()

	for i := 0; i < 15; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			EventType: entities.AuditEventIngest,
			Action:    "upload",
			Status:    entities.AuditStatusSuccess,
			CreatedAt: now.Add(time.Duration(-i) * time.Hour),
		}))
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.LogEvent(&entities.AuditEvent{
			EventType: entities.AuditEventDelete,
			Action:    "novel",
			Status:    entities.AuditStatusSuccess,
		}))
	}

	t.Run("all types", func(t *testing.T) {
		events, total, err := repo.GetEvents("", 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20), total)
		assert.Len(t, events, 20)
	})

	t.Run("by type", func(t *testing.T) {
		events, total, err := repo.GetEvents(entities.AuditEventIngest, 50, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		for _, e := range events {
			assert.Equal(t, entities.AuditEventIngest, e.EventType)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		first, total, err := repo.GetEvents(entities.AuditEventIngest, 5, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(15), total)
		assert.Len(t, first, 5)

		second, _, err := repo.GetEvents(entities.AuditEventIngest, 5, 5)
		require.NoError(t, err)
		assert.Len(t, second, 5)
		assert.NotEqual(t, first[0].ID, second[0].ID)
	})

	t.Run("most recent first", func(t *testing.T) {
		events, _, err := repo.GetEvents(entities.AuditEventIngest, 10, 0)
		require.NoError(t, err)
		for i := 1; i < len(events); i++ {
			assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
		}
	})

	t.Run("default limit", func(t *testing.T) {
		events, _, err := repo.GetEvents("", 0, -3)
		require.NoError(t, err)
		assert.Len(t, events, 20)
	})
}

func TestRepository_GetEventsForNovel(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	id := uint(7)
	other := uint(8)

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{EventType: entities.AuditEventIngest, NovelID: &id}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{EventType: entities.AuditEventRefresh, NovelID: &id}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{EventType: entities.AuditEventIngest, NovelID: &other}))

	events, err := repo.GetEventsForNovel(id)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestRepository_DeleteOldEvents(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	now := time.Now()

	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventIngest,
		Action:    "old",
		CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(&entities.AuditEvent{
		EventType: entities.AuditEventIngest,
		Action:    "new",
		CreatedAt: now.Add(-time.Hour),
	}))

	deleted, err := repo.DeleteOldEvents(now.Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := repo.GetEvents("", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "new", events[0].Action)
}
