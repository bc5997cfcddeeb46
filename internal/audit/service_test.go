package audit

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/novelreader/internal/database/audit"
	"github.com/mrlokans/novelreader/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	return NewService(auditRepo.NewRepository(db), zap.NewNop()), db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType: entities.AuditEventIngest,
		Action:    "upload",
		Status:    entities.AuditStatusSuccess,
	}
	require.NoError(t, svc.Log(event))

	var saved entities.AuditEvent
	require.NoError(t, db.First(&saved, event.ID).Error)
	assert.Equal(t, "upload", saved.Action)
}

func TestService_LogIngest(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("success", func(t *testing.T) {
		novel := &entities.CachedNovel{ID: 3, Title: "斗破苍穹", Author: "天蚕土豆", WordCount: 12}
		svc.LogIngest(entities.SourceTypeURL, "http://example.com/a.txt", novel, 2048, nil)
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "url").First(&event).Error)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, int64(2048), event.ByteSize)
		require.NotNil(t, event.NovelID)
		assert.Equal(t, uint(3), *event.NovelID)
		assert.Contains(t, event.Metadata, "word_count")
	})

	t.Run("failure", func(t *testing.T) {
		svc.LogIngest(entities.SourceTypeCustomJSON, "http://example.com/api", nil, 0, errors.New("connection timeout"))
		svc.Wait()

		var event entities.AuditEvent
		require.NoError(t, db.Where("action = ?", "custom_json").First(&event).Error)
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.ErrorMsg, "connection timeout")
		assert.Nil(t, event.NovelID)
	})
}

func TestService_LogRefreshAndDelete(t *testing.T) {
	svc, _ := setupTestService(t)

	svc.LogRefresh(5, "http://example.com/a.txt", true, nil)
	svc.LogDelete(5, "A")
	svc.LogCache("cleanup", 4)
	svc.Wait()

	events, total, err := svc.GetEvents("", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, events, 3)

	refreshes, _, err := svc.GetEvents(entities.AuditEventRefresh, 10, 0)
	require.NoError(t, err)
	require.Len(t, refreshes, 1)
	assert.Contains(t, refreshes[0].Metadata, `"updated":true`)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{
		EventType: entities.AuditEventIngest,
		CreatedAt: time.Now().Add(-72 * time.Hour),
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{EventType: entities.AuditEventIngest}))

	deleted, err := svc.DeleteOldEvents(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("a", 20)
	got := truncate(long, 10)
	assert.Len(t, got, 10)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	got := truncate("网络连接超时", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "网络...", got)
}
