// Package audit records ingestion, refresh and delete events for the
// novel library.
package audit

import (
	"encoding/json"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mrlokans/novelreader/internal/database/audit"
	"github.com/mrlokans/novelreader/internal/entities"
	"github.com/mrlokans/novelreader/internal/logging"
)

const maxErrorLen = 500

type Service struct {
	repo    *audit.Repository
	logger  *zap.Logger
	pending sync.WaitGroup
}

func NewService(repo *audit.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = logging.Global()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync writes the event in the background. Failures are logged.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			s.logger.Error("failed to log audit event",
				zap.String("event_type", string(event.EventType)),
				zap.String("action", event.Action),
				zap.Error(err))
		}
	}()
}

// Wait blocks until every LogAsync write has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogIngest records a url, upload or custom_json ingestion.
func (s *Service) LogIngest(sourceType entities.SourceType, source string, novel *entities.CachedNovel, byteSize int64, err error) {
	event := &entities.AuditEvent{
		EventType: entities.AuditEventIngest,
		Action:    string(sourceType),
		Source:    truncate(source, 2048),
		ByteSize:  byteSize,
		Status:    entities.AuditStatusSuccess,
	}
	if novel != nil {
		id := novel.ID
		event.NovelID = &id
		event.Description = "Cached " + novel.Title
		event.Metadata = encodeMetadata(map[string]any{
			"title":      novel.Title,
			"author":     novel.Author,
			"word_count": novel.WordCount,
		})
	}
	markFailure(event, err)

	s.LogAsync(event)
}

// LogRefresh records a refresh of a URL novel.
func (s *Service) LogRefresh(novelID uint, source string, updated bool, err error) {
	event := &entities.AuditEvent{
		EventType: entities.AuditEventRefresh,
		Action:    string(entities.SourceTypeURL),
		Source:    truncate(source, 2048),
		NovelID:   &novelID,
		Status:    entities.AuditStatusSuccess,
		Metadata:  encodeMetadata(map[string]any{"updated": updated}),
	}
	if updated {
		event.Description = "Content changed"
	} else {
		event.Description = "Content unchanged"
	}
	markFailure(event, err)

	s.LogAsync(event)
}

func (s *Service) LogDelete(novelID uint, title string) {
	s.LogAsync(&entities.AuditEvent{
		EventType:   entities.AuditEventDelete,
		Action:      "novel",
		Description: "Deleted " + title,
		NovelID:     &novelID,
		Status:      entities.AuditStatusSuccess,
	})
}

// LogCache records a cache maintenance action such as cleanup or clear.
func (s *Service) LogCache(action string, removed int) {
	s.LogAsync(&entities.AuditEvent{
		EventType: entities.AuditEventCache,
		Action:    action,
		Status:    entities.AuditStatusSuccess,
		Metadata:  encodeMetadata(map[string]any{"removed": removed}),
	})
}

func (s *Service) GetEvents(eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(eventType, limit, offset)
}

// DeleteOldEvents removes events older than retention.
func (s *Service) GetEventsForNovel(novelID uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForNovel(novelID)
}

func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	return s.repo.DeleteOldEvents(time.Now().Add(-retention))
}

func markFailure(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), maxErrorLen)
}

func encodeMetadata(m map[string]any) string {
	b, err := json.Marshal(m)
	if err != nil {
		return ""
	}
	return string(b)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
