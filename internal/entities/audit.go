package entities

import "time"

type AuditEventType string

const (
	AuditEventIngest  AuditEventType = "ingest"
	AuditEventRefresh AuditEventType = "refresh"
	AuditEventDelete  AuditEventType = "delete"
	AuditEventCache   AuditEventType = "cache"
)

type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50" json:"event_type"`
	Action      string         `gorm:"size:100" json:"action"` // e.g., "url", "upload", "custom_json"
	Description string         `gorm:"size:500" json:"description"`
	Source      string         `gorm:"size:2048" json:"source"` // URL or uploaded file name
	NovelID     *uint          `gorm:"index" json:"novel_id,omitempty"`
	ByteSize    int64          `json:"byte_size"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON for extra data
	Status      AuditStatus    `gorm:"size:20" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error_msg,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
