package entities

import "time"

type SourceType string

const (
	SourceTypeURL        SourceType = "url"
	SourceTypeUpload     SourceType = "upload"
	SourceTypeCustomJSON SourceType = "custom_json"
)

type SearchTarget string

const (
	SearchTargetTitle   SearchTarget = "title"
	SearchTargetAuthor  SearchTarget = "author"
	SearchTargetContent SearchTarget = "content"
	SearchTargetBoth    SearchTarget = "both" // title and author
)

// Valid reports whether t is one of the known targets.
func (t SearchTarget) Valid() bool {
	switch t {
	case SearchTargetTitle, SearchTargetAuthor, SearchTargetContent, SearchTargetBoth:
		return true
	}
	return false
}

// Directory names used as the first PathParts element.
const (
	PathOnlineResources = "在线资源"
	PathLocalUploads    = "本地上传"
)

// CachedNovel is a user-ingested novel. Its text lives in NovelContent.
type CachedNovel struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Title      string     `gorm:"index;size:512" json:"title"`
	Author     string     `gorm:"index;size:256" json:"author"`
	FilePath   string     `gorm:"size:1024" json:"filePath"`
	SourceURL  string     `gorm:"index;size:2048" json:"sourceUrl,omitempty"`
	SourceType SourceType `gorm:"index;size:20" json:"sourceType"`
	FileSize   string     `gorm:"size:32" json:"fileSize"`
	WordCount  int        `json:"wordCount"`
	CacheSize  int64      `json:"cacheSize"`
	Checksum   string     `gorm:"size:16" json:"checksum"`
	PathParts  []string   `gorm:"serializer:json" json:"pathParts"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (CachedNovel) TableName() string {
	return "cached_novels"
}

type NovelContent struct {
	NovelID   uint      `gorm:"primaryKey" json:"novelId"`
	Content   string    `gorm:"type:text" json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (NovelContent) TableName() string {
	return "novel_contents"
}

// SearchResult is a catalog hit. Count is the number of keyword
// occurrences in the searched fields.
type SearchResult struct {
	Novel CachedNovel `json:"novel"`
	Count int         `json:"count"`
}
