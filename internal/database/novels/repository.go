// Package novels stores ingested novels and their decoded text.
//
// Metadata lives in cached_novels and the text in novel_contents, one row
// per novel, so listing the catalog never loads the text.
package novels

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/novelreader/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the novel and its text in one transaction. novel.ID is set
// on success.
func (r *Repository) Create(novel *entities.CachedNovel, content string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(novel).Error; err != nil {
			return err
		}
		return tx.Create(&entities.NovelContent{NovelID: novel.ID, Content: content}).Error
	})
}

// Update overwrites the novel row and its text.
func (r *Repository) Update(novel *entities.CachedNovel, content string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(novel).Error; err != nil {
			return err
		}
		return tx.Save(&entities.NovelContent{NovelID: novel.ID, Content: content}).Error
	})
}

func (r *Repository) GetByID(id uint) (*entities.CachedNovel, error) {
	var novel entities.CachedNovel
	if err := r.db.First(&novel, id).Error; err != nil {
		return nil, err
	}
	return &novel, nil
}

func (r *Repository) GetAll() ([]entities.CachedNovel, error) {
	var list []entities.CachedNovel
	err := r.db.Order("id ASC").Find(&list).Error
	return list, err
}

func (r *Repository) Content(id uint) (string, error) {
	var row entities.NovelContent
	if err := r.db.First(&row, "novel_id = ?", id).Error; err != nil {
		return "", err
	}
	return row.Content, nil
}

// FindMatching returns novels whose target fields contain keyword, ignoring
// ASCII case. Counting occurrences is left to the caller.
func (r *Repository) FindMatching(keyword string, target entities.SearchTarget) ([]entities.CachedNovel, error) {
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"

	query := r.db.Model(&entities.CachedNovel{})
	switch target {
	case entities.SearchTargetTitle:
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern)
	case entities.SearchTargetAuthor:
		query = query.Where(`LOWER(author) LIKE ? ESCAPE '\'`, pattern)
	case entities.SearchTargetBoth:
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\'`, pattern, pattern)
	case entities.SearchTargetContent:
		sub := r.db.Model(&entities.NovelContent{}).
			Select("novel_id").
			Where(`LOWER(content) LIKE ? ESCAPE '\'`, pattern)
		query = query.Where("id IN (?)", sub)
	default:
		return nil, errors.New("unknown search target: " + string(target))
	}

	var list []entities.CachedNovel
	err := query.Order("id ASC").Find(&list).Error
	return list, err
}

// Delete removes the novel and its text. A missing id is
// gorm.ErrRecordNotFound.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entities.NovelContent{}, "novel_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.CachedNovel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *Repository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&entities.CachedNovel{}).Count(&n).Error
	return n, err
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
