package repositories

import (
	"errors"
	"strings"

	"leadtrack/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTagNotFound      = errors.New("tag not found")
	ErrTagAlreadyExists = errors.New("tag already exists")
)

type TagRepository interface {
	FindAll() ([]models.Tag, error)
	FindByIDs(ids []string) ([]models.Tag, error)
	FindByName(name string) (*models.Tag, error)
	Create(tag *models.Tag) error
}

type TagRepositoryImpl struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &TagRepositoryImpl{db: db}
}

func (r *TagRepositoryImpl) FindAll() ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *TagRepositoryImpl) FindByIDs(ids []string) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}

// FindByName matches case-insensitively; tag names are unique ignoring case.
func (r *TagRepositoryImpl) FindByName(name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

func (r *TagRepositoryImpl) Create(tag *models.Tag) error {
	if existing, err := r.FindByName(tag.Name); err == nil && existing != nil {
		return ErrTagAlreadyExists
	}

	return r.db.Create(tag).Error
}
