package repositories

import (
	"errors"
	"time"

	"leadtrack/internal/models"

	"gorm.io/gorm"
)

var ErrLeadNotFound = errors.New("lead not found")

// LeadFilter is the set of optional list filters. Zero values mean "not set";
// all set filters combine with AND, tag ids and the free-text search fields
// are OR groups internally.
type LeadFilter struct {
	Status     models.LeadStatus
	TagIDs     []string
	DateFrom   *time.Time
	DateTo     *time.Time
	AssignedTo string
	Source     string
	Search     string
	Page       int
	Limit      int
}

type LeadRepository interface {
	FindByID(id string) (*models.Lead, error)
	FindWithFilter(filter LeadFilter) ([]models.Lead, int64, error)
	FindAllWithFilter(filter LeadFilter) ([]models.Lead, error)
	Create(lead *models.Lead) error
	Update(lead *models.Lead, fields map[string]interface{}) error
	ReplaceTags(lead *models.Lead, tags []models.Tag) error
	Delete(id string) error
	AddNote(note *models.Note) error
}

type LeadRepositoryImpl struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{db: db}
}

func (r *LeadRepositoryImpl) FindByID(id string) (*models.Lead, error) {
	var lead models.Lead
	err := r.db.
		Preload("Tags").
		Preload("Assignee").
		Preload("Notes", func(db *gorm.DB) *gorm.DB {
			return db.Order("notes.created_at DESC")
		}).
		Preload("Notes.Author").
		First(&lead, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

// buildFilterQuery translates a LeadFilter into a GORM query.
func (r *LeadRepositoryImpl) buildFilterQuery(filter LeadFilter) *gorm.DB {
	query := r.db.Model(&models.Lead{})

	if filter.Status != "" {
		query = query.Where("leads.status = ?", filter.Status)
	}
	if filter.AssignedTo != "" {
		query = query.Where("leads.assigned_to = ?", filter.AssignedTo)
	}
	if filter.Source != "" {
		query = query.Where("leads.source = ?", filter.Source)
	}
	if filter.DateFrom != nil {
		query = query.Where("leads.created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("leads.created_at <= ?", *filter.DateTo)
	}
	if len(filter.TagIDs) > 0 {
		// OR semantics: any intersection with the requested tag set matches.
		query = query.
			Joins("JOIN lead_tags ON lead_tags.lead_id = leads.id").
			Where("lead_tags.tag_id IN ?", filter.TagIDs).
			Distinct()
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where(
			"leads.name ILIKE ? OR leads.email ILIKE ? OR leads.phone ILIKE ?",
			search, search, search,
		)
	}

	return query
}

// countQuery counts distinct leads. The tag filter joins lead_tags, so a
// plain count(*) would count a lead once per matching tag.
func (r *LeadRepositoryImpl) countQuery(filter LeadFilter) *gorm.DB {
	return r.buildFilterQuery(filter).Distinct("leads.id")
}

func (r *LeadRepositoryImpl) FindWithFilter(filter LeadFilter) ([]models.Lead, int64, error) {
	var total int64
	if err := r.countQuery(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.buildFilterQuery(filter)

	limit := filter.Limit
	offset := (filter.Page - 1) * filter.Limit

	var leads []models.Lead
	err := query.
		Preload("Tags").
		Preload("Assignee").
		Order("leads.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&leads).Error

	return leads, total, err
}

// FindAllWithFilter returns the full matching set, used by export.
func (r *LeadRepositoryImpl) FindAllWithFilter(filter LeadFilter) ([]models.Lead, error) {
	var leads []models.Lead
	err := r.buildFilterQuery(filter).
		Preload("Tags").
		Preload("Assignee").
		Order("leads.created_at DESC").
		Find(&leads).Error
	return leads, err
}

func (r *LeadRepositoryImpl) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

func (r *LeadRepositoryImpl) Update(lead *models.Lead, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()

	result := r.db.Model(lead).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}

func (r *LeadRepositoryImpl) ReplaceTags(lead *models.Lead, tags []models.Tag) error {
	return r.db.Model(lead).Association("Tags").Replace(tags)
}

func (r *LeadRepositoryImpl) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Notes are owned by the lead and go with it.
		if err := tx.Where("lead_id = ?", id).Delete(&models.Note{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Lead{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLeadNotFound
		}
		return nil
	})
}

func (r *LeadRepositoryImpl) AddNote(note *models.Note) error {
	if err := r.db.Create(note).Error; err != nil {
		return err
	}

	// Any note mutation refreshes the lead's updated_at.
	return r.db.Model(&models.Lead{}).Where("id = ?", note.LeadID).
		Update("updated_at", time.Now()).Error
}
