package services

import (
	"fmt"
	"strings"
	"time"

	"leadtrack/internal/models"
	"leadtrack/internal/repositories"
)

// In-memory repository fakes used across the service tests.

type fakeUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == "" {
		f.nextID++
		user.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) FindByID(id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == strings.ToLower(email) {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) FindAll(limit, offset int) ([]models.User, error) {
	var users []models.User
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) CountAll() (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserRepo) Create(user *models.User) error {
	if _, err := f.FindByEmail(user.Email); err == nil {
		return repositories.ErrUserAlreadyExists
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) Update(user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	now := time.Now()
	user.LastLogin = &now
	return nil
}

func (f *fakeUserRepo) Delete(userID string) error {
	if _, ok := f.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, userID)
	return nil
}

type fakeLeadRepo struct {
	leads            map[string]*models.Lead
	lastFilter       *repositories.LeadFilter
	lastUpdateFields map[string]interface{}
	nextID           int
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[string]*models.Lead{}}
}

func (f *fakeLeadRepo) add(lead *models.Lead) *models.Lead {
	if lead.ID == "" {
		f.nextID++
		lead.ID = fmt.Sprintf("lead-%d", f.nextID)
	}
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = time.Now()
	}
	f.leads[lead.ID] = lead
	return lead
}

func (f *fakeLeadRepo) FindByID(id string) (*models.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, repositories.ErrLeadNotFound
	}
	return lead, nil
}

func (f *fakeLeadRepo) matches(lead *models.Lead, filter repositories.LeadFilter) bool {
	if filter.AssignedTo != "" {
		if lead.AssignedTo == nil || *lead.AssignedTo != filter.AssignedTo {
			return false
		}
	}
	if filter.Status != "" && lead.Status != filter.Status {
		return false
	}
	if filter.Source != "" && lead.Source != filter.Source {
		return false
	}
	return true
}

func (f *fakeLeadRepo) FindWithFilter(filter repositories.LeadFilter) ([]models.Lead, int64, error) {
	f.lastFilter = &filter

	var leads []models.Lead
	for _, lead := range f.leads {
		if f.matches(lead, filter) {
			leads = append(leads, *lead)
		}
	}
	return leads, int64(len(leads)), nil
}

func (f *fakeLeadRepo) FindAllWithFilter(filter repositories.LeadFilter) ([]models.Lead, error) {
	leads, _, err := f.FindWithFilter(filter)
	return leads, err
}

func (f *fakeLeadRepo) Create(lead *models.Lead) error {
	f.add(lead)
	return nil
}

func (f *fakeLeadRepo) Update(lead *models.Lead, fields map[string]interface{}) error {
	stored, ok := f.leads[lead.ID]
	if !ok {
		return repositories.ErrLeadNotFound
	}
	f.lastUpdateFields = fields

	for key, value := range fields {
		switch key {
		case "name":
			stored.Name = value.(string)
		case "email":
			stored.Email = value.(string)
		case "phone":
			stored.Phone = value.(string)
		case "source":
			stored.Source = value.(string)
		case "status":
			stored.Status = value.(models.LeadStatus)
		case "assigned_to":
			if value == nil {
				stored.AssignedTo = nil
			} else {
				id := value.(string)
				stored.AssignedTo = &id
			}
		}
	}
	stored.UpdatedAt = time.Now()
	return nil
}

func (f *fakeLeadRepo) ReplaceTags(lead *models.Lead, tags []models.Tag) error {
	stored, ok := f.leads[lead.ID]
	if !ok {
		return repositories.ErrLeadNotFound
	}
	stored.Tags = tags
	return nil
}

func (f *fakeLeadRepo) Delete(id string) error {
	if _, ok := f.leads[id]; !ok {
		return repositories.ErrLeadNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeLeadRepo) AddNote(note *models.Note) error {
	lead, ok := f.leads[note.LeadID]
	if !ok {
		return repositories.ErrLeadNotFound
	}
	if note.ID == "" {
		note.ID = fmt.Sprintf("note-%d", len(lead.Notes)+1)
	}
	lead.Notes = append(lead.Notes, *note)
	lead.UpdatedAt = time.Now()
	return nil
}

type fakeTagRepo struct {
	tags   map[string]*models.Tag
	nextID int
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: map[string]*models.Tag{}}
}

func (f *fakeTagRepo) add(tag *models.Tag) *models.Tag {
	if tag.ID == "" {
		f.nextID++
		tag.ID = fmt.Sprintf("tag-%d", f.nextID)
	}
	f.tags[tag.ID] = tag
	return tag
}

func (f *fakeTagRepo) FindAll() ([]models.Tag, error) {
	var tags []models.Tag
	for _, tag := range f.tags {
		tags = append(tags, *tag)
	}
	return tags, nil
}

func (f *fakeTagRepo) FindByIDs(ids []string) ([]models.Tag, error) {
	var tags []models.Tag
	for _, id := range ids {
		if tag, ok := f.tags[id]; ok {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}

func (f *fakeTagRepo) FindByName(name string) (*models.Tag, error) {
	for _, tag := range f.tags {
		if strings.EqualFold(tag.Name, name) {
			return tag, nil
		}
	}
	return nil, repositories.ErrTagNotFound
}

func (f *fakeTagRepo) Create(tag *models.Tag) error {
	if _, err := f.FindByName(tag.Name); err == nil {
		return repositories.ErrTagAlreadyExists
	}
	f.add(tag)
	return nil
}
