package services

import (
	"math"
	"sort"
	"time"

	"leadtrack/internal/models"
	"leadtrack/internal/repositories"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	dateLayout = "2006-01-02"
)

type LeadService interface {
	List(callerID string, callerRole models.UserRole, req *dto.LeadListRequest) (*dto.LeadListResponse, error)
	Get(callerID string, callerRole models.UserRole, id string) (*dto.LeadResponse, error)
	Create(callerID string, callerRole models.UserRole, req *dto.CreateLeadRequest) (*dto.LeadResponse, error)
	Update(callerID string, callerRole models.UserRole, id string, req *dto.UpdateLeadRequest) (*dto.LeadResponse, error)
	Delete(id string) error
	AddNote(callerID string, callerRole models.UserRole, leadID string, req *dto.AddNoteRequest) (*dto.LeadResponse, error)
}

type LeadServiceImpl struct {
	leadRepo repositories.LeadRepository
	tagRepo  repositories.TagRepository
}

func NewLeadService(leadRepo repositories.LeadRepository, tagRepo repositories.TagRepository) LeadService {
	return &LeadServiceImpl{
		leadRepo: leadRepo,
		tagRepo:  tagRepo,
	}
}

func (s *LeadServiceImpl) List(callerID string, callerRole models.UserRole, req *dto.LeadListRequest) (*dto.LeadListResponse, error) {
	filter, err := buildLeadFilter(
		req.Status, req.TagIDs, req.DateFrom, req.DateTo,
		req.AssignedTo, req.Source, req.Search,
	)
	if err != nil {
		return nil, err
	}

	filter.Page = req.Page
	if filter.Page <= 0 {
		filter.Page = defaultPage
	}
	filter.Limit = req.Limit
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}

	// Agents only ever see their own leads; the role scope wins over any
	// assigned_to value the caller supplied.
	if callerRole == models.UserRoleAgent {
		filter.AssignedTo = callerID
	}

	leads, total, err := s.leadRepo.FindWithFilter(*filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]dto.LeadResponse, 0, len(leads))
	for i := range leads {
		responses = append(responses, *buildLeadResponse(&leads[i], false))
	}

	return &dto.LeadListResponse{
		Leads:      responses,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *LeadServiceImpl) Get(callerID string, callerRole models.UserRole, id string) (*dto.LeadResponse, error) {
	lead, err := s.findLead(id)
	if err != nil {
		return nil, err
	}

	if err := checkAssignment(lead, callerID, callerRole); err != nil {
		return nil, err
	}

	return buildLeadResponse(lead, true), nil
}

func (s *LeadServiceImpl) Create(callerID string, callerRole models.UserRole, req *dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	if req.Name == "" || req.Email == "" {
		return nil, apperrors.ValidationError("name and email are required")
	}

	// Assignment is an admin-level operation, on create as on update.
	if req.AssignedTo != nil && callerRole == models.UserRoleAgent {
		return nil, apperrors.NewForbiddenError("Only admins can assign leads")
	}

	status := models.LeadStatus(req.Status)
	if req.Status == "" {
		status = models.LeadStatusNew
	}
	if !status.Valid() {
		return nil, apperrors.ValidationError("invalid lead status")
	}

	source := req.Source
	if source == "" {
		source = models.LeadSourceDefault
	}

	tags, err := s.resolveTags(req.TagIDs)
	if err != nil {
		return nil, err
	}

	lead := &models.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Source:     source,
		Status:     status,
		AssignedTo: req.AssignedTo,
		CreatedBy:  callerID,
		Tags:       tags,
	}

	if err := s.leadRepo.Create(lead); err != nil {
		return nil, apperrors.InternalError(err)
	}

	created, err := s.findLead(lead.ID)
	if err != nil {
		return nil, err
	}
	return buildLeadResponse(created, true), nil
}

func (s *LeadServiceImpl) Update(callerID string, callerRole models.UserRole, id string, req *dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := s.findLead(id)
	if err != nil {
		return nil, err
	}

	if err := checkAssignment(lead, callerID, callerRole); err != nil {
		return nil, err
	}

	// Reassignment is an admin-level operation.
	if req.AssignedTo != nil && callerRole == models.UserRoleAgent {
		return nil, apperrors.NewForbiddenError("Only admins can reassign leads")
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperrors.ValidationError("name cannot be empty")
		}
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		if *req.Email == "" {
			return nil, apperrors.ValidationError("email cannot be empty")
		}
		fields["email"] = *req.Email
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Source != nil {
		fields["source"] = *req.Source
	}
	if req.Status != nil {
		status := models.LeadStatus(*req.Status)
		if !status.Valid() {
			return nil, apperrors.ValidationError("invalid lead status")
		}
		fields["status"] = status
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			fields["assigned_to"] = nil
		} else {
			fields["assigned_to"] = *req.AssignedTo
		}
	}

	if len(fields) > 0 {
		if err := s.leadRepo.Update(lead, fields); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if req.TagIDs != nil {
		tags, err := s.resolveTags(*req.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.leadRepo.ReplaceTags(lead, tags); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	updated, err := s.findLead(id)
	if err != nil {
		return nil, err
	}
	return buildLeadResponse(updated, true), nil
}

func (s *LeadServiceImpl) Delete(id string) error {
	if err := s.leadRepo.Delete(id); err != nil {
		if apperrors.Is(err, repositories.ErrLeadNotFound) {
			return apperrors.NewNotFoundError("leads", "Lead not found")
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *LeadServiceImpl) AddNote(callerID string, callerRole models.UserRole, leadID string, req *dto.AddNoteRequest) (*dto.LeadResponse, error) {
	lead, err := s.findLead(leadID)
	if err != nil {
		return nil, err
	}

	if err := checkAssignment(lead, callerID, callerRole); err != nil {
		return nil, err
	}

	note := &models.Note{
		LeadID:    leadID,
		Content:   req.Content,
		CreatedBy: callerID,
		CreatedAt: time.Now(),
	}

	if err := s.leadRepo.AddNote(note); err != nil {
		return nil, apperrors.InternalError(err)
	}

	updated, err := s.findLead(leadID)
	if err != nil {
		return nil, err
	}
	return buildLeadResponse(updated, true), nil
}

// --- Helpers ---

func (s *LeadServiceImpl) findLead(id string) (*models.Lead, error) {
	lead, err := s.leadRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrLeadNotFound) {
			return nil, apperrors.NewNotFoundError("leads", "Lead not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return lead, nil
}

func (s *LeadServiceImpl) resolveTags(ids []string) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// Unknown ids are silently dropped; stale tag references are tolerated.
	tags, err := s.tagRepo.FindByIDs(ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return tags, nil
}

// checkAssignment enforces the agent ownership rule: an agent may only touch
// a lead currently assigned to it. Admin roles pass unconditionally.
func checkAssignment(lead *models.Lead, callerID string, callerRole models.UserRole) error {
	if callerRole != models.UserRoleAgent {
		return nil
	}
	if lead.AssignedTo == nil || *lead.AssignedTo != callerID {
		return apperrors.NewForbiddenError("You can only access leads assigned to you")
	}
	return nil
}

// buildLeadFilter parses the shared filter params used by list and export.
func buildLeadFilter(status string, tagIDs []string, dateFrom, dateTo, assignedTo, source, search string) (*repositories.LeadFilter, error) {
	filter := &repositories.LeadFilter{
		Status:     models.LeadStatus(status),
		TagIDs:     tagIDs,
		AssignedTo: assignedTo,
		Source:     source,
		Search:     search,
	}

	if dateFrom != "" {
		from, err := time.ParseInLocation(dateLayout, dateFrom, time.Local)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid date_from format. Use YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}

	if dateTo != "" {
		to, err := time.ParseInLocation(dateLayout, dateTo, time.Local)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Invalid date_to format. Use YYYY-MM-DD")
		}
		// Inclusive through the end of the given calendar day.
		end := to.Add(24*time.Hour - time.Millisecond)
		filter.DateTo = &end
	}

	return filter, nil
}

func buildLeadResponse(lead *models.Lead, withNotes bool) *dto.LeadResponse {
	resp := &dto.LeadResponse{
		ID:        lead.ID,
		Name:      lead.Name,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Source:    lead.Source,
		Status:    string(lead.Status),
		CreatedBy: lead.CreatedBy,
		CreatedAt: lead.CreatedAt,
		UpdatedAt: lead.UpdatedAt,
		Tags:      make([]dto.TagResponse, 0, len(lead.Tags)),
	}

	// A dangling assigned_to (deleted user) resolves to no assignee.
	if lead.Assignee != nil {
		resp.AssignedTo = &dto.UserSummary{
			ID:    lead.Assignee.ID,
			Name:  lead.Assignee.Name,
			Email: lead.Assignee.Email,
		}
	}

	for _, tag := range lead.Tags {
		resp.Tags = append(resp.Tags, dto.TagResponse{
			ID:    tag.ID,
			Name:  tag.Name,
			Color: tag.Color,
		})
	}

	if withNotes {
		notes := make([]models.Note, len(lead.Notes))
		copy(notes, lead.Notes)
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})

		resp.Notes = make([]dto.NoteResponse, 0, len(notes))
		for _, note := range notes {
			noteResp := dto.NoteResponse{
				ID:        note.ID,
				Content:   note.Content,
				CreatedAt: note.CreatedAt,
			}
			if note.Author != nil {
				noteResp.Author = &dto.UserSummary{
					ID:    note.Author.ID,
					Name:  note.Author.Name,
					Email: note.Author.Email,
				}
			}
			resp.Notes = append(resp.Notes, noteResp)
		}
	}

	return resp
}
