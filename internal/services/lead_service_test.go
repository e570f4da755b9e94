package services

import (
	"testing"
	"time"

	"leadtrack/internal/models"
	"leadtrack/internal/services/dto"

	"leadtrack/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeadService() (LeadService, *fakeLeadRepo, *fakeTagRepo) {
	leadRepo := newFakeLeadRepo()
	tagRepo := newFakeTagRepo()
	return NewLeadService(leadRepo, tagRepo), leadRepo, tagRepo
}

func assertAppErrorCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected *apperrors.AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateLead_Defaults(t *testing.T) {
	svc, repo, _ := newLeadService()

	resp, err := svc.Create("creator-1", models.UserRoleAdmin, &dto.CreateLeadRequest{
		Name:  "Jane Prospect",
		Email: "jane@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "New", resp.Status)
	assert.Equal(t, "Website", resp.Source)
	assert.Equal(t, "creator-1", resp.CreatedBy)
	assert.Len(t, repo.leads, 1)
}

func TestCreateLead_MissingEmail(t *testing.T) {
	svc, repo, _ := newLeadService()

	_, err := svc.Create("creator-1", models.UserRoleAdmin, &dto.CreateLeadRequest{Name: "No Email"})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeValidationFailed)

	// Nothing persisted on validation failure.
	assert.Empty(t, repo.leads)
}

func TestCreateLead_InvalidStatus(t *testing.T) {
	svc, _, _ := newLeadService()

	_, err := svc.Create("creator-1", models.UserRoleAdmin, &dto.CreateLeadRequest{
		Name:   "Jane",
		Email:  "jane@example.com",
		Status: "Frozen",
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeValidationFailed)
}

func TestCreateLead_AgentCannotAssign(t *testing.T) {
	svc, repo, _ := newLeadService()

	target := "agent-2"
	_, err := svc.Create("agent-1", models.UserRoleAgent, &dto.CreateLeadRequest{
		Name:       "Poached",
		Email:      "poached@example.com",
		AssignedTo: &target,
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	assert.Empty(t, repo.leads)
}

func TestCreateLead_AgentWithoutAssignment(t *testing.T) {
	svc, _, _ := newLeadService()

	resp, err := svc.Create("agent-1", models.UserRoleAgent, &dto.CreateLeadRequest{
		Name:  "Walk-in",
		Email: "walkin@example.com",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.AssignedTo)
}

func TestCreateLead_AdminCanAssign(t *testing.T) {
	svc, repo, _ := newLeadService()

	target := "agent-2"
	resp, err := svc.Create("admin-1", models.UserRoleAdmin, &dto.CreateLeadRequest{
		Name:       "Routed",
		Email:      "routed@example.com",
		AssignedTo: &target,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.leads[resp.ID].AssignedTo)
	assert.Equal(t, "agent-2", *repo.leads[resp.ID].AssignedTo)
}

func TestListLeads_AgentScopeOverridesRequestedFilter(t *testing.T) {
	svc, repo, _ := newLeadService()

	agentID := "agent-1"
	otherID := "agent-2"
	repo.add(&models.Lead{Name: "Mine", Email: "a@x.com", AssignedTo: &agentID})
	repo.add(&models.Lead{Name: "Not mine", Email: "b@x.com", AssignedTo: &otherID})

	// The agent asks for someone else's leads; the scope must win.
	resp, err := svc.List(agentID, models.UserRoleAgent, &dto.LeadListRequest{
		AssignedTo: otherID,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter)
	assert.Equal(t, agentID, repo.lastFilter.AssignedTo)
	require.Len(t, resp.Leads, 1)
	assert.Equal(t, "Mine", resp.Leads[0].Name)
}

func TestListLeads_AdminKeepsRequestedFilter(t *testing.T) {
	svc, repo, _ := newLeadService()

	_, err := svc.List("admin-1", models.UserRoleAdmin, &dto.LeadListRequest{
		AssignedTo: "agent-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "agent-2", repo.lastFilter.AssignedTo)
}

func TestListLeads_PaginationDefaultsAndPageCount(t *testing.T) {
	svc, repo, _ := newLeadService()

	for i := 0; i < 25; i++ {
		repo.add(&models.Lead{Name: "Lead", Email: "l@x.com"})
	}

	resp, err := svc.List("admin-1", models.UserRoleAdmin, &dto.LeadListRequest{})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestListLeads_BadDateFilter(t *testing.T) {
	svc, _, _ := newLeadService()

	_, err := svc.List("admin-1", models.UserRoleAdmin, &dto.LeadListRequest{
		DateTo: "31-12-2025",
	})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeValidationFailed)
}

func TestBuildLeadFilter_DateToEndOfDay(t *testing.T) {
	filter, err := buildLeadFilter("", nil, "", "2025-06-15", "", "", "")
	require.NoError(t, err)
	require.NotNil(t, filter.DateTo)

	end := *filter.DateTo
	assert.Equal(t, 2025, end.Year())
	assert.Equal(t, time.June, end.Month())
	assert.Equal(t, 15, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.Equal(t, 59, end.Second())
}

func TestGetLead_AgentForeignLeadForbidden(t *testing.T) {
	svc, repo, _ := newLeadService()

	otherID := "agent-2"
	lead := repo.add(&models.Lead{Name: "Foreign", Email: "f@x.com", AssignedTo: &otherID})

	_, err := svc.Get("agent-1", models.UserRoleAgent, lead.ID)
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateLead_AgentNotAssigneeForbidden(t *testing.T) {
	svc, repo, _ := newLeadService()

	lead := repo.add(&models.Lead{Name: "Unassigned", Email: "u@x.com"})

	name := "Renamed"
	_, err := svc.Update("agent-1", models.UserRoleAgent, lead.ID, &dto.UpdateLeadRequest{Name: &name})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateLead_AgentCannotReassign(t *testing.T) {
	svc, repo, _ := newLeadService()

	agentID := "agent-1"
	lead := repo.add(&models.Lead{Name: "Mine", Email: "m@x.com", AssignedTo: &agentID})

	target := "agent-2"
	_, err := svc.Update(agentID, models.UserRoleAgent, lead.ID, &dto.UpdateLeadRequest{AssignedTo: &target})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateLead_PartialUpdate(t *testing.T) {
	svc, repo, _ := newLeadService()

	lead := repo.add(&models.Lead{
		Name:   "Original",
		Email:  "orig@x.com",
		Phone:  "111",
		Status: models.LeadStatusNew,
	})

	phone := "222"
	resp, err := svc.Update("admin-1", models.UserRoleAdmin, lead.ID, &dto.UpdateLeadRequest{Phone: &phone})
	require.NoError(t, err)

	// Only the provided field is touched.
	assert.Equal(t, "222", resp.Phone)
	assert.Equal(t, "Original", resp.Name)
	assert.Equal(t, "orig@x.com", resp.Email)
	assert.NotContains(t, repo.lastUpdateFields, "name")
	assert.NotContains(t, repo.lastUpdateFields, "email")
}

func TestUpdateLead_InvalidStatusRejected(t *testing.T) {
	svc, repo, _ := newLeadService()

	lead := repo.add(&models.Lead{Name: "L", Email: "l@x.com", Status: models.LeadStatusNew})

	status := "Paused"
	_, err := svc.Update("admin-1", models.UserRoleAdmin, lead.ID, &dto.UpdateLeadRequest{Status: &status})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeValidationFailed)
	assert.Equal(t, models.LeadStatusNew, repo.leads[lead.ID].Status)
}

func TestAddNote_MostRecentFirst(t *testing.T) {
	svc, repo, _ := newLeadService()

	agentID := "agent-1"
	lead := repo.add(&models.Lead{Name: "Noted", Email: "n@x.com", AssignedTo: &agentID})

	_, err := svc.AddNote(agentID, models.UserRoleAgent, lead.ID, &dto.AddNoteRequest{Content: "first call"})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	resp, err := svc.AddNote(agentID, models.UserRoleAgent, lead.ID, &dto.AddNoteRequest{Content: "second call"})
	require.NoError(t, err)

	require.Len(t, resp.Notes, 2)
	assert.Equal(t, "second call", resp.Notes[0].Content)
	assert.Equal(t, "first call", resp.Notes[1].Content)
}

func TestAddNote_AgentForeignLeadForbidden(t *testing.T) {
	svc, repo, _ := newLeadService()

	otherID := "agent-2"
	lead := repo.add(&models.Lead{Name: "Foreign", Email: "f@x.com", AssignedTo: &otherID})

	_, err := svc.AddNote("agent-1", models.UserRoleAgent, lead.ID, &dto.AddNoteRequest{Content: "nope"})
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeForbidden)
	assert.Empty(t, repo.leads[lead.ID].Notes)
}

func TestDeleteLead_NotFound(t *testing.T) {
	svc, _, _ := newLeadService()

	err := svc.Delete("missing")
	require.Error(t, err)
	assertAppErrorCode(t, err, apperrors.CodeNotFound)
}

func TestUpdateLead_ReplaceTags(t *testing.T) {
	svc, leadRepo, tagRepo := newLeadService()

	tag := tagRepo.add(&models.Tag{Name: "hot", Color: "#FF0000"})
	lead := leadRepo.add(&models.Lead{Name: "Tagged", Email: "t@x.com"})

	tagIDs := []string{tag.ID, "stale-tag-id"}
	resp, err := svc.Update("admin-1", models.UserRoleAdmin, lead.ID, &dto.UpdateLeadRequest{TagIDs: &tagIDs})
	require.NoError(t, err)

	// Stale tag ids resolve to nothing.
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "hot", resp.Tags[0].Name)
}
