package dto

import "time"

type CreateLeadRequest struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone"`
	Source     string   `json:"source"`
	Status     string   `json:"status" validate:"omitempty,oneof=New Contacted Qualified Won Lost"`
	AssignedTo *string  `json:"assigned_to"`
	TagIDs     []string `json:"tag_ids"`
}

// UpdateLeadRequest applies partial updates: nil fields are left unchanged.
type UpdateLeadRequest struct {
	Name       *string   `json:"name"`
	Email      *string   `json:"email" validate:"omitempty,email"`
	Phone      *string   `json:"phone"`
	Source     *string   `json:"source"`
	Status     *string   `json:"status" validate:"omitempty,oneof=New Contacted Qualified Won Lost"`
	AssignedTo *string   `json:"assigned_to"`
	TagIDs     *[]string `json:"tag_ids"`
}

type AddNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// LeadListRequest carries the optional list filters from query params.
// Dates use the 2006-01-02 calendar form; date_to is inclusive through
// end of day.
type LeadListRequest struct {
	Status     string   `form:"status" validate:"omitempty,oneof=New Contacted Qualified Won Lost"`
	TagIDs     []string `form:"tags"`
	DateFrom   string   `form:"date_from"`
	DateTo     string   `form:"date_to"`
	AssignedTo string   `form:"assigned_to"`
	Source     string   `form:"source"`
	Search     string   `form:"search"`
	Page       int      `form:"page"`
	Limit      int      `form:"limit"`
}

// LeadExportRequest is the list filter minus pagination and free-text search.
type LeadExportRequest struct {
	Status     string   `form:"status" validate:"omitempty,oneof=New Contacted Qualified Won Lost"`
	TagIDs     []string `form:"tags"`
	DateFrom   string   `form:"date_from"`
	DateTo     string   `form:"date_to"`
	AssignedTo string   `form:"assigned_to"`
	Source     string   `form:"source"`
}

type NoteResponse struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	Author    *UserSummary `json:"author"`
	CreatedAt time.Time    `json:"created_at"`
}

type LeadResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Source     string         `json:"source"`
	Status     string         `json:"status"`
	AssignedTo *UserSummary   `json:"assigned_to"`
	Tags       []TagResponse  `json:"tags"`
	Notes      []NoteResponse `json:"notes,omitempty"`
	CreatedBy  string         `json:"created_by"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type LeadListResponse struct {
	Leads      []LeadResponse `json:"leads"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}
