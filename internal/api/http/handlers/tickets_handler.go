package handlers

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repairdesk-service/internal/api/dto"
	"github.com/spec-kit/repairdesk-service/internal/auth"
	"github.com/spec-kit/repairdesk-service/internal/domain"
	"github.com/spec-kit/repairdesk-service/internal/service"
	apperrors "github.com/spec-kit/repairdesk-service/pkg/util"
)

// TicketsHandler manages staff-facing ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TicketCreateInput{
		CustomerID:         req.CustomerID,
		DeviceID:           req.DeviceID,
		Title:              req.Title,
		Description:        req.Description,
		ProblemDescription: req.ProblemDescription,
		Priority:           domain.TicketPriority(req.Priority),
		Tags:               req.Tags,
		SLATargetAt:        req.SLATargetAt,
		StorageLocationID:  req.StorageLocationID,
	}
	ticket, err := h.service.CreateTicket(c.Context(), principal.OrganizationID, principal.UserID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	filter := parseTicketQuery(c)
	tickets, err := h.service.ListTickets(c.Context(), principal.OrganizationID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	detail, err := h.service.GetTicketDetail(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(detail)})
}

// GetTicketByNumber GET /tickets/number/:number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	ticket, err := h.service.GetTicketByNumber(c.Context(), principal.OrganizationID, c.Params("number"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// SearchByBarcode GET /tickets/search/:barcode.
func (h *TicketsHandler) SearchByBarcode(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	barcode, err := decodeParam(c, "barcode")
	if err != nil {
		return err
	}
	ticket, err := h.service.LookupByBarcode(c.Context(), principal.OrganizationID, barcode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.TicketUpdateInput{
		Title:                req.Title,
		Description:          req.Description,
		ProblemDescription:   req.ProblemDescription,
		Diagnosis:            req.Diagnosis,
		AssignedTechnicianID: req.AssignedTechnicianID,
		Tags:                 req.Tags,
		SLATargetAt:          req.SLATargetAt,
		StatusNote:           req.StatusNote,
		StorageLocationID:    req.StorageLocationID,
	}
	if req.Priority != nil {
		priority := domain.TicketPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		input.Status = &status
	}
	ticket, err := h.service.UpdateTicket(c.Context(), principal.OrganizationID, principal.UserID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// TransitionTicket PATCH /tickets/:id/status.
func (h *TicketsHandler) TransitionTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	ticket, err := h.service.TransitionTicket(c.Context(), principal.OrganizationID, principal.UserID,
		c.Params("id"), domain.TicketStatus(req.Status), req.Note, req.StorageLocationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddNote POST /tickets/:id/notes.
func (h *TicketsHandler) AddNote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	note, err := h.service.AddNote(c.Context(), principal.OrganizationID, principal.UserID, c.Params("id"), req.Content, req.IsInternal)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": noteResponse(note)})
}

// AddTimeEntry POST /tickets/:id/time.
func (h *TicketsHandler) AddTimeEntry(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateTimeEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	entry, err := h.service.AddTimeEntry(c.Context(), principal.OrganizationID, principal.UserID, c.Params("id"), req.Description, req.Hours, req.Date)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": timeEntryResponse(entry)})
}

// AddAttachment POST /tickets/:id/attachments.
func (h *TicketsHandler) AddAttachment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateAttachmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	attachment, err := h.service.AddAttachment(c.Context(), principal.OrganizationID, c.Params("id"), req.StorageKey, req.FileName, req.MimeType, req.SizeBytes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// ListHistory GET /tickets/:id/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	history, err := h.service.ListHistory(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": historyResponses(history)})
}

// Timeline GET /tickets/:id/timeline.
func (h *TicketsHandler) Timeline(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.service.Timeline(c.Context(), principal.OrganizationID, c.Params("id"))
	if err != nil {
		return err
	}
	resp := make([]dto.TimelineItemResponse, 0, len(items))
	for _, item := range items {
		entry := dto.TimelineItemResponse{Timestamp: item.Timestamp}
		if item.Transition != nil {
			entry.Kind = "transition"
			tr := historyResponse(item.Transition)
			entry.Transition = &tr
		} else if item.Note != nil {
			entry.Kind = "note"
			note := noteResponse(item.Note)
			entry.Note = &note
		}
		resp = append(resp, entry)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.service.DeleteTicket(c.Context(), principal.OrganizationID, principal.UserID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseTicketQuery(c *fiber.Ctx) service.TicketListFilter {
	filter := service.TicketListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(part)))
		}
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		for _, part := range strings.Split(priorityStr, ",") {
			filter.Priorities = append(filter.Priorities, domain.TicketPriority(strings.TrimSpace(part)))
		}
	}
	if customerID := c.Query("customerId"); customerID != "" {
		filter.CustomerID = &customerID
	}
	if assignedTo := c.Query("assignedTo"); assignedTo != "" {
		filter.AssignedTechID = &assignedTo
	}
	if tagsStr := c.Query("tags"); tagsStr != "" {
		for _, part := range strings.Split(tagsStr, ",") {
			if tag := strings.TrimSpace(part); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	if from := parseTime(c.Query("dateFrom")); from != nil {
		filter.CreatedFrom = from
	}
	if to := parseTime(c.Query("dateTo")); to != nil {
		filter.CreatedTo = to
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func decodeParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.NewValidationError("invalid path parameter", map[string]any{"param": name})
	}
	return decoded, nil
}

func parseTime(val string) *time.Time {
	if val == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}
	return &t
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                   ticket.ID,
		TicketNumber:         ticket.TicketNumber,
		BarcodeData:          ticket.BarcodeData,
		CustomerID:           ticket.CustomerID,
		DeviceID:             ticket.DeviceID,
		AssignedTechnicianID: ticket.AssignedTechnicianID,
		StorageLocationID:    ticket.StorageLocationID,
		Title:                ticket.Title,
		Status:               ticket.Status,
		Priority:             ticket.Priority,
		Tags:                 ticket.Tags,
		SLATargetAt:          ticket.SLATargetAt,
		CreatedAt:            ticket.CreatedAt,
		UpdatedAt:            ticket.UpdatedAt,
	}
}

func ticketDetail(detail *service.TicketDetail) dto.TicketDetailResponse {
	ticket := detail.Ticket
	notes := make([]dto.NoteResponse, 0, len(detail.Notes))
	for i := range detail.Notes {
		notes = append(notes, noteResponse(&detail.Notes[i]))
	}
	entries := make([]dto.TimeEntryResponse, 0, len(detail.TimeEntries))
	for i := range detail.TimeEntries {
		entries = append(entries, timeEntryResponse(&detail.TimeEntries[i]))
	}
	attachments := make([]dto.AttachmentResponse, 0, len(detail.Attachments))
	for i := range detail.Attachments {
		attachments = append(attachments, attachmentResponse(&detail.Attachments[i]))
	}
	return dto.TicketDetailResponse{
		TicketSummary:      ticketSummary(ticket),
		Description:        ticket.Description,
		ProblemDescription: ticket.ProblemDescription,
		Diagnosis:          ticket.Diagnosis,
		StartedAt:          ticket.StartedAt,
		CompletedAt:        ticket.CompletedAt,
		PickedUpAt:         ticket.PickedUpAt,
		Notes:              notes,
		TimeEntries:        entries,
		Attachments:        attachments,
		History:            historyResponses(detail.History),
		BillableHours:      detail.BillableHours,
	}
}

func noteResponse(note *domain.TicketNote) dto.NoteResponse {
	return dto.NoteResponse{
		ID:         note.ID,
		AuthorID:   note.AuthorID,
		Content:    note.Content,
		IsInternal: note.IsInternal,
		CreatedAt:  note.CreatedAt,
	}
}

func timeEntryResponse(entry *domain.TimeEntry) dto.TimeEntryResponse {
	return dto.TimeEntryResponse{
		ID:          entry.ID,
		AuthorID:    entry.AuthorID,
		Description: entry.Description,
		Hours:       entry.Hours,
		EntryDate:   entry.EntryDate,
		CreatedAt:   entry.CreatedAt,
	}
}

func attachmentResponse(attachment *domain.AttachmentReference) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:        attachment.ID,
		FileName:  attachment.FileName,
		MimeType:  attachment.MimeType,
		SizeBytes: attachment.SizeBytes,
		CreatedAt: attachment.CreatedAt,
	}
}

func historyResponse(entry *domain.TicketHistoryEntry) dto.HistoryEntryResponse {
	return dto.HistoryEntryResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		FromStatus: entry.FromStatus,
		ToStatus:   entry.ToStatus,
		Note:       entry.Note,
		CreatedAt:  entry.CreatedAt,
	}
}

func historyResponses(entries []domain.TicketHistoryEntry) []dto.HistoryEntryResponse {
	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		resp = append(resp, historyResponse(&entries[i]))
	}
	return resp
}
