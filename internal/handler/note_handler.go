package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/surya-pratap-s/notes-saas/internal/handler/middleware"
	"github.com/surya-pratap-s/notes-saas/internal/service"
	"github.com/surya-pratap-s/notes-saas/pkg/validator"
)

type NoteHandler struct {
	noteService *service.NoteService
	validator   *validator.Validator
}

func NewNoteHandler(noteService *service.NoteService, validator *validator.Validator) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
		validator:   validator,
	}
}

// Create persists a new note for the principal
// POST /api/notes
func (h *NoteHandler) Create(c *fiber.Ctx) error {
	var req service.CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	note, err := h.noteService.Create(c.Context(), middleware.Principal(c), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    note,
	})
}

// List returns the principal's visible notes
// GET /api/notes?search=&sortBy=&order=
func (h *NoteHandler) List(c *fiber.Ctx) error {
	query := service.ListNotesQuery{
		Search: c.Query("search"),
		SortBy: c.Query("sortBy", "updated_at"),
		Order:  c.Query("order", "desc"),
	}

	notes, err := h.noteService.List(c.Context(), middleware.Principal(c), query)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"count":   len(notes),
		"data":    notes,
	})
}

// Get returns a single note
// GET /api/notes/:id
func (h *NoteHandler) Get(c *fiber.Ctx) error {
	note, err := h.noteService.Get(c.Context(), middleware.Principal(c), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"note":    note,
	})
}

// Update applies the provided fields to the principal's note
// PUT /api/notes/:id
func (h *NoteHandler) Update(c *fiber.Ctx) error {
	var req service.UpdateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	note, err := h.noteService.Update(c.Context(), middleware.Principal(c), c.Params("id"), req)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    note,
	})
}

// Delete removes the principal's note
// DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *fiber.Ctx) error {
	if err := h.noteService.Delete(c.Context(), middleware.Principal(c), c.Params("id")); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Note deleted successfully",
	})
}
