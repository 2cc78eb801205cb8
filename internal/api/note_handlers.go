package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"noteboard-backend/internal/auth"
	"noteboard-backend/internal/database"
	"noteboard-backend/internal/models"
)

var noteRepo *database.NoteRepo

// InitNoteRepo initializes the note repository
func InitNoteRepo() {
	noteRepo = database.NewNoteRepo()
}

// listNotesHandler handles GET /api/notes
func listNotesHandler(c echo.Context) error {
	notes, err := noteRepo.List()
	if err != nil {
		c.Logger().Error("list notes error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to list notes",
		})
	}

	if notes == nil {
		notes = []*models.Note{}
	}
	return c.JSON(http.StatusOK, notes)
}

// getNoteHandler handles GET /api/notes/:id
func getNoteHandler(c echo.Context) error {
	note, err := noteRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "note not found",
			})
		}
		c.Logger().Error("get note error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to get note",
		})
	}

	return c.JSON(http.StatusOK, note)
}

// createNoteHandler handles POST /api/notes (protected)
func createNoteHandler(c echo.Context) error {
	user := auth.UserFromContext(c)

	var req models.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body",
		})
	}

	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Title is required.",
		})
	}

	note := &models.Note{
		AuthorID: user.ID,
		Author:   user.Username,
		Title:    req.Title,
		Body:     req.Body,
	}
	if err := noteRepo.Create(note); err != nil {
		c.Logger().Error("create note error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to create note",
		})
	}

	return c.JSON(http.StatusCreated, note)
}

// deleteNoteHandler handles DELETE /api/notes/:id (protected)
func deleteNoteHandler(c echo.Context) error {
	user := auth.UserFromContext(c)

	note, err := noteRepo.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrNoteNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "note not found",
			})
		}
		c.Logger().Error("delete note error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to delete note",
		})
	}

	if note.AuthorID != user.ID {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "cannot delete another user's note",
		})
	}

	if err := noteRepo.Delete(note.ID); err != nil {
		c.Logger().Error("delete note error: ", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "failed to delete note",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "note deleted",
	})
}
