package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

// SelfHandler serves the authenticated student's own records.
type SelfHandler struct{}

func NewSelfHandler() *SelfHandler { return &SelfHandler{} }

func (h *SelfHandler) ownStudent(c echo.Context) (*models.Student, error) {
	uid, _ := c.Get("user_id").(uint)
	var s models.Student
	if err := database.DB.Preload("User").Preload("Programme").
		Where("user_id = ?", uid).First(&s).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, echo.NewHTTPError(http.StatusNotFound, map[string]any{
				"error": "PROFILE_NOT_FOUND", "message": "Profile not found.",
			})
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return &s, nil
}

// GET /my/profile
func (h *SelfHandler) Profile(c echo.Context) error {
	s, err := h.ownStudent(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStudentDTO(*s))
}

// GET /my/marks
// Ordered by unit year, then semester, then unit code — the transcript
// presentation clients rely on.
func (h *SelfHandler) Marks(c echo.Context) error {
	s, err := h.ownStudent(c)
	if err != nil {
		return err
	}

	var marks []models.Mark
	if err := database.DB.Preload("Unit").
		Joins("JOIN units ON units.id = marks.unit_id").
		Where("marks.student_id = ?", s.ID).
		Order("units.year ASC, units.semester ASC, units.code ASC").
		Find(&marks).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]any{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, toMarkDTOs(marks))
}
