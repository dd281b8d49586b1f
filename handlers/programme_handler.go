package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

type ProgrammeHandler struct{}

func NewProgrammeHandler() *ProgrammeHandler { return &ProgrammeHandler{} }

type programmePayload struct {
	Name          string `json:"name" validate:"required,max=200"`
	Code          string `json:"code" validate:"required,max=20"`
	DurationYears int    `json:"duration_years" validate:"omitempty,min=1,max=8"`
	HasSemester3  bool   `json:"has_semester_3"`
}

func (p *programmePayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	if p.DurationYears == 0 {
		p.DurationYears = 3
	}
}

// GET /programmes
func (h *ProgrammeHandler) List(c echo.Context) error {
	var items []models.Programme
	if err := database.DB.Order("code ASC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// GET /programmes/:id
func (h *ProgrammeHandler) Get(c echo.Context) error {
	var p models.Programme
	if err := database.DB.First(&p, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, p)
}

// POST /programmes
func (h *ProgrammeHandler) Create(c echo.Context) error {
	var p programmePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}

	var dup models.Programme
	if err := database.DB.Where("code = ?", p.Code).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "DUPLICATE_CODE", "message": "Programme code already exists.",
		})
	}

	rec := models.Programme{
		Name:          p.Name,
		Code:          p.Code,
		DurationYears: p.DurationYears,
		HasSemester3:  p.HasSemester3,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT/PATCH /programmes/:id
func (h *ProgrammeHandler) Update(c echo.Context) error {
	var existing models.Programme
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p programmePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}

	var dup models.Programme
	if err := database.DB.Where("code = ? AND id <> ?", p.Code, existing.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "DUPLICATE_CODE", "message": "Programme code already exists.",
		})
	}

	existing.Name = p.Name
	existing.Code = p.Code
	existing.DurationYears = p.DurationYears
	existing.HasSemester3 = p.HasSemester3
	if err := database.DB.Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, existing)
}

// DELETE /programmes/:id
// Units (and their marks) go with the programme; student references are
// cleared, not cascaded.
func (h *ProgrammeHandler) Delete(c echo.Context) error {
	var existing models.Programme
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id IN (?)",
			tx.Model(&models.Unit{}).Select("id").Where("programme_id = ?", existing.ID),
		).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		if err := tx.Where("programme_id = ?", existing.ID).Delete(&models.Unit{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Student{}).Where("programme_id = ?", existing.ID).
			Update("programme_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}
