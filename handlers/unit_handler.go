package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

type UnitHandler struct{}

func NewUnitHandler() *UnitHandler { return &UnitHandler{} }

type unitPayload struct {
	Code      string `json:"code" validate:"required,max=20"`
	Name      string `json:"name" validate:"required,max=200"`
	Programme uint   `json:"programme" validate:"required"`
	Year      int    `json:"year" validate:"required,min=1,max=8"`
	Semester  int    `json:"semester" validate:"required,min=1,max=3"`
}

func (p *unitPayload) normalize() {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Name = strings.Join(strings.Fields(p.Name), " ")
}

type unitDTO struct {
	ID            uint   `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Programme     uint   `json:"programme"`
	ProgrammeName string `json:"programme_name"`
	Year          int    `json:"year"`
	Semester      int    `json:"semester"`
}

func toUnitDTO(u models.Unit) unitDTO {
	return unitDTO{
		ID:            u.ID,
		Code:          u.Code,
		Name:          u.Name,
		Programme:     u.ProgrammeID,
		ProgrammeName: u.Programme.Name,
		Year:          u.Year,
		Semester:      u.Semester,
	}
}

// GET /units?programme=&year=&semester=
// Filters are optional and combine with AND.
func (h *UnitHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Unit{}).Preload("Programme")

	if v := atoiOr(strings.TrimSpace(c.QueryParam("programme")), 0); v > 0 {
		tx = tx.Where("programme_id = ?", v)
	}
	if v := atoiOr(strings.TrimSpace(c.QueryParam("year")), 0); v > 0 {
		tx = tx.Where("year = ?", v)
	}
	if v := atoiOr(strings.TrimSpace(c.QueryParam("semester")), 0); v > 0 {
		tx = tx.Where("semester = ?", v)
	}

	var items []models.Unit
	if err := tx.Order("code ASC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	out := make([]unitDTO, 0, len(items))
	for _, u := range items {
		out = append(out, toUnitDTO(u))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /units/:id
func (h *UnitHandler) Get(c echo.Context) error {
	var u models.Unit
	if err := database.DB.Preload("Programme").First(&u, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, toUnitDTO(u))
}

// POST /units
func (h *UnitHandler) Create(c echo.Context) error {
	var p unitPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}

	var dup models.Unit
	if err := database.DB.Where("code = ?", p.Code).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "DUPLICATE_CODE", "message": "Unit code already exists.",
		})
	}
	var prog models.Programme
	if err := database.DB.First(&prog, p.Programme).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR", "fields": map[string]string{"programme": "programme does not exist"},
		})
	}

	rec := models.Unit{
		Code:        p.Code,
		Name:        p.Name,
		ProgrammeID: prog.ID,
		Programme:   prog,
		Year:        p.Year,
		Semester:    p.Semester,
	}
	if err := database.DB.Create(&rec).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toUnitDTO(rec))
}

// PUT/PATCH /units/:id
func (h *UnitHandler) Update(c echo.Context) error {
	var existing models.Unit
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p unitPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}

	var dup models.Unit
	if err := database.DB.Where("code = ? AND id <> ?", p.Code, existing.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "DUPLICATE_CODE", "message": "Unit code already exists.",
		})
	}
	var prog models.Programme
	if err := database.DB.First(&prog, p.Programme).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR", "fields": map[string]string{"programme": "programme does not exist"},
		})
	}

	existing.Code = p.Code
	existing.Name = p.Name
	existing.ProgrammeID = prog.ID
	existing.Programme = prog
	existing.Year = p.Year
	existing.Semester = p.Semester
	if err := database.DB.Omit("Programme").Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toUnitDTO(existing))
}

// DELETE /units/:id
func (h *UnitHandler) Delete(c echo.Context) error {
	var existing models.Unit
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("unit_id = ?", existing.ID).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}
