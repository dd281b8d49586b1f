package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

type MarkHandler struct{}

func NewMarkHandler() *MarkHandler { return &MarkHandler{} }

/* ====================== DTOs ====================== */

type markUploadPayload struct {
	Student   uint     `json:"student" validate:"required"`
	Unit      uint     `json:"unit" validate:"required"`
	CatScore  *float64 `json:"cat_score"`
	ExamScore *float64 `json:"exam_score"`
}

// markDTO carries the unit metadata and the derived total/grade next to
// the raw scores, transcript style.
type markDTO struct {
	ID         uint      `json:"id"`
	Student    uint      `json:"student"`
	Unit       uint      `json:"unit"`
	UnitCode   string    `json:"unit_code"`
	UnitName   string    `json:"unit_name"`
	Year       int       `json:"year"`
	Semester   int       `json:"semester"`
	CatScore   *float64  `json:"cat_score"`
	ExamScore  *float64  `json:"exam_score"`
	Total      float64   `json:"total"`
	Grade      string    `json:"grade"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func toMarkDTO(m models.Mark) markDTO {
	return markDTO{
		ID:         m.ID,
		Student:    m.StudentID,
		Unit:       m.UnitID,
		UnitCode:   m.Unit.Code,
		UnitName:   m.Unit.Name,
		Year:       m.Unit.Year,
		Semester:   m.Unit.Semester,
		CatScore:   m.CatScore,
		ExamScore:  m.ExamScore,
		Total:      m.Total(),
		Grade:      m.Grade(),
		UploadedAt: m.UploadedAt,
	}
}

func toMarkDTOs(marks []models.Mark) []markDTO {
	out := make([]markDTO, 0, len(marks))
	for _, m := range marks {
		out = append(out, toMarkDTO(m))
	}
	return out
}

func scoreInRange(v *float64) bool {
	return v == nil || (*v >= 0 && *v <= 100)
}

/* ====================== Handlers ====================== */

// GET /marks?student=
func (h *MarkHandler) List(c echo.Context) error {
	tx := database.DB.Model(&models.Mark{}).Preload("Unit")
	if v := strings.TrimSpace(c.QueryParam("student")); v != "" {
		tx = tx.Where("student_id = ?", v)
	}

	var items []models.Mark
	if err := tx.Order("id ASC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, toMarkDTOs(items))
}

// GET /marks/:id
func (h *MarkHandler) Get(c echo.Context) error {
	var m models.Mark
	if err := database.DB.Preload("Unit").First(&m, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, toMarkDTO(m))
}

// POST /marks
// Upsert keyed on (student, unit): 201 when a row is created, 200 when
// an existing one is overwritten. Omitted scores overwrite to null —
// an upload is the full statement of both fields.
func (h *MarkHandler) Upload(c echo.Context) error {
	var p markUploadPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}
	if !scoreInRange(p.CatScore) || !scoreInRange(p.ExamScore) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "SCORE_OUT_OF_RANGE", "message": "Scores must be between 0 and 100.",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, p.Student).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR", "fields": map[string]string{"student": "student does not exist"},
		})
	}
	var unit models.Unit
	if err := database.DB.First(&unit, p.Unit).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR", "fields": map[string]string{"unit": "unit does not exist"},
		})
	}

	var m models.Mark
	err := database.DB.Where("student_id = ? AND unit_id = ?", student.ID, unit.ID).First(&m).Error
	created := err == gorm.ErrRecordNotFound
	if err != nil && !created {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	if created {
		m = models.Mark{StudentID: student.ID, UnitID: unit.ID, CatScore: p.CatScore, ExamScore: p.ExamScore}
		if err := database.DB.Create(&m).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	} else {
		m.CatScore = p.CatScore
		m.ExamScore = p.ExamScore
		m.UploadedAt = time.Now()
		// Map update so a nil score really overwrites the column to null.
		if err := database.DB.Model(&m).Updates(map[string]any{
			"cat_score": p.CatScore, "exam_score": p.ExamScore, "uploaded_at": m.UploadedAt,
		}).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
	}

	m.Unit = unit
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toMarkDTO(m))
}

// DELETE /marks/:id
func (h *MarkHandler) Delete(c echo.Context) error {
	var existing models.Mark
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if err := database.DB.Delete(&existing).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}
