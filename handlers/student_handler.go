package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

/* ====================== DTOs ====================== */

type studentCreatePayload struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,max=60"`
	Password    string `json:"password" validate:"required,min=6"`
	RegNumber   string `json:"reg_number" validate:"required,max=30"`
	Programme   uint   `json:"programme" validate:"required"`
	YearOfStudy int    `json:"year_of_study" validate:"omitempty,min=1,max=8"`
	Phone       string `json:"phone" validate:"omitempty,max=15"`
}

func (p *studentCreatePayload) normalize() {
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	p.Username = strings.TrimSpace(p.Username)
	p.RegNumber = strings.TrimSpace(p.RegNumber)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.YearOfStudy == 0 {
		p.YearOfStudy = 1
	}
}

type studentUpdatePayload struct {
	RegNumber   string `json:"reg_number" validate:"required,max=30"`
	Programme   *uint  `json:"programme"`
	YearOfStudy int    `json:"year_of_study" validate:"omitempty,min=1,max=8"`
	Phone       string `json:"phone" validate:"omitempty,max=15"`
}

// studentDTO joins the linked account and programme fields the way
// clients render a student row.
type studentDTO struct {
	ID             uint        `json:"id"`
	User           models.User `json:"user"`
	RegNumber      string      `json:"reg_number"`
	Programme      *uint       `json:"programme"`
	ProgrammeName  string      `json:"programme_name,omitempty"`
	ProgrammeCode  string      `json:"programme_code,omitempty"`
	HasSemester3   bool        `json:"has_semester_3"`
	YearOfStudy    int         `json:"year_of_study"`
	Phone          string      `json:"phone"`
	DateRegistered string      `json:"date_registered"`
}

func toStudentDTO(s models.Student) studentDTO {
	dto := studentDTO{
		ID:             s.ID,
		User:           s.User,
		RegNumber:      s.RegNumber,
		Programme:      s.ProgrammeID,
		YearOfStudy:    s.YearOfStudy,
		Phone:          s.Phone,
		DateRegistered: s.DateRegistered.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if s.Programme != nil {
		dto.ProgrammeName = s.Programme.Name
		dto.ProgrammeCode = s.Programme.Code
		dto.HasSemester3 = s.Programme.HasSemester3
	}
	return dto
}

/* ====================== Handlers ====================== */

// GET /students
func (h *StudentHandler) List(c echo.Context) error {
	var items []models.Student
	if err := database.DB.Preload("User").Preload("Programme").
		Order("id ASC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	out := make([]studentDTO, 0, len(items))
	for _, s := range items {
		out = append(out, toStudentDTO(s))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	if err := database.DB.Preload("User").Preload("Programme").
		First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, toStudentDTO(s))
}

// POST /students
// Creates the student account and profile together. Duplicate checks run
// before any insert so a conflict leaves nothing behind; the unique
// indexes catch the concurrent-create race inside the transaction.
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentCreatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}

	var dupUser models.User
	if err := database.DB.Where("username = ?", p.Username).First(&dupUser).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "DUPLICATE_USERNAME", "message": "Username already exists.",
		})
	}
	var dupStudent models.Student
	if err := database.DB.Where("reg_number = ?", p.RegNumber).First(&dupStudent).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "DUPLICATE_REG_NUMBER", "message": "Reg number already exists.",
		})
	}
	var prog models.Programme
	if err := database.DB.First(&prog, p.Programme).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "VALIDATION_ERROR", "fields": map[string]string{"programme": "programme does not exist"},
		})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "HASH_FAILED"})
	}

	var s models.Student
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		u := models.User{
			Username:  p.Username,
			Password:  string(hash),
			Role:      models.RoleStudent,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
			Active:    true,
		}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}
		s = models.Student{
			UserID:      u.ID,
			RegNumber:   p.RegNumber,
			ProgrammeID: &prog.ID,
			YearOfStudy: p.YearOfStudy,
			Phone:       p.Phone,
		}
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		s.User = u
		s.Programme = &prog
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toStudentDTO(s))
}

// PUT /students/:id
// Account fields are read-only here; only the student profile moves.
func (h *StudentHandler) Update(c echo.Context) error {
	var existing models.Student
	if err := database.DB.Preload("User").First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p studentUpdatePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.RegNumber = strings.TrimSpace(p.RegNumber)
	if p.YearOfStudy == 0 {
		p.YearOfStudy = existing.YearOfStudy
	}
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": formatValidationErrors(err)})
	}

	var dup models.Student
	if err := database.DB.Where("reg_number = ? AND id <> ?", p.RegNumber, existing.ID).First(&dup).Error; err == nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error": "DUPLICATE_REG_NUMBER", "message": "Reg number already exists.",
		})
	}
	if p.Programme != nil {
		var prog models.Programme
		if err := database.DB.First(&prog, *p.Programme).Error; err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error": "VALIDATION_ERROR", "fields": map[string]string{"programme": "programme does not exist"},
			})
		}
		existing.Programme = &prog
	} else {
		existing.Programme = nil
	}

	existing.RegNumber = p.RegNumber
	existing.ProgrammeID = p.Programme
	existing.YearOfStudy = p.YearOfStudy
	existing.Phone = strings.TrimSpace(p.Phone)

	if err := database.DB.Omit("User", "Programme").Save(&existing).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toStudentDTO(existing))
}

// DELETE /students/:id
// Marks go with the student. The login account is left in place, so a
// later /my/profile from it reports PROFILE_NOT_FOUND.
func (h *StudentHandler) Delete(c echo.Context) error {
	var existing models.Student
	if err := database.DB.First(&existing, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", existing.ID).Delete(&models.Mark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&existing).Error
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	return c.NoContent(http.StatusNoContent)
}

// GET /students/:id/marks
func (h *StudentHandler) Marks(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var marks []models.Mark
	if err := database.DB.Preload("Unit").Where("student_id = ?", s.ID).
		Order("id ASC").Find(&marks).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, toMarkDTOs(marks))
}
