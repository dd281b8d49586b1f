package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steve-ongera/Muranga-University-ERP-System/database"
	"github.com/steve-ongera/Muranga-University-ERP-System/models"
)

func studentPayload(prog uint, username, reg string) map[string]any {
	return map[string]any{
		"first_name": "Carol", "last_name": "Njeri",
		"email": username + "@student.example.com", "username": username,
		"password": "student@123", "reg_number": reg,
		"programme": prog, "year_of_study": 2, "phone": "+254700000003",
	}
}

func TestStudentCreate(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")

	rec := do(e, http.MethodPost, "/students", token, studentPayload(prog.ID, "carol.njeri", "MU/CS/003/2023"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dto struct {
		ID   uint `json:"id"`
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
		RegNumber     string `json:"reg_number"`
		ProgrammeName string `json:"programme_name"`
		ProgrammeCode string `json:"programme_code"`
		YearOfStudy   int    `json:"year_of_study"`
	}
	decode(t, rec, &dto)
	assert.Equal(t, "carol.njeri", dto.User.Username)
	assert.Equal(t, "student", dto.User.Role)
	assert.Equal(t, "MU/CS/003/2023", dto.RegNumber)
	assert.Equal(t, "BSC-CS", dto.ProgrammeCode)
	assert.Equal(t, 2, dto.YearOfStudy)

	// the new account can log in
	login(t, e, "carol.njeri", "student@123")
}

func TestStudentCreateDuplicateUsernameKeepsNothing(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	createUser(t, "carol.njeri", "student@123", models.RoleStudent, true)

	rec := do(e, http.MethodPost, "/students", token, studentPayload(prog.ID, "carol.njeri", "MU/CS/003/2023"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_USERNAME")

	var students int64
	database.DB.Model(&models.Student{}).Count(&students)
	assert.Zero(t, students)
}

func TestStudentCreateDuplicateRegNumberKeepsNothing(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	createStudent(t, "carol.njeri", "MU/CS/003/2023", &prog.ID, 1)

	var usersBefore int64
	database.DB.Model(&models.User{}).Count(&usersBefore)

	rec := do(e, http.MethodPost, "/students", token, studentPayload(prog.ID, "someone.else", "MU/CS/003/2023"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_REG_NUMBER")

	// neither the account nor the student row was persisted
	var usersAfter int64
	database.DB.Model(&models.User{}).Count(&usersAfter)
	assert.Equal(t, usersBefore, usersAfter)
}

func TestStudentListAndGetAdminOnly(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	s := createStudent(t, "david.kamau", "MU/CS/004/2023", &prog.ID, 2)

	rec := do(e, http.MethodGet, "/students", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = do(e, http.MethodGet, fmt.Sprintf("/students/%d", s.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "MU/CS/004/2023")
	assert.Contains(t, rec.Body.String(), "BSC-CS")

	// a student session gets Forbidden on the admin collection
	access, _ := login(t, e, "david.kamau", "student@123")
	rec = do(e, http.MethodGet, "/students", access, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = do(e, http.MethodGet, fmt.Sprintf("/students/%d/marks", s.ID), access, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStudentUpdate(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	other := createProgramme(t, "Bachelor of Commerce", "BCOM")
	s := createStudent(t, "brian.mwangi", "MU/CS/002/2023", &prog.ID, 1)

	rec := do(e, http.MethodPut, fmt.Sprintf("/students/%d", s.ID), token, map[string]any{
		"reg_number": "MU/BC/009/2023", "programme": other.ID, "year_of_study": 2, "phone": "0712345678",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got models.Student
	require.NoError(t, database.DB.First(&got, s.ID).Error)
	assert.Equal(t, "MU/BC/009/2023", got.RegNumber)
	require.NotNil(t, got.ProgrammeID)
	assert.Equal(t, other.ID, *got.ProgrammeID)
	assert.Equal(t, 2, got.YearOfStudy)
}

func TestStudentDeleteCascadesMarks(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	unit := createUnit(t, "CS101", "Introduction to Programming", prog.ID, 1, 1)
	s := createStudent(t, "alice.wanjiru", "MU/CS/001/2023", &prog.ID, 1)
	require.NoError(t, database.DB.Create(&models.Mark{StudentID: s.ID, UnitID: unit.ID}).Error)

	rec := do(e, http.MethodDelete, fmt.Sprintf("/students/%d", s.ID), token, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var marks int64
	database.DB.Model(&models.Mark{}).Count(&marks)
	assert.Zero(t, marks)

	// the login account survives; its profile lookup now 404s
	access, _ := login(t, e, "alice.wanjiru", "student@123")
	rec = do(e, http.MethodGet, "/my/profile", access, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "PROFILE_NOT_FOUND")
}

func TestStudentMarksSubResource(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	u1 := createUnit(t, "CS101", "Introduction to Programming", prog.ID, 1, 1)
	u2 := createUnit(t, "CS105", "Data Structures & Algorithms", prog.ID, 1, 2)
	s := createStudent(t, "alice.wanjiru", "MU/CS/001/2023", &prog.ID, 1)

	cat, exam := 24.0, 58.0
	require.NoError(t, database.DB.Create(&models.Mark{StudentID: s.ID, UnitID: u1.ID, CatScore: &cat, ExamScore: &exam}).Error)
	require.NoError(t, database.DB.Create(&models.Mark{StudentID: s.ID, UnitID: u2.ID}).Error)

	rec := do(e, http.MethodGet, fmt.Sprintf("/students/%d/marks", s.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var marks []struct {
		UnitCode string  `json:"unit_code"`
		UnitName string  `json:"unit_name"`
		Total    float64 `json:"total"`
		Grade    string  `json:"grade"`
	}
	decode(t, rec, &marks)
	require.Len(t, marks, 2)
	assert.Equal(t, "CS101", marks[0].UnitCode)
	assert.Equal(t, 82.0, marks[0].Total)
	assert.Equal(t, "A", marks[0].Grade)
	assert.Equal(t, 0.0, marks[1].Total)
	assert.Equal(t, "E", marks[1].Grade)
}
