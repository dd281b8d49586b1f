package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCRUD(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")

	rec := do(e, http.MethodPost, "/units", token, map[string]any{
		"code": "cs101", "name": "Introduction to Programming", "programme": prog.ID, "year": 1, "semester": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID            uint   `json:"id"`
		Code          string `json:"code"`
		ProgrammeName string `json:"programme_name"`
	}
	decode(t, rec, &created)
	assert.Equal(t, "CS101", created.Code)
	assert.Equal(t, "Bachelor of Science in Computer Science", created.ProgrammeName)

	// duplicate code conflicts
	rec = do(e, http.MethodPost, "/units", token, map[string]any{
		"code": "CS101", "name": "Another Unit", "programme": prog.ID, "year": 1, "semester": 1,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_CODE")

	rec = do(e, http.MethodPut, fmt.Sprintf("/units/%d", created.ID), token, map[string]any{
		"code": "CS101", "name": "Intro to Programming", "programme": prog.ID, "year": 1, "semester": 2,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"semester":2`)

	rec = do(e, http.MethodDelete, fmt.Sprintf("/units/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(e, http.MethodGet, fmt.Sprintf("/units/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnitListFilters(t *testing.T) {
	e := setup(t)
	token := adminToken(t, e)
	cs := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	it := createProgramme(t, "Bachelor of Science in Information Technology", "BSC-IT")

	createUnit(t, "CS101", "Introduction to Programming", cs.ID, 1, 1)
	createUnit(t, "CS105", "Data Structures & Algorithms", cs.ID, 1, 2)
	createUnit(t, "CS201", "Object Oriented Programming", cs.ID, 2, 1)
	createUnit(t, "IT101", "Fundamentals of IT", it.ID, 1, 1)

	list := func(path string) []struct {
		Code string `json:"code"`
	} {
		rec := do(e, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var out []struct {
			Code string `json:"code"`
		}
		decode(t, rec, &out)
		return out
	}

	all := list("/units")
	assert.Len(t, all, 4)

	byProg := list(fmt.Sprintf("/units?programme=%d", cs.ID))
	require.Len(t, byProg, 3)
	for _, u := range byProg {
		assert.NotEqual(t, "IT101", u.Code)
	}

	byYear := list("/units?year=1")
	assert.Len(t, byYear, 3)

	// filters combine with AND
	combined := list(fmt.Sprintf("/units?programme=%d&year=1&semester=1", cs.ID))
	require.Len(t, combined, 1)
	assert.Equal(t, "CS101", combined[0].Code)

	none := list(fmt.Sprintf("/units?programme=%d&year=2&semester=2", cs.ID))
	assert.Len(t, none, 0)
}

func TestUnitWriteRequiresAdmin(t *testing.T) {
	e := setup(t)
	prog := createProgramme(t, "Bachelor of Science in Computer Science", "BSC-CS")
	createStudent(t, "brian.mwangi", "MU/CS/002/2023", &prog.ID, 1)
	access, _ := login(t, e, "brian.mwangi", "student@123")

	rec := do(e, http.MethodGet, "/units", access, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/units", access, map[string]any{
		"code": "CS101", "name": "Introduction to Programming", "programme": prog.ID, "year": 1, "semester": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
