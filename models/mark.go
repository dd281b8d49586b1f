package models

import "time"

// Mark holds one student's scores for one unit. At most one row exists
// per (student, unit) pair; uploads overwrite in place.
type Mark struct {
	ID         uint      `gorm:"primaryKey"                            json:"id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:idx_student_unit" json:"student"`
	Student    Student   `json:"-"`
	UnitID     uint      `gorm:"not null;uniqueIndex:idx_student_unit" json:"unit"`
	Unit       Unit      `json:"-"`
	CatScore   *float64  `gorm:"type:decimal(5,2)" json:"cat_score"`
	ExamScore  *float64  `gorm:"type:decimal(5,2)" json:"exam_score"`
	UploadedAt time.Time `gorm:"autoUpdateTime"    json:"uploaded_at"`
}

// Total treats an absent score as zero.
func (m *Mark) Total() float64 {
	var t float64
	if m.CatScore != nil {
		t += *m.CatScore
	}
	if m.ExamScore != nil {
		t += *m.ExamScore
	}
	return t
}

func (m *Mark) Grade() string {
	return GradeFor(m.Total())
}

// GradeFor bands a total score into a letter grade.
func GradeFor(total float64) string {
	switch {
	case total >= 70:
		return "A"
	case total >= 60:
		return "B"
	case total >= 50:
		return "C"
	case total >= 40:
		return "D"
	default:
		return "E"
	}
}
