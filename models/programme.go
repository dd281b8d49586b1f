package models

import "time"

type Programme struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"size:200;not null"`
	Code          string    `json:"code" gorm:"size:20;uniqueIndex;not null"`
	DurationYears int       `json:"duration_years" gorm:"not null;default:3"`
	HasSemester3  bool      `json:"has_semester_3" gorm:"not null;default:false"` // some programmes run 3 sems in year 1
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
