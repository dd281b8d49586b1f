package models

import "time"

type Unit struct {
	ID          uint      `gorm:"primaryKey"                   json:"id"`
	Code        string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string    `gorm:"size:200;not null"            json:"name"`
	ProgrammeID uint      `gorm:"not null;index"               json:"programme"`
	Programme   Programme `json:"-"`
	Year        int       `gorm:"not null" json:"year"`     // 1 or 2
	Semester    int       `gorm:"not null" json:"semester"` // 1, 2, or 3
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}
