package models

import "time"

type Student struct {
	ID             uint       `gorm:"primaryKey"                   json:"id"`
	UserID         uint       `gorm:"uniqueIndex;not null"         json:"-"`
	User           User       `json:"user"`
	RegNumber      string     `gorm:"size:30;uniqueIndex;not null" json:"reg_number"`
	ProgrammeID    *uint      `json:"programme"` // cleared when the programme is removed
	Programme      *Programme `json:"-"`
	YearOfStudy    int        `gorm:"not null;default:1" json:"year_of_study"`
	Phone          string     `gorm:"size:15"            json:"phone"`
	DateRegistered time.Time  `gorm:"autoCreateTime"     json:"date_registered"`
	UpdatedAt      time.Time  `json:"-"`
}
