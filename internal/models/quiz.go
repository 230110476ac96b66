package models

import (
	"time"

	"gorm.io/gorm"
)

type QuizStatus string

const (
	QuizStatusGenerating QuizStatus = "generating"
	QuizStatusReady      QuizStatus = "ready"
	QuizStatusArchived   QuizStatus = "archived"
)

// Quiz is a single generated question set. Questions are created at
// generation time and are immutable for the life of any session over them.
type Quiz struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	Title   string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject string     `json:"subject" gorm:"size:100;index"`
	Status  QuizStatus `json:"status" gorm:"default:ready;index"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// PracticeSet is the multi-unit variant of a quiz: a larger question set
// whose items are grouped by unit for score breakdown on submission.
type PracticeSet struct {
	ID      uint       `json:"id" gorm:"primaryKey"`
	Title   string     `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject string     `json:"subject" gorm:"size:100;index"`
	Status  QuizStatus `json:"status" gorm:"default:ready;index"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:255;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Questions []Question `json:"questions" gorm:"foreignKey:SetID"`
}

func (PracticeSet) TableName() string {
	return "practice_sets"
}
