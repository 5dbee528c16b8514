package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WaitlistEntry is a verified signup handed to the enrollment collaborator
type WaitlistEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;not null"`
	Email       string    `gorm:"size:255;not null;index"`
	Phone       string    `gorm:"size:20;not null;uniqueIndex"` // E.164, e.g. +919876543210
	Pincode     string    `gorm:"size:6;not null;index"`
	ProviderUID string    `gorm:"size:128"`
	VerifiedAt  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (e *WaitlistEntry) BeforeCreate(_ *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
