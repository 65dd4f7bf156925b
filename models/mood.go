package models

import "gorm.io/gorm"

// MoodMacroStatus is a top level mood category.
type MoodMacroStatus struct {
	gorm.Model

	MoodMacro string `gorm:"type:varchar(64);not null;uniqueIndex"`
}

// MoodMicroStatus is a concrete mood that belongs to one macro category.
type MoodMicroStatus struct {
	gorm.Model

	MoodMicro         string `gorm:"type:varchar(64);not null"`
	MoodMacroStatusID uint   `gorm:"not null;index"`

	MoodMacro *MoodMacroStatus `gorm:"foreignKey:MoodMacroStatusID"`
}
