package models

import "gorm.io/gorm"

// Profile holds the public-facing part of a user. Every active user owns
// exactly one profile row.
type Profile struct {
	gorm.Model

	UserID                 uint         `gorm:"not null;uniqueIndex"`
	Nickname               *string      `gorm:"type:varchar(64);uniqueIndex"`
	ProfileImage           *string      `gorm:"type:text"`
	AboutMe                *string      `gorm:"type:text"`
	TodayInterest          []string     `gorm:"type:text;serializer:json"`
	OpenKeyword            *OpenKeyword `gorm:"type:text;serializer:json"`
	FeedImages             []string     `gorm:"type:text;serializer:json"`
	TodayMoodMacroStatusID *uint
	TodayMoodMicroStatusID *uint

	User *User `gorm:"foreignKey:UserID"`
}

type KeywordValue struct {
	IsPublic bool   `json:"is_public"`
	Value    string `json:"value"`
}

// OpenKeyword is the set of optional self-descriptions a user may expose.
type OpenKeyword struct {
	SiblingRelation *KeywordValue `json:"sibling_relation,omitempty"`
	Job             *KeywordValue `json:"job,omitempty"`
	Child           *KeywordValue `json:"child,omitempty"`
	Location        *KeywordValue `json:"location,omitempty"`
}

// ProfilePatch lists the profile fields a caller may change. Nil fields are
// left untouched.
type ProfilePatch struct {
	Nickname          *string      `json:"nickname"`
	ProfileImage      *string      `json:"profile_image"`
	AboutMe           *string      `json:"about_me"`
	TodayInterest     *[]string    `json:"today_interest"`
	OpenKeyword       *OpenKeyword `json:"open_keyword"`
	MoodMicroStatusID *uint        `json:"today_mood_micro_status_id"`
	MoodMacroStatusID *uint        `json:"mood_macro_status_id"`
}

// Apply merges the patch into p field by field. The macro mood is only
// taken together with a micro mood.
func (patch ProfilePatch) Apply(p *Profile) {
	if patch.Nickname != nil {
		p.Nickname = patch.Nickname
	}
	if patch.ProfileImage != nil {
		p.ProfileImage = patch.ProfileImage
	}
	if patch.AboutMe != nil {
		p.AboutMe = patch.AboutMe
	}
	if patch.TodayInterest != nil {
		p.TodayInterest = *patch.TodayInterest
	}
	if patch.MoodMicroStatusID != nil {
		p.TodayMoodMicroStatusID = patch.MoodMicroStatusID
		p.TodayMoodMacroStatusID = patch.MoodMacroStatusID
	}
	if patch.OpenKeyword != nil {
		p.OpenKeyword = mergeOpenKeyword(p.OpenKeyword, patch.OpenKeyword)
	}
}

func mergeOpenKeyword(current, update *OpenKeyword) *OpenKeyword {
	merged := OpenKeyword{}
	if current != nil {
		merged = *current
	}
	if update.SiblingRelation != nil {
		merged.SiblingRelation = update.SiblingRelation
	}
	if update.Job != nil {
		merged.Job = update.Job
	}
	if update.Child != nil {
		merged.Child = update.Child
	}
	if update.Location != nil {
		merged.Location = update.Location
	}
	return &merged
}
