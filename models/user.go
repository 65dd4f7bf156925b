package models

import (
	"time"

	"gorm.io/gorm"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

// User represents an account signed in through an external OAuth provider.
// (OAuthProvider, ProviderUserID) is unique among users that have not
// withdrawn. A deactivated account keeps its identity, a withdrawn one frees
// it for a new sign up.
type User struct {
	gorm.Model

	UserName       string  `gorm:"type:varchar(255);not null;default:''"`
	OAuthProvider  string  `gorm:"column:oauth_provider;type:varchar(32);not null;uniqueIndex:idx_users_provider_identity,where:withdrawn_at IS NULL"`
	ProviderUserID string  `gorm:"type:varchar(128);not null;uniqueIndex:idx_users_provider_identity,where:withdrawn_at IS NULL"`
	Email          *string `gorm:"type:varchar(320);uniqueIndex"`
	Gender         Gender  `gorm:"type:varchar(16);not null;default:'other'"`
	BirthDate      *time.Time
	IsActive       bool `gorm:"not null;default:true"`
	RoleID         *uint

	WithdrawalReason *string `gorm:"type:text"`
	WithdrawnAt      *time.Time

	TermsOfUseAgreement       bool `gorm:"not null;default:false"`
	UseOfInformationAgreement bool `gorm:"not null;default:false"`

	Role *Role `gorm:"foreignKey:RoleID"`
}

// UserPatch lists the user fields a caller may change. Nil fields are left
// untouched.
type UserPatch struct {
	UserName                  *string
	Gender                    *Gender
	BirthDate                 *time.Time
	TermsOfUseAgreement       *bool
	UseOfInformationAgreement *bool
}

// Apply merges the patch into u and returns the column names that changed.
func (p UserPatch) Apply(u *User) []string {
	var changed []string
	if p.UserName != nil && *p.UserName != u.UserName {
		u.UserName = *p.UserName
		changed = append(changed, "user_name")
	}
	if p.Gender != nil && *p.Gender != u.Gender {
		u.Gender = *p.Gender
		changed = append(changed, "gender")
	}
	if p.BirthDate != nil && (u.BirthDate == nil || !p.BirthDate.Equal(*u.BirthDate)) {
		u.BirthDate = p.BirthDate
		changed = append(changed, "birth_date")
	}
	if p.TermsOfUseAgreement != nil && *p.TermsOfUseAgreement != u.TermsOfUseAgreement {
		u.TermsOfUseAgreement = *p.TermsOfUseAgreement
		changed = append(changed, "terms_of_use_agreement")
	}
	if p.UseOfInformationAgreement != nil && *p.UseOfInformationAgreement != u.UseOfInformationAgreement {
		u.UseOfInformationAgreement = *p.UseOfInformationAgreement
		changed = append(changed, "use_of_information_agreement")
	}
	return changed
}
