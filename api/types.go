package api

import (
	"time"

	"moodiary/models"
)

const tokenTypeBearer = "bearer"

// DataResponse 是成功回應的格式
type DataResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// PageResponse 是分頁列表的格式
type PageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int64 `json:"pages"`
}

type PageQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
	Size int `form:"size,default=50" binding:"min=1,max=100"`
}

type MoodResponse struct {
	ID                uint   `json:"id"`
	MoodMicro         string `json:"mood_micro"`
	MoodMacroStatusID uint   `json:"mood_macro_status_id"`
	MoodMacro         string `json:"mood_macro"`
}

type RoleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UserResponse struct {
	ID                        uint          `json:"id"`
	UserName                  string        `json:"user_name"`
	Email                     *string       `json:"email"`
	OAuthProvider             string        `json:"oauth_provider"`
	Gender                    models.Gender `json:"gender"`
	BirthDate                 *string       `json:"birth_date"`
	IsActive                  bool          `json:"is_active"`
	TermsOfUseAgreement       bool          `json:"terms_of_use_agreement"`
	UseOfInformationAgreement bool          `json:"use_of_information_agreement"`
	Role                      *RoleResponse `json:"role"`
	CreatedAt                 time.Time     `json:"created_at"`
}

type ProfileResponse struct {
	ID                     uint                `json:"id"`
	UserID                 uint                `json:"user_id"`
	Nickname               *string             `json:"nickname"`
	ProfileImage           *string             `json:"profile_image"`
	AboutMe                *string             `json:"about_me"`
	TodayInterest          []string            `json:"today_interest"`
	OpenKeyword            *models.OpenKeyword `json:"open_keyword"`
	FeedImages             []string            `json:"feed_images"`
	TodayMoodMacroStatusID *uint               `json:"today_mood_macro_status_id"`
	TodayMoodMicroStatusID *uint               `json:"today_mood_micro_status_id"`
}

type LoginResponse struct {
	AccessToken  string           `json:"access_token"`
	TokenType    string           `json:"token_type"`
	RefreshToken string           `json:"refresh_token"`
	User         UserResponse     `json:"user"`
	Profile      *ProfileResponse `json:"profile"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type MeResponse struct {
	User    UserResponse     `json:"user"`
	Profile *ProfileResponse `json:"profile"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UserPatchRequest struct {
	UserName                  *string `json:"user_name" binding:"omitempty,min=1,max=255"`
	Gender                    *string `json:"gender" binding:"omitempty,oneof=female male other"`
	BirthDate                 *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	TermsOfUseAgreement       *bool   `json:"terms_of_use_agreement"`
	UseOfInformationAgreement *bool   `json:"use_of_information_agreement"`
}

type WithdrawRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

type UserStatusRequest struct {
	UserIDs  []uint `json:"user_ids" binding:"required,min=1"`
	IsActive *bool  `json:"is_active" binding:"required"`
}

type RoleCreateRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description"`
}

type RolePatchRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=64"`
	Description *string `json:"description"`
}

const birthDateLayout = "2006-01-02"

func toRoleResponse(role models.Role) RoleResponse {
	return RoleResponse{ID: role.ID, Name: role.Name, Description: role.Description}
}

func toUserResponse(user *models.User) UserResponse {
	resp := UserResponse{
		ID:                        user.ID,
		UserName:                  user.UserName,
		Email:                     user.Email,
		OAuthProvider:             user.OAuthProvider,
		Gender:                    user.Gender,
		IsActive:                  user.IsActive,
		TermsOfUseAgreement:       user.TermsOfUseAgreement,
		UseOfInformationAgreement: user.UseOfInformationAgreement,
		CreatedAt:                 user.CreatedAt,
	}
	if user.BirthDate != nil {
		birth := user.BirthDate.Format(birthDateLayout)
		resp.BirthDate = &birth
	}
	if user.Role != nil {
		role := toRoleResponse(*user.Role)
		resp.Role = &role
	}
	return resp
}

func toProfileResponse(profile *models.Profile) *ProfileResponse {
	if profile == nil {
		return nil
	}
	return &ProfileResponse{
		ID:                     profile.ID,
		UserID:                 profile.UserID,
		Nickname:               profile.Nickname,
		ProfileImage:           profile.ProfileImage,
		AboutMe:                profile.AboutMe,
		TodayInterest:          profile.TodayInterest,
		OpenKeyword:            profile.OpenKeyword,
		FeedImages:             profile.FeedImages,
		TodayMoodMacroStatusID: profile.TodayMoodMacroStatusID,
		TodayMoodMicroStatusID: profile.TodayMoodMicroStatusID,
	}
}

func toMoodResponse(mood models.MoodMicroStatus) MoodResponse {
	resp := MoodResponse{
		ID:                mood.ID,
		MoodMicro:         mood.MoodMicro,
		MoodMacroStatusID: mood.MoodMacroStatusID,
	}
	if mood.MoodMacro != nil {
		resp.MoodMacro = mood.MoodMacro.MoodMacro
	}
	return resp
}

func newPageResponse[T any](items []T, total int64, query PageQuery) PageResponse[T] {
	return PageResponse[T]{
		Items: items,
		Total: total,
		Page:  query.Page,
		Size:  query.Size,
		Pages: (total + int64(query.Size) - 1) / int64(query.Size),
	}
}
