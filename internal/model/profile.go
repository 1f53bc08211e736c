package model

// ProfileRole enumerates dashboard user roles.
type ProfileRole string

const (
	RoleAdmin   ProfileRole = "Admin"
	RoleTeacher ProfileRole = "Teacher"
	RoleProctor ProfileRole = "Proctor"
)

// Language enumerates the supported UI languages.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// Profile is the single teacher profile record served by the profile
// endpoint. Bio is always present on the wire, possibly empty.
type Profile struct {
	ID        string      `json:"id" validate:"required"`
	Name      string      `json:"name" validate:"required,min=1"`
	Email     string      `json:"email,omitempty" validate:"omitempty,email"`
	Role      ProfileRole `json:"role" validate:"oneof=Admin Teacher Proctor"`
	Language  Language    `json:"language" validate:"oneof=en ar"`
	AvatarURL string      `json:"avatarUrl,omitempty" validate:"omitempty,url"`
	Bio       string      `json:"bio" validate:"max=280"`
}

// ProfileUpdateRequest is a partial profile update. Nil fields are left
// untouched by the merge.
type ProfileUpdateRequest struct {
	Name      *string   `json:"name" binding:"omitempty,min=1"`
	Email     *string   `json:"email" binding:"omitempty,email"`
	Language  *Language `json:"language" binding:"omitempty,oneof=en ar"`
	AvatarURL *string   `json:"avatarUrl" binding:"omitempty"`
	Bio       *string   `json:"bio" binding:"omitempty,max=280"`
}
