package model

// SessionUser is the authenticated dashboard user held in client-local
// session storage under the auth.user key.
type SessionUser struct {
	ID    string      `json:"id" validate:"required"`
	Name  string      `json:"name" validate:"required"`
	Email string      `json:"email,omitempty" validate:"omitempty,email"`
	Role  ProfileRole `json:"role,omitempty" validate:"omitempty,oneof=Admin Teacher Proctor"`
}

// SyncType labels a cross-tab session broadcast.
type SyncType string

const (
	SyncLogin  SyncType = "login"
	SyncLogout SyncType = "logout"
	SyncUpdate SyncType = "update"
)

// SyncEnvelope is the transient broadcast message written under auth.sync.
// It is a wake-up signal only; receivers re-read the user from storage
// instead of trusting the payload.
type SyncEnvelope struct {
	Type    SyncType     `json:"type"`
	Ts      int64        `json:"ts"`
	Payload *SyncPayload `json:"payload,omitempty"`
}

// SyncPayload carries the id of the user the broadcast refers to.
type SyncPayload struct {
	ID string `json:"id"`
}

// GridDensity enumerates table density preferences.
type GridDensity string

const (
	DensityCompact     GridDensity = "compact"
	DensityStandard    GridDensity = "standard"
	DensityComfortable GridDensity = "comfortable"
)

// AppSettings is the UI preference record stored under app.settings.
type AppSettings struct {
	ThemeMode     string               `json:"themeMode" validate:"oneof=light dark"`
	Language      Language             `json:"language" validate:"oneof=en ar"`
	GridDensity   GridDensity          `json:"gridDensity" validate:"oneof=compact standard comfortable"`
	Notifications SettingNotifications `json:"notifications"`
}

// SettingNotifications holds the notification toggles inside AppSettings.
type SettingNotifications struct {
	Email   bool `json:"email"`
	Desktop bool `json:"desktop"`
}

// DefaultAppSettings returns the settings applied before the user has
// saved any preference.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		ThemeMode:   "light",
		Language:    LanguageEnglish,
		GridDensity: DensityStandard,
		Notifications: SettingNotifications{
			Email:   true,
			Desktop: false,
		},
	}
}
