package model

type SystemSettingName string

const (
	SystemSettingSecurityName SystemSettingName = "security"
)

type SystemSetting struct {
	Name  SystemSettingName `json:"name"`
	Value string            `json:"value"`
}

// SystemSecuritySetting holds the JWT signing secret, generated once on
// first boot and persisted as a system setting.
type SystemSecuritySetting struct {
	JWTSecret string `json:"jwt_secret"`
}
