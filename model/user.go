package model

type User struct {
	ID int32 `json:"id"`

	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	AvatarURL    string `json:"avatar"`
	CreatedTs    int64  `json:"createdAt"`
}

// UserSummary is the public slice of a user attached to books and reviews.
type UserSummary struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
}

type FindUser struct {
	ID    *int32
	Email *string

	// The maximum number of users to return.
	Limit *int
}

type UpdateUser struct {
	ID int32

	Name         *string
	AvatarURL    *string
	PasswordHash *string
}

// UserStats counts a user's owned resources, shown on the profile.
type UserStats struct {
	UploadedBooks int `json:"uploadedBooks"`
	LibraryItems  int `json:"library"`
	Bookmarks     int `json:"bookmarks"`
	Reviews       int `json:"reviews"`
}

type UserRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
