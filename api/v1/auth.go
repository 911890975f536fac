package v1

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookverse/bookverse/api/auth"
	"github.com/bookverse/bookverse/http/request"
	"github.com/bookverse/bookverse/http/response"
	"github.com/bookverse/bookverse/log"
	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/validator"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var signup model.UserRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&signup); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if err := validator.ValidateRegisterRequest(h.store, &signup); err != nil {
		log.Error("Failed to validate signup request", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(signup.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash")
		response.ServerError(w, r, err)
		return
	}

	user := model.User{
		Email:        signup.Email,
		Name:         signup.Name,
		PasswordHash: string(passwordHash),
		AvatarURL:    defaultAvatarURL(signup.Name),
	}

	newUser, err := h.store.CreateUser(&user)
	if err != nil {
		// The unique constraint also covers concurrent registrations the
		// validator could not see.
		if errors.Is(err, store.ErrAlreadyExists) {
			response.BadRequest(w, r, errors.New("email already registered"))
			return
		}
		log.Error("Failed to register user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	token, err := h.issueAccessToken(newUser)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, map[string]any{"user": newUser, "token": token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var signin model.UserLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&signin); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateLoginRequest(&signin); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.GetUser(&model.FindUser{Email: &signin.Email})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	// Same answer for unknown email and bad password.
	if user == nil {
		response.Unauthorized(w, r, errors.New("invalid credentials"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(signin.Password)); err != nil {
		response.Unauthorized(w, r, errors.New("invalid credentials"))
		return
	}

	token, err := h.issueAccessToken(user)
	if err != nil {
		log.Error("Failed to generate access token", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"user": user, "token": token})
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := request.GetUserID(r)
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r, nil)
		return
	}

	stats, err := h.store.GetUserStats(userID)
	if err != nil {
		log.Error("Failed to get user stats", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, map[string]any{"user": user, "stats": stats})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var update model.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateUpdateProfileRequest(&update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.UpdateUser(&model.UpdateUser{
		ID:        request.GetUserID(r),
		Name:      update.Name,
		AvatarURL: update.Avatar,
	})
	if err != nil {
		log.Error("Failed to update user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.OK(w, r, user)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var change model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateChangePasswordRequest(&change); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	userID := request.GetUserID(r)
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		log.Error("Failed to get user", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.Unauthorized(w, r, nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(change.CurrentPassword)); err != nil {
		response.Unauthorized(w, r, errors.New("current password is incorrect"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(change.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash")
		response.ServerError(w, r, err)
		return
	}
	hash := string(passwordHash)
	if _, err := h.store.UpdateUser(&model.UpdateUser{ID: userID, PasswordHash: &hash}); err != nil {
		log.Error("Failed to update password", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Message(w, r, "password updated")
}

func (h *Handler) issueAccessToken(user *model.User) (string, error) {
	expireTime := time.Now().Add(auth.AccessTokenDuration)
	return auth.GenerateAccessToken(user.Name, user.ID, expireTime, []byte(h.secret))
}

func defaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}
