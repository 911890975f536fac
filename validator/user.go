package validator // import "github.com/bookverse/bookverse/validator"

import (
	"github.com/pkg/errors"

	"github.com/bookverse/bookverse/model"
	"github.com/bookverse/bookverse/store"
	"github.com/bookverse/bookverse/util"
)

func ValidateRegisterRequest(s *store.Store, req *model.UserRegisterRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.Name == "" {
		return errors.New("name is empty")
	}
	if req.Email == "" {
		return errors.New("email is empty")
	}
	if !util.ValidateEmail(req.Email) {
		return errors.New("email is invalid")
	}
	if err := validatePassword(req.Password); err != nil {
		return err
	}
	if user, _ := s.GetUser(&model.FindUser{Email: &req.Email}); user != nil {
		return errors.New("email already registered")
	}
	return nil
}

func ValidateLoginRequest(req *model.UserLoginRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.Email == "" {
		return errors.New("email is empty")
	}
	if req.Password == "" {
		return errors.New("password is empty")
	}
	return nil
}

func ValidateUpdateProfileRequest(req *model.UpdateProfileRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.Name != nil && *req.Name == "" {
		return errors.New("name is empty")
	}
	return nil
}

func ValidateChangePasswordRequest(req *model.ChangePasswordRequest) error {
	if req == nil {
		return errors.New("request is nil")
	}
	if req.CurrentPassword == "" {
		return errors.New("current password is empty")
	}
	return validatePassword(req.NewPassword)
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password is too short")
	}
	return nil
}
