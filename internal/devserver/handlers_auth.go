package devserver

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/goustty/storefront/pkg/auth"
	pkgerrors "github.com/goustty/storefront/pkg/errors"
	"github.com/goustty/storefront/pkg/security"
	"github.com/goustty/storefront/pkg/types"
)

const minPasswordLen = 8

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "username is required"))
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required"))
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters"))
		return
	}
	if req.Password != req.PasswordConfirm {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "passwords do not match"))
		return
	}
	if emailRateLimited(r, s.limiter, registerRateLimitPolicy(s.cfg.RateLimit), req.Email) {
		writeError(w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
		return
	}

	var count int64
	err := s.db.WithContext(r.Context()).
		Model(&userModel{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&count).Error
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing account"))
		return
	}
	if count > 0 {
		writeError(w, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email or username already exists"))
		return
	}

	hash, err := security.HashPassword(req.Password, s.cfg.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	model := userModel{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateJoined:   time.Now().UTC(),
	}
	if err := s.db.WithContext(r.Context()).Create(&model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account"))
		return
	}

	resp, err := s.authResponse(model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required"))
		return
	}
	if emailRateLimited(r, s.limiter, loginRateLimitPolicy(s.cfg.RateLimit), req.Email) {
		writeError(w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, try again later"))
		return
	}

	var model userModel
	err := s.db.WithContext(r.Context()).Where("email = ?", req.Email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
		return
	}
	if err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account"))
		return
	}

	ok, err := security.VerifyPassword(req.Password, model.PasswordHash)
	if err != nil || !ok {
		writeError(w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials"))
		return
	}

	resp, err := s.authResponse(model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) authResponse(model userModel) (*types.AuthResponse, error) {
	token, err := pkgauth.MintAccessToken(s.cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: int64(model.ID),
		Email:  model.Email,
		Staff:  model.IsStaff,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}
	return &types.AuthResponse{Token: token, User: model.toWire()}, nil
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	model, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model.toWire())
}

func (s *Server) updateProfileAddress(w http.ResponseWriter, r *http.Request) {
	model, err := s.currentUser(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var profile types.Profile
	if err := decodeJSON(r, &profile); err != nil {
		writeError(w, err)
		return
	}
	model.Phone = profile.Phone
	model.Address = profile.Address
	model.City = profile.City
	model.PostalCode = profile.PostalCode
	if err := s.db.WithContext(r.Context()).Save(model).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile"))
		return
	}
	writeJSON(w, http.StatusOK, types.Profile{
		Phone:      model.Phone,
		Address:    model.Address,
		City:       model.City,
		PostalCode: model.PostalCode,
	})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	var models []userModel
	if err := s.db.WithContext(r.Context()).Order("id").Find(&models).Error; err != nil {
		writeError(w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users"))
		return
	}
	users := make([]types.User, 0, len(models))
	for _, m := range models {
		users = append(users, m.toWire())
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) currentUser(r *http.Request) (*userModel, error) {
	claims := claimsFrom(r)
	var model userModel
	err := s.db.WithContext(r.Context()).First(&model, claims.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return &model, nil
}
