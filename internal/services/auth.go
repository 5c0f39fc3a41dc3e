package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mapbrew/brewfinder/internal/config"
	"github.com/mapbrew/brewfinder/internal/database"
	"github.com/mapbrew/brewfinder/internal/models"
	"github.com/mapbrew/brewfinder/pkg/auth"
	"github.com/mapbrew/brewfinder/pkg/logger"
)

type AuthService struct {
	db       *database.DB
	cfg      *config.Config
	identity *IdentityService
	ledger   *CreditLedger
}

func NewAuthService(db *database.DB, cfg *config.Config, identity *IdentityService, ledger *CreditLedger) *AuthService {
	return &AuthService{db: db, cfg: cfg, identity: identity, ledger: ledger}
}

// Request/Response types
type SignupRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type LogoutRequest struct {
	DeviceID string `json:"device_id"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	Credits      int64         `json:"credits"`
	User         *UserResponse `json:"user"`
}

type UserResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// GuestSessionResponse carries the device identity issued to a fresh
// install before any sign-in
type GuestSessionResponse struct {
	DeviceID string `json:"device_id"`
	Credits  int64  `json:"credits"`
}

// Signup creates a new user
func (s *AuthService) Signup(req *SignupRequest) (*UserResponse, error) {
	var existing models.User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return nil, errors.New("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:      req.Email,
		Password:   hashed,
		Name:       req.Name,
		IsActive:   true,
		DateJoined: time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	return toUserResponse(&user), nil
}

// Login authenticates a user, issues a token pair and runs the guest
// merge for the sign-in transition.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = ?", req.Email, true).First(&user).Error; err != nil {
		return nil, errors.New("invalid email or password")
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	accessToken, refreshToken, err := auth.GenerateTokenPair(
		user.ID, s.cfg.JWTSecretKey, s.cfg.JWTAccessTokenExpireMin, s.cfg.JWTRefreshTokenExpireDays)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	credits, err := s.identity.OnSignIn(req.DeviceID, user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		Credits:      credits,
		User:         toUserResponse(&user),
	}, nil
}

// Logout runs the guest merge for the sign-out transition
func (s *AuthService) Logout(userID uint, deviceID string) error {
	_, err := s.identity.OnSignOut(deviceID, userID)
	return err
}

// RefreshToken exchanges a valid refresh token for a new pair
func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken, s.cfg.JWTSecretKey)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}

	var user models.User
	if err := s.db.Where("id = ? AND is_active = ?", claims.UserID, true).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}

	accessToken, newRefreshToken, err := auth.GenerateTokenPair(
		user.ID, s.cfg.JWTSecretKey, s.cfg.JWTAccessTokenExpireMin, s.cfg.JWTRefreshTokenExpireDays)
	if err != nil {
		return nil, err
	}

	credits, _ := s.ledger.Balance(UserIdentity(user.ID))

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "bearer",
		Credits:      credits,
		User:         toUserResponse(&user),
	}, nil
}

// GuestSession issues a fresh device identity with the first-launch
// credit grant. The grant happens once because the device ID is minted
// here; reinstalling mints a new identity by design.
func (s *AuthService) GuestSession() (*GuestSessionResponse, error) {
	deviceID := uuid.NewString()
	identity := GuestIdentity(deviceID)

	credits := s.cfg.InitialCredits
	if credits > 0 {
		balance, err := s.ledger.Grant(identity, credits)
		if err != nil {
			return nil, err
		}
		credits = balance
	}

	logger.GetLogger("auth").Infow("guest session issued", "identity", identity, "credits", credits)
	return &GuestSessionResponse{DeviceID: deviceID, Credits: credits}, nil
}

// GetUser retrieves a user by ID
func (s *AuthService) GetUser(id uint) (*UserResponse, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return toUserResponse(&user), nil
}

// DeleteUser soft deletes is not used here; accounts are deactivated
func (s *AuthService) DeleteUser(id uint) error {
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("is_active", false).Error
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		IsActive:   user.IsActive,
		DateJoined: user.DateJoined,
	}
}
