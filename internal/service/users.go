package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/apperr"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/models"
	"github.com/Naveen-ai-07/Train-Ticket-Booking/internal/repository"
)

// UserService handles registration, login and profile management. Tokens
// are signed HS256 with the configured secret.
type UserService struct {
	users     *repository.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewUserService(users *repository.UserRepository, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
	}
}

func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageErr("failed to check existing user", err)
	}
	if existing != nil {
		return nil, apperr.E(apperr.InvalidArgument, "user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storageErr("failed to hash password", err)
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		State:        req.State,
		District:     req.District,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storageErr("failed to create user", err)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: models.NewUserView(user)}, nil
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageErr("failed to get user", err)
	}
	// Identical error for both unknown email and wrong password.
	if user == nil {
		return nil, apperr.E(apperr.Unauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.E(apperr.Unauthorized, "invalid credentials")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, User: models.NewUserView(user)}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to get user", err)
	}
	if user == nil {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, storageErr("failed to get user", err)
	}
	if user == nil {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.State != "" {
		user.State = req.State
	}
	if req.District != "" {
		user.District = req.District
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, storageErr("failed to update user", err)
	}
	return user, nil
}

// VerifyToken parses a bearer token and loads the user it names.
func (s *UserService) VerifyToken(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.E(apperr.Unauthorized, "unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.E(apperr.Unauthorized, "invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.E(apperr.Unauthorized, "invalid token claims")
	}
	idValue, ok := claims["id"].(float64)
	if !ok {
		return nil, apperr.E(apperr.Unauthorized, "invalid token claims")
	}

	user, err := s.users.GetByID(ctx, int64(idValue))
	if err != nil {
		return nil, storageErr("failed to get user", err)
	}
	if user == nil {
		return nil, apperr.E(apperr.Unauthorized, "user no longer exists")
	}
	return user, nil
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  user.ID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", storageErr("failed to sign token", err)
	}
	return signed, nil
}
