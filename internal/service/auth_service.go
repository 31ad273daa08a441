package service

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"parkshare/internal/db"
	"parkshare/internal/entities"
	"parkshare/internal/repository"
	"parkshare/internal/utils"
)

// AuthService resolves external credentials into an internal user identity
// and role. The engine itself never authenticates; it trusts the identity
// this service puts into the request context.
type AuthService interface {
	Register(fullName, phone, email, cardNumber, bank, role, password string) (*db.User, error)
	Login(phone, password string) (string, error)
}

type authService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) AuthService {
	return &authService{users: users}
}

func (s *authService) Register(fullName, phone, email, cardNumber, bank, role, password string) (*db.User, error) {
	if fullName == "" || password == "" {
		return nil, errors.New("name and password cannot be empty")
	}
	if !utils.ValidatePhone(phone) {
		return nil, errors.New("invalid phone number")
	}
	if !utils.ValidateCardNumber(cardNumber) {
		return nil, errors.New("invalid card number")
	}
	role = utils.NormalizeRole(role)
	if role != db.RoleCustomer && role != db.RoleSupplier {
		return nil, errors.New("role must be customer or supplier")
	}

	existing, err := s.users.GetByPhone(utils.FormatPhone(phone))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("phone already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &db.User{
		FullName:     fullName,
		Phone:        utils.FormatPhone(phone),
		Email:        email,
		CardNumber:   cardNumber,
		Bank:         bank,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) Login(phone, password string) (string, error) {
	user, err := s.users.GetByPhone(utils.FormatPhone(phone))
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// BlockUser and related moderation live here rather than in the engine; an
// inactive user simply fails login.
type UserAdminService struct {
	users repository.UserRepository
}

func NewUserAdminService(users repository.UserRepository) *UserAdminService {
	return &UserAdminService{users: users}
}

func (s *UserAdminService) BlockUser(userID int) error {
	return s.users.SetActive(userID, false)
}

func (s *UserAdminService) UnblockUser(userID int) error {
	return s.users.SetActive(userID, true)
}

func (s *UserAdminService) PromoteToAdmin(userID int) error {
	return s.users.SetRole(userID, db.RoleAdmin)
}

// ListUsers pages through registered users with the password hash dropped and
// the card number masked.
func (s *UserAdminService) ListUsers(limit, offset int) ([]entities.UserView, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	users, err := s.users.ListUsers(limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]entities.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, entities.UserView{
			ID:         user.ID,
			FullName:   user.FullName,
			Phone:      user.Phone,
			Email:      user.Email,
			CardNumber: utils.MaskCardNumber(user.CardNumber),
			Bank:       user.Bank,
			Role:       user.Role,
			IsActive:   user.IsActive,
			CreatedAt:  user.CreatedAt,
		})
	}
	return views, nil
}
