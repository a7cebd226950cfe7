package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"meeting-room-backend/models"
	"meeting-room-backend/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// UserService handles registration and login for the user service.
type UserService struct {
	DB        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
	log       *logrus.Logger
}

func NewUserService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, log *logrus.Logger) *UserService {
	return &UserService{DB: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

type RegisterInput struct {
	Email    string
	Username string
	Password string
	FullName string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	username := strings.TrimSpace(in.Username)
	if email == "" || username == "" {
		return nil, validationRejection("missing_credentials", "email and username are required")
	}
	if len(in.Password) < 8 {
		return nil, validationRejection("weak_password", "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:    email,
		Username: username,
		Password: string(hash),
		FullName: strings.TrimSpace(in.FullName),
		Role:     models.RoleUser,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, conflictRejection("account_exists", "email or username is already taken")
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrPersistence, err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return &user, nil
}

// Login verifies credentials and issues an access token carrying the user's
// role. The same generic error covers unknown users and wrong passwords.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Where("username = ? OR email = ?", username, strings.ToLower(username)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("%w: load user: %v", ErrPersistence, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Role, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user logged in")
	return token, &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: load user %d: %v", ErrPersistence, id, err)
	}
	return &user, nil
}

// isDuplicateEntry reports MySQL error 1062 (duplicate key).
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysqldriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
