package service

import (
	"BlogKeeper/internal/email"
	"BlogKeeper/internal/model"
	"BlogKeeper/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const verificationTokenTTL = time.Hour

// UserService инкапсулирует регистрацию, подтверждение email и вход.
type UserService struct {
	repo      repo.UserRepository
	sender    email.Sender
	logger    *zap.SugaredLogger
	publicURL string
}

// NewUserService создаёт сервис пользователей.
// publicURL — публичный адрес приложения, из него строятся ссылки подтверждения.
func NewUserService(r repo.UserRepository, sender email.Sender, logger *zap.SugaredLogger, publicURL string) *UserService {
	return &UserService{repo: r, sender: sender, logger: logger, publicURL: publicURL}
}

// Register создаёт пользователя и асинхронно шлёт письмо подтверждения.
// Ошибка доставки письма логируется и НЕ роняет регистрацию.
func (s *UserService) Register(ctx context.Context, username, userEmail, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	userEmail = strings.TrimSpace(userEmail)
	if username == "" || userEmail == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrValidation)
	}

	existing, err := s.repo.GetUserByEmail(ctx, userEmail)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token := uuid.NewString()
	expires := time.Now().UTC().Add(verificationTokenTTL)
	user, err := s.repo.CreateUser(ctx, &model.User{
		Username:                 username,
		Email:                    userEmail,
		Password:                 string(hash),
		VerificationToken:        &token,
		VerificationTokenExpires: &expires,
	})
	if err != nil {
		// гонка check-then-create: параллельная регистрация могла вставить
		// этот email между проверкой и вставкой — тогда это конфликт, не 500
		if taken, lookupErr := s.repo.GetUserByEmail(ctx, userEmail); lookupErr == nil && taken != nil {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// письмо — fire-and-forget: не ждём SMTP в обработчике запроса
	go s.sendVerificationEmail(user.Email, token)

	return user, nil
}

func (s *UserService) sendVerificationEmail(to, token string) {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.publicURL, token)
	subject, text, html := email.VerificationEmail(link)
	if err := s.sender.Send(context.Background(), to, subject, text, html); err != nil {
		s.logger.Errorw("failed to send verification email", "to", to, "error", err)
	}
}

// Login проверяет пару email/пароль.
func (s *UserService) Login(ctx context.Context, userEmail, password string) (*model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, userEmail)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyEmail подтверждает пользователя по одноразовому токену.
// Просроченный или неизвестный токен отклоняется одинаково.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: verification token is missing", ErrValidation)
	}

	user, err := s.repo.GetUserByVerificationToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: invalid or expired verification token", ErrValidation)
	}
	if err != nil {
		return fmt.Errorf("lookup token: %w", err)
	}
	if user.VerificationTokenExpires == nil || time.Now().UTC().After(*user.VerificationTokenExpires) {
		return fmt.Errorf("%w: invalid or expired verification token", ErrValidation)
	}

	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpires = nil
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// UpdateUsername меняет отображаемое имя пользователя.
func (s *UserService) UpdateUsername(ctx context.Context, userID int64, newUsername string) (*model.User, error) {
	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return nil, fmt.Errorf("%w: new username must be a non-empty string", ErrValidation)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Username = newUsername
	if err := s.repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}
