package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/mahek9015/community-learning-hub/internal/auth"
	"github.com/mahek9015/community-learning-hub/internal/config"
	"github.com/mahek9015/community-learning-hub/internal/mailer"
	"github.com/mahek9015/community-learning-hub/internal/models"
	repo "github.com/mahek9015/community-learning-hub/internal/repository"
	"github.com/mahek9015/community-learning-hub/internal/worker"
)

type UserService struct {
	r    repo.Users
	tm   *auth.TokenManager
	mail mailer.Sender
	wp   *worker.Pool
	cfg  config.Config
}

func NewUserService(r repo.Users, tm *auth.TokenManager, m mailer.Sender, wp *worker.Pool, cfg config.Config) *UserService {
	return &UserService{r: r, tm: tm, mail: m, wp: wp, cfg: cfg}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	u := models.User{Username: strings.TrimSpace(username), Email: strings.TrimSpace(email), Role: "user"}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	if len(password) < 8 {
		return models.User{}, errors.New("password too short")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	created, err := s.r.Create(ctx, u.Username, u.Email, hash, u.Role)
	if err != nil {
		return models.User{}, err
	}

	token, err := s.tm.VerificationToken(created.ID)
	if err != nil {
		return created, nil
	}
	link := s.cfg.FrontendURL + "/verify-email?token=" + token
	s.wp.Submit(func() {
		if err := s.mail.Send(created.Email, "Verify your email address",
			mailer.Verification(created.Username, link)); err != nil {
			slog.Warn("verification mail", "user", created.ID, "err", err)
		}
	})
	return created, nil
}

type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"`
}

func (s *UserService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.r.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return TokenPair{}, errors.New("invalid credentials")
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return TokenPair{}, errors.New("invalid credentials")
	}
	access, refresh, exp, err := s.tm.GeneratePair(u.ID, u.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    time.Until(exp).Truncate(time.Second),
	}, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, isRefresh, err := s.tm.ParseAny(refreshToken)
	if err != nil || !isRefresh {
		return TokenPair{}, errors.New("invalid refresh token")
	}
	access, refresh, exp, err := s.tm.GeneratePair(claims.UserID, claims.Role)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    time.Until(exp).Truncate(time.Second),
	}, nil
}

func (s *UserService) Verify(ctx context.Context, token string) error {
	claims, err := s.tm.ParseVerification(token)
	if err != nil {
		return err
	}
	return s.r.MarkVerified(ctx, claims.UserID)
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	return s.r.GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.r.List(ctx)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.r.Count(ctx)
}
