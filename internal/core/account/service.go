package account

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TokenSigner はアカウントに紐づくセッショントークンを発行します。
type TokenSigner interface {
	Sign(accountID, username, role string, now time.Time) (string, error)
}

// Service はアカウントに関するユースケースをまとめます。
type Service struct {
	repo   Repository
	signer TokenSigner
	clock  Clock
}

// UseCase はアカウントユースケースの公開インターフェースです。
type UseCase interface {
	Register(ctx context.Context, in RegisterInput) (*Account, error)
	Authenticate(ctx context.Context, in AuthenticateInput) (*Session, error)
}

// NewService は Service を生成します。
func NewService(repo Repository, signer TokenSigner, clock Clock) *Service {
	if clock == nil {
		clock = realClock{}
	}
	return &Service{repo: repo, signer: signer, clock: clock}
}

// RegisterInput はアカウント登録時の入力です。
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthenticateInput は認証時の入力です。
type AuthenticateInput struct {
	Username string
	Password string
}

// Register は新しいアカウントを登録します。ユーザー名およびメールアドレスは
// コレクション全体で一意でなければなりません。ロールは常に管理者です。
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrInvalidUsername
	}

	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	if in.Password == "" {
		return nil, ErrInvalidPassword
	}

	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return nil, ErrInvalidFullName
	}

	if err := s.ensureUsernameNotExists(ctx, username); err != nil {
		return nil, err
	}
	if err := s.ensureEmailNotExists(ctx, email); err != nil {
		return nil, err
	}

	a := &Account{
		Username:  username,
		Email:     email,
		Password:  in.Password,
		FullName:  fullName,
		Role:      RoleAdmin,
		CreatedAt: s.clock.Now(),
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, err
	}

	return created, nil
}

// Authenticate はユーザー名とパスワードを照合し、セッションを発行します。
func (s *Service) Authenticate(ctx context.Context, in AuthenticateInput) (*Session, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	found, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !matchCredentials(found, in.Password) {
		return nil, ErrInvalidCredentials
	}

	tokenValue, err := s.signer.Sign(found.ID, found.Username, string(found.Role), s.clock.Now())
	if err != nil {
		return nil, err
	}

	return &Session{Token: tokenValue, Account: found.Redacted()}, nil
}

// matchCredentials は保存された認証情報との照合を行います。平文比較は観測された
// 既存挙動であり、強化版へ差し替える場合はこの関数のみを置き換えます。
func matchCredentials(a *Account, password string) bool {
	return a.Password == password
}

func (s *Service) ensureUsernameNotExists(ctx context.Context, username string) error {
	found, err := s.repo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return err
	}
	if found != nil {
		return ErrUsernameAlreadyExists
	}
	return nil
}

func (s *Service) ensureEmailNotExists(ctx context.Context, email string) error {
	found, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return err
	}
	if found != nil {
		return ErrEmailAlreadyExists
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}
