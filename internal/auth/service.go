// Package auth cuida de login, cadastro de clientes e sessões.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
	"github.com/BruksfildServices01/care-marketplace/internal/logger"
	"github.com/BruksfildServices01/care-marketplace/internal/models"
	"github.com/BruksfildServices01/care-marketplace/internal/session"
	"github.com/BruksfildServices01/care-marketplace/internal/validators"
)

const WarningProfileNotSaved = "profile_not_saved"

// SessionUser é o que o front-end guarda do usuário logado.
type SessionUser struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
}

type Result struct {
	User      SessionUser `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Warnings  []string    `json:"warnings,omitempty"`
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	AcceptedTerms   bool
	FullName        string
	Phone           string
	BirthDate       string
	CPF             string
	CEP             string
	City            string
	Address         string
}

type Option func(*Service)

// WithEmailDomainCheck liga a verificação de DNS do domínio no cadastro.
func WithEmailDomainCheck(fn func(string) bool) Option {
	return func(s *Service) { s.checkEmailDomain = fn }
}

// WithHashCost ajusta o custo do bcrypt (os testes usam o mínimo).
func WithHashCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

type Service struct {
	db       *gorm.DB
	sessions session.Store
	tokens   *TokenIssuer
	log      *slog.Logger

	checkEmailDomain func(string) bool
	hashCost         int
}

func NewService(
	db *gorm.DB,
	sessions session.Store,
	tokens *TokenIssuer,
	log *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		db:       db,
		sessions: sessions,
		tokens:   tokens,
		log:      log,
		hashCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ======================================================
// Login / Logout
// ======================================================

// Login devolve o mesmo erro para e-mail desconhecido, falha de banco e
// senha errada.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	email = validators.NormalizeEmail(email)

	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Profile").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.ErrorContext(ctx, "login lookup failed", logger.Err(err))
		}
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	return s.startSession(ctx, &user)
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// CurrentUser lê a sessão do store.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, httperr.ErrBusiness("session_not_found")
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Authenticate valida o token e confirma que a sessão ainda existe.
func (s *Service) Authenticate(ctx context.Context, token string) (*session.Session, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	sess, err := s.CurrentUser(ctx, claims.ID)
	if err != nil {
		return nil, err
	}

	if sess.UserID != userID {
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// ======================================================
// Cadastro
// ======================================================

// Register cria sempre um cliente. Se o perfil falhar depois do usuário
// gravado, o cadastro segue e a resposta leva um aviso.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if err := s.validateRegister(&in); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Role:         models.RoleClient,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness("email_already_exists")
		}
		s.log.ErrorContext(ctx, "register user failed", logger.Err(err))
		return nil, httperr.ErrBusiness("account_creation_failed")
	}

	profile := models.Profile{
		UserID:    user.ID,
		FullName:  strings.TrimSpace(in.FullName),
		Phone:     strings.TrimSpace(in.Phone),
		BirthDate: in.BirthDate,
		CPF:       in.CPF,
		CEP:       in.CEP,
		City:      strings.TrimSpace(in.City),
		Address:   strings.TrimSpace(in.Address),
	}

	var warnings []string
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		s.log.WarnContext(ctx, "register profile failed",
			slog.Uint64("user_id", uint64(user.ID)),
			logger.Err(err),
		)
		warnings = append(warnings, WarningProfileNotSaved)
	} else {
		user.Profile = &profile
	}

	res, err := s.startSession(ctx, &user)
	if err != nil {
		return nil, err
	}
	res.Warnings = warnings
	return res, nil
}

func (s *Service) validateRegister(in *RegisterInput) error {
	in.Email = validators.NormalizeEmail(in.Email)

	if len(in.Password) < 6 {
		return httperr.ErrBusiness("password_too_short")
	}
	if in.Password != in.ConfirmPassword {
		return httperr.ErrBusiness("password_mismatch")
	}
	if !in.AcceptedTerms {
		return httperr.ErrBusiness("terms_not_accepted")
	}

	if in.CPF != "" {
		if !validators.IsValidCPF(in.CPF) {
			return httperr.ErrBusiness("invalid_cpf")
		}
		in.CPF = validators.FormatCPF(in.CPF)
	}

	if in.CEP != "" {
		if !validators.IsValidCEP(in.CEP) {
			return httperr.ErrBusiness("invalid_cep")
		}
		in.CEP = validators.FormatCEP(in.CEP)
	}

	if s.checkEmailDomain != nil && !s.checkEmailDomain(in.Email) {
		return httperr.ErrBusiness("invalid_email_domain")
	}
	return nil
}

// ======================================================
// Helpers
// ======================================================

func (s *Service) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(b), nil
}

// EnsureAdmin cria o administrador inicial se o e-mail ainda não existe.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = validators.NormalizeEmail(email)

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return false, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := models.User{Email: email, PasswordHash: hash, Role: models.RoleAdmin}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID, FullName: "Administrador"}).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) startSession(ctx context.Context, user *models.User) (*Result, error) {
	sess := &session.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.sessions.Save(ctx, sess, s.tokens.TTL()); err != nil {
		return nil, fmt.Errorf("auth: save session: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Role, sess.ID)
	if err != nil {
		return nil, err
	}

	return &Result{
		User: SessionUser{
			ID:       user.ID,
			Email:    user.Email,
			Role:     user.Role,
			FullName: user.DisplayName(""),
		},
		Token:     token,
		ExpiresAt: sess.CreatedAt.Add(s.tokens.TTL()),
	}, nil
}
