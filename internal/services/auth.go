package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dmitrijs2005/medibook/internal/auth"
	"github.com/dmitrijs2005/medibook/internal/common"
	"github.com/dmitrijs2005/medibook/internal/cryptox"
	"github.com/dmitrijs2005/medibook/internal/format"
	"github.com/dmitrijs2005/medibook/internal/logging"
	"github.com/dmitrijs2005/medibook/internal/models"
	"github.com/dmitrijs2005/medibook/internal/repositories/kv"
	"github.com/dmitrijs2005/medibook/internal/repositories/users"
)

// AuthService defines account and session operations.
//
// Lookups return (nil, nil) when nothing matches. Login and Signup return
// field errors as a map and flow failures as errors.
type AuthService interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	ValidateCredentials(ctx context.Context, email, password string) (*models.User, error)
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	InitializeDemoUsers(ctx context.Context) error

	CurrentUser(ctx context.Context) (*models.User, error)
	SetCurrentUser(ctx context.Context, u *models.User) error
	ClearCurrentUser(ctx context.Context) error

	Login(ctx context.Context, f LoginForm) (*models.User, map[string]string, error)
	Signup(ctx context.Context, f SignupForm) (*models.User, map[string]string, error)
}

// AuthOptions tune AuthService. Zero values fall back to defaults.
type AuthOptions struct {
	PasswordScheme string
	// Delay is the pause before login and signup are evaluated.
	Delay         time.Duration
	SessionTTL    time.Duration
	SessionSecret []byte
	LoginRate     rate.Limit
	LoginBurst    int
	Now           func() time.Time
}

const defaultSessionTTL = 24 * time.Hour

type authService struct {
	users   users.Repository
	store   kv.Store
	log     logging.Logger
	opts    AuthOptions
	limiter *loginLimiter
}

// NewAuthService constructs an AuthService over the users repository and the
// store holding the session.
func NewAuthService(repo users.Repository, store kv.Store, log logging.Logger, opts AuthOptions) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &authService{
		users:   repo,
		store:   store,
		log:     log.With("component", "auth"),
		opts:    opts,
		limiter: newLoginLimiter(opts.LoginRate, opts.LoginBurst),
	}
}

func (s *authService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *authService) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.FindUserByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, err
	}
	ok, err := cryptox.VerifyPassword(u.Password, password)
	if err != nil {
		return nil, fmt.Errorf("verify password for %s: %w", u.ID, err)
	}
	if !ok {
		return nil, nil
	}
	return u, nil
}

// CreateUser hashes u.Password, fills ID and CreatedAt when missing and stores
// the user. The returned copy carries no password hash.
func (s *authService) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.opts.Now().UTC()
	}
	u.Email = strings.TrimSpace(u.Email)

	hash, err := cryptox.HashPassword(s.opts.PasswordScheme, u.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.Password = hash

	if err := s.users.Create(ctx, &u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user created", "user_id", u.ID, "role", string(u.UserType))

	pub := u.Public()
	return &pub, nil
}

func demoUsers() []models.User {
	doctor, _ := models.FindDoctor(1)
	return []models.User{
		{
			ID:            "demo_doctor_1",
			Email:         "dr.johnson@medibook.com",
			Password:      "doctor123",
			UserType:      models.RoleDoctor,
			Name:          "Dr. Sarah Johnson",
			Specialty:     "Cardiology",
			LicenseNumber: "MD12345",
			Experience:    "15 years",
			Avatar:        doctor.Avatar,
			DoctorID:      doctor.ID,
		},
		{
			ID:               "demo_patient_1",
			Email:            "patient@example.com",
			Password:         "patient123",
			UserType:         models.RolePatient,
			Name:             "John Doe",
			Phone:            "+1 (555) 123-4567",
			DateOfBirth:      "1990-01-01",
			EmergencyContact: "+1 (555) 987-6543",
		},
	}
}

// InitializeDemoUsers seeds the demo doctor and patient when the store holds
// no users at all.
func (s *authService) InitializeDemoUsers(ctx context.Context) error {
	existing, err := s.users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, u := range demoUsers() {
		_, err := s.CreateUser(ctx, u)
		if errors.Is(err, common.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed %s: %w", u.ID, err)
		}
	}
	s.log.Info(ctx, "demo users initialized")
	return nil
}

// CurrentUser returns the signed-in user, or nil. A session whose token does
// not verify is cleared and reads as absent.
func (s *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	sess, ok, err := kv.GetJSON[Session](ctx, s.store, currentUserKey)
	if err != nil {
		s.log.Warn(ctx, "dropping unreadable session", "error", err)
		return nil, s.ClearCurrentUser(ctx)
	}
	if !ok {
		return nil, nil
	}

	claims, err := auth.ParseToken(sess.Token, s.opts.SessionSecret, s.opts.Now())
	if err == nil && claims.UserID != sess.User.ID {
		err = common.ErrInvalidToken
	}
	if err != nil {
		s.log.Info(ctx, "session ended", "user_id", sess.User.ID, "reason", err.Error())
		return nil, s.ClearCurrentUser(ctx)
	}

	u := sess.User
	return &u, nil
}

func (s *authService) SetCurrentUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return s.ClearCurrentUser(ctx)
	}
	token, exp, err := auth.GenerateToken(u.ID, string(u.UserType), s.opts.SessionSecret, s.opts.SessionTTL, s.opts.Now())
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	return kv.PutJSON(ctx, s.store, currentUserKey, Session{User: u.Public(), Token: token, ExpiresAt: exp})
}

func (s *authService) ClearCurrentUser(ctx context.Context) error {
	return s.store.Delete(ctx, currentUserKey)
}

func (s *authService) Login(ctx context.Context, f LoginForm) (*models.User, map[string]string, error) {
	if errs := ValidateLoginForm(f); len(errs) > 0 {
		return nil, errs, nil
	}

	email := models.NormalizeEmail(f.Email)
	if !s.limiter.Allow(email) {
		s.log.Warn(ctx, "login throttled", "email", email)
		return nil, nil, common.ErrTooManyAttempts
	}

	if err := wait(ctx, s.opts.Delay); err != nil {
		return nil, nil, err
	}

	u, err := s.ValidateCredentials(ctx, email, f.Password)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		s.log.Warn(ctx, "login failed", "email", email)
		return nil, nil, common.ErrInvalidCredentials
	}

	if err := s.SetCurrentUser(ctx, u); err != nil {
		return nil, nil, err
	}
	s.log.Info(ctx, "user logged in", "user_id", u.ID)

	pub := u.Public()
	return &pub, nil, nil
}

func (s *authService) Signup(ctx context.Context, f SignupForm) (*models.User, map[string]string, error) {
	if errs := ValidateSignupForm(f); len(errs) > 0 {
		return nil, errs, nil
	}

	if err := wait(ctx, s.opts.Delay); err != nil {
		return nil, nil, err
	}

	existing, err := s.FindUserByEmail(ctx, f.Email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, common.ErrEmailTaken
	}

	u := models.User{
		Email:    f.Email,
		Password: f.Password,
		UserType: f.UserType,
		Name:     strings.TrimSpace(f.Name),
		Avatar:   format.GenerateAvatar(strings.TrimSpace(f.Name)),
	}
	switch f.UserType {
	case models.RolePatient:
		u.Phone = strings.TrimSpace(f.Phone)
		u.DateOfBirth = f.DateOfBirth
		u.EmergencyContact = strings.TrimSpace(f.EmergencyContact)
	case models.RoleDoctor:
		u.Specialty = strings.TrimSpace(f.Specialty)
		u.LicenseNumber = strings.TrimSpace(f.LicenseNumber)
		u.Experience = strings.TrimSpace(f.Experience)
	}

	created, err := s.CreateUser(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	if err := s.SetCurrentUser(ctx, created); err != nil {
		return nil, nil, err
	}
	return created, nil, nil
}
