// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and the lookup behind the
// protected "who am I" endpoint.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/sociopedia/internal/common"
	"github.com/dmitrijs2005/sociopedia/internal/logging"
	"github.com/dmitrijs2005/sociopedia/internal/server/auth"
	"github.com/dmitrijs2005/sociopedia/internal/server/models"
	"github.com/dmitrijs2005/sociopedia/internal/server/repositories/repomanager"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// profileCounterLimit bounds the random initial display counters.
const profileCounterLimit = 10000

// RegisterInput is the accepted registration payload.
type RegisterInput struct {
	FirstName   string `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string `json:"lastName" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email,max=50"`
	Password    string `json:"password" validate:"required,min=5,maxbytes=72"`
	PicturePath string `json:"picturePath" validate:"max=255"`
	Location    string `json:"location" validate:"max=100"`
	Occupation  string `json:"occupation" validate:"max=100"`
}

// LoginInput is the accepted login payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token string
	User  *models.User
}

// UserService provides authentication-related operations:
// - Register: validate input, hash the password and store the record
// - Login: verify credentials and issue an access token
// - GetUser: load the record of an authenticated subject
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      *auth.HashPool
	keys        *auth.Keys
	logger      logging.Logger
	validate    *validator.Validate
	dummyHash   string
	now         func() time.Time
}

// NewUserService wires the service. It hashes a random password once so that
// logins for unknown emails cost as much as real ones.
func NewUserService(m repomanager.RepositoryManager, hasher *auth.HashPool, keys *auth.Keys, logger logging.Logger) (*UserService, error) {
	dummy := common.GenerateRandByteArray(32)
	defer common.WipeByteArray(dummy)

	dummyHash, err := hasher.Hash(context.Background(), dummy)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &UserService{
		repomanager: m,
		hasher:      hasher,
		keys:        keys,
		logger:      logger.With("module", "services.user"),
		validate:    newValidator(),
		dummyHash:   dummyHash,
		now:         time.Now,
	}, nil
}

// Register creates a credential record. Failures match
// common.ErrValidation, common.ErrDuplicateIdentifier or common.ErrInternal.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	password := []byte(in.Password)
	hash, err := s.hasher.Hash(ctx, password)
	common.WipeByteArray(password)
	if err != nil {
		return nil, internalError("hash password", err)
	}

	user := &models.User{
		ID:            uuid.NewString(),
		Email:         in.Email,
		PasswordHash:  hash,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		PicturePath:   in.PicturePath,
		Location:      in.Location,
		Occupation:    in.Occupation,
		ViewedProfile: rand.IntN(profileCounterLimit),
		Impressions:   rand.IntN(profileCounterLimit),
		CreatedAt:     s.now().UTC().Truncate(time.Microsecond),
	}

	u, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentifier) {
			return nil, common.ErrDuplicateIdentifier
		}
		return nil, internalError("create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Login verifies the credentials and issues an access token. Unknown email
// and wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = normalizeEmail(in.Email)

	if err := validateInput(s.validate, in); err != nil {
		return nil, err
	}

	password := []byte(in.Password)
	defer common.WipeByteArray(password)

	user, err := s.repomanager.Users().GetUserByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, internalError("find user", err)
		}
		if _, err := s.hasher.Verify(ctx, password, s.dummyHash); err != nil {
			return nil, internalError("verify password", err)
		}
		s.logger.Warn(ctx, "login failed", "reason", "unknown email")
		return nil, common.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		return nil, internalError("verify password", err)
	}
	if !ok {
		s.logger.Warn(ctx, "login failed", "reason", "wrong password", "user_id", user.ID)
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.keys.Issue(user.ID)
	if err != nil {
		return nil, internalError("issue token", err)
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{Token: token, User: user}, nil
}

// GetUser returns the record of id or common.ErrNotFound.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repomanager.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, internalError("get user", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// internalError keeps the cause for logs while matching common.ErrInternal.
func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(common.ErrInternal, err))
}
