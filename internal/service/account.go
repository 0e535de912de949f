package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/apperr"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/hash"
	"github.com/hatef97/office-supplies-website/internal/logging"
	"github.com/hatef97/office-supplies-website/internal/models"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/tokens"
	"github.com/hatef97/office-supplies-website/internal/transport"
	"github.com/hatef97/office-supplies-website/internal/util"
)

const (
	MsgUsernameTaken      = "A user with that username already exists."
	MsgEmailTaken         = "user with this email already exists."
	MsgInvalidCredentials = "No active account found with the given credentials"
	msgInvalidDate        = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
)

type AccountService struct {
	Repo      *repo.GormRepo
	Secret    []byte
	AccessTTL time.Duration
	Publisher EventPublisher
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	IsAdmin     bool
}

// Register creates the user and its customer profile in one transaction.
func (s *AccountService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With().Str("svc", "account.register").Logger()

	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error().Err(err).Msg("register_error")
		return nil, apperr.Internal(err, "hash password")
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: pwHash,
	}
	err = db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)
		if err := r.CreateUser(ctx, user); err != nil {
			return err
		}
		return r.CreateCustomer(ctx, &models.Customer{UserID: user.ID})
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			if db.ViolatesColumn(err, "email") {
				return nil, apperr.Field("email", MsgEmailTaken)
			}
			return nil, apperr.Field("username", MsgUsernameTaken)
		}
		l.Error().Err(err).Msg("register_error")
		return nil, apperr.Internal(err, "register user")
	}

	publish(ctx, s.Publisher, mykafka.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

func (s *AccountService) checkAvailable(ctx context.Context, username, email string) error {
	taken, err := s.Repo.UserExists(ctx, "username", username)
	if err != nil {
		return apperr.Internal(err, "check username")
	}
	if taken {
		return apperr.Field("username", MsgUsernameTaken)
	}
	taken, err = s.Repo.UserExists(ctx, "email", email)
	if err != nil {
		return apperr.Internal(err, "check email")
	}
	if taken {
		return apperr.Field("email", MsgEmailTaken)
	}
	return nil
}

func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With().Str("svc", "account.login").Str("username", username).Logger()

	user, err := s.Repo.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn().Msg("login_failed")
			return nil, apperr.Unauthorized(MsgInvalidCredentials)
		}
		return nil, apperr.Internal(err, "load user")
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn().Msg("login_failed")
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	exp := time.Now().Add(s.AccessTTL)
	token, err := tokens.NewAccessToken(s.Secret, user.ID, tokens.RoleFor(user.IsStaff), exp)
	if err != nil {
		return nil, apperr.Internal(err, "sign access token")
	}
	return &LoginResult{AccessToken: token, AccessExp: exp, IsAdmin: user.IsStaff}, nil
}

func (s *AccountService) Me(ctx context.Context, userID uint) (*models.Customer, error) {
	c, err := s.Repo.CustomerByUserID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "Customer", "get customer")
	}
	return c, nil
}

func (s *AccountService) UpdateMe(ctx context.Context, userID uint, req transport.UpdateCustomerRequest) (*models.Customer, error) {
	c, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.PhoneNumber != nil {
		c.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			c.BirthDate = nil
		} else {
			d, err := transport.ParseDate(*req.BirthDate)
			if err != nil {
				return nil, apperr.Field("birth_date", msgInvalidDate)
			}
			c.BirthDate = &d
		}
	}
	if c.User == nil {
		c.User = &models.User{ID: userID}
	}
	if req.FirstName != nil {
		c.User.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.User.LastName = *req.LastName
	}

	err = db.WithTx(ctx, s.Repo.DB, func(tx *gorm.DB) error {
		r := s.Repo.WithTx(tx)
		if err := r.UpdateCustomerProfile(ctx, c); err != nil {
			return err
		}
		if req.FirstName == nil && req.LastName == nil {
			return nil
		}
		return r.UpdateUserNames(ctx, c.User)
	})
	if err != nil {
		return nil, apperr.Internal(err, "update customer")
	}
	return s.Me(ctx, userID)
}

func (s *AccountService) ListCustomers(ctx context.Context, actor Actor, page, size int) ([]models.Customer, util.PageMeta, error) {
	if !actor.IsStaff {
		return nil, util.PageMeta{}, apperr.Forbidden()
	}
	offset, limit := util.Calculate(page, size)
	items, total, err := s.Repo.ListCustomers(ctx, offset, limit)
	if err != nil {
		return nil, util.PageMeta{}, apperr.Internal(err, "list customers")
	}
	return items, util.NewPageMeta(page, offset, limit, total), nil
}

// EnsureStaffUser registers the bootstrap admin when missing and marks it staff.
// Running it again is a no-op apart from re-asserting the staff flag.
func (s *AccountService) EnsureStaffUser(ctx context.Context, username, password, email string) error {
	if username == "" || password == "" {
		return nil
	}
	l := logging.FromContext(ctx).With().Str("svc", "account.bootstrap").Str("username", username).Logger()

	user, err := s.Repo.UserByUsername(ctx, username)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if email == "" {
			email = username + "@localhost"
		}
		user, err = s.Register(ctx, transport.RegisterRequest{Username: username, Email: email, Password: password})
		if err != nil {
			return err
		}
		l.Info().Uint("user_id", user.ID).Msg("staff_user_created")
	case err != nil:
		return apperr.Internal(err, "load bootstrap user")
	}

	if user.IsStaff {
		return nil
	}
	if err := s.Repo.SetStaff(ctx, user.ID); err != nil {
		return apperr.Internal(err, "grant staff")
	}
	return nil
}
