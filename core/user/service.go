package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/kura/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOldPassword = errors.New("invalid old password")
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByUsername(ctx context.Context, username string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		UpdateOrCreateUser(ctx context.Context, usr User) (User, error)
	}

	ServiceInterface interface {
		Authenticate(ctx context.Context, username, password string) (User, error)
		ChangePassword(ctx context.Context, cp ChangePassword) (User, error)
		GetByUsername(ctx context.Context, username string) (User, error)
		QueryAll(ctx context.Context) ([]User, error)
	}

	Service struct {
		conf    *core.Config
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(conf *core.Config, repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		conf:    conf,
		repo:    repo,
		mailSvc: mailSvc,
	}
}

// Authenticate verifies the supplied credentials. An unknown username and a
// password mismatch both surface as ErrInvalidCredentials so usernames cannot
// be enumerated.
func (svc *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, core.CleanString(username))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "getting user")
	}
	if err := usr.CheckPassword(password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return usr, nil
}

// ChangePassword re-verifies the old password and replaces the stored
// credential with a bcrypt hash of the new one. This is the only path that
// upgrades a legacy plaintext credential.
func (svc *Service) ChangePassword(ctx context.Context, cp ChangePassword) (User, error) {
	usr, err := svc.repo.GetUserByUsername(ctx, cp.Username)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrNotFound
		}
		return User{}, errors.Wrap(err, "getting user")
	}
	if err := usr.CheckPassword(cp.OldPassword); err != nil {
		return User{}, ErrInvalidOldPassword
	}
	if err := usr.SetPassword(cp.NewPassword); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = time.Now().UTC()

	usr, err = svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}

	svc.sendPasswordChangedNotice(usr)
	return usr, nil
}

func (svc *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(username))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

// sendPasswordChangedNotice is best-effort; users without an email address are skipped.
func (svc *Service) sendPasswordChangedNotice(usr User) {
	if usr.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.DisplayName(), Address: usr.Email}},
		Subject: fmt.Sprintf("%s: your password was changed", svc.conf.AppName),
		BodyStr: "Your password was changed. If you did not request this change, contact an administrator immediately.",
	})
}
