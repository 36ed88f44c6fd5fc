package user

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/kura/core"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleVoter = "voter"
)

// bcryptPrefix is the structural marker of a hashed credential;
// anything else is a legacy plaintext credential.
const bcryptPrefix = "$2"

// Credential is a stored user credential: either a bcrypt hash or a
// legacy plaintext value. Legacy rows are only upgraded on an explicit
// password change, never on login.
type Credential string

func (c Credential) IsHashed() bool {
	return strings.HasPrefix(string(c), bcryptPrefix)
}

// Verify checks pwd against the stored credential, dispatching on its kind.
// Both sides are trimmed before comparison.
func (c Credential) Verify(pwd string) error {
	stored := strings.TrimSpace(string(c))
	pwd = strings.TrimSpace(pwd)
	if Credential(stored).IsHashed() {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(pwd)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(pwd)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}

type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Username   string     `json:"username"`
	Email      string     `json:"email,omitempty"`
	Role       string     `json:"role"`
	Credential Credential `json:"-"`
	CreatedAt  time.Time  `json:"created_at"` // UTC
	UpdatedAt  time.Time  `json:"updated_at"` // UTC
}

// SetPassword replaces the stored credential with a fresh bcrypt hash of pwd.
func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(pwd)), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Credential = Credential(hash)
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return u.Credential.Verify(pwd)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName falls back to the username when no display name is set.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// ChangePassword defines what must be provided to replace a user's credential.
type ChangePassword struct {
	Username    string `json:"username" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (cp *ChangePassword) Validate(validate *validator.Validate) error {
	cp.Username = core.CleanString(cp.Username)
	cp.OldPassword = strings.TrimSpace(cp.OldPassword)
	cp.NewPassword = strings.TrimSpace(cp.NewPassword)
	return validate.Struct(cp)
}
