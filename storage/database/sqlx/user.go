package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/user"
)

type userRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Username   string    `db:"username"`
	Email      string    `db:"email"`
	Role       string    `db:"role"`
	Credential string    `db:"credential"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r userRow) unpack() user.User {
	return user.User{
		ID:         r.ID,
		Name:       r.Name,
		Username:   r.Username,
		Email:      r.Email,
		Role:       r.Role,
		Credential: user.Credential(r.Credential),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func packUser(usr user.User) userRow {
	return userRow{
		ID:         usr.ID,
		Name:       usr.Name,
		Username:   usr.Username,
		Email:      usr.Email,
		Role:       usr.Role,
		Credential: string(usr.Credential),
		CreatedAt:  usr.CreatedAt.UTC(),
		UpdatedAt:  usr.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	db      *sqlx.DB
	timeout time.Duration
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB, conf *core.Config) *userRepository {
	return &userRepository{db: db, timeout: conf.Database.Timeout}
}

// trapNoRowsErr maps psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if errors.Cause(err) == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	usr.ID = uuid.New().String()
	row := packUser(usr)
	const q = `
		INSERT INTO "user" (id, name, username, email, role, credential, created_at, updated_at)
		VALUES (:id, :name, :username, :email, :role, :credential, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return row.unpack(), nil
}

func (repo userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var row userRow
	const q = `
		SELECT id, name, username, email, role, credential, created_at, updated_at
		FROM "user"
		WHERE btrim(username) = $1`
	if err := repo.db.GetContext(ctx, &row, q, username); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "getting user by username")
	}
	return row.unpack(), nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	var rows []userRow
	const q = `
		SELECT id, name, username, email, role, credential, created_at, updated_at
		FROM "user"
		ORDER BY created_at, username`
	if err := repo.db.SelectContext(ctx, &rows, q); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.unpack())
	}
	return users, nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.timeout)
	defer cancel()

	row := packUser(usr)
	const q = `
		UPDATE "user"
		SET name = :name, email = :email, role = :role, credential = :credential, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return row.unpack(), nil
}

func (repo userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	existing, err := repo.GetUserByUsername(ctx, usr.Username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return repo.CreateUser(ctx, usr)
		}
		return user.User{}, err
	}
	usr.ID = existing.ID
	usr.CreatedAt = existing.CreatedAt
	return repo.UpdateUser(ctx, usr)
}
