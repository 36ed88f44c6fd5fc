package inmemdb

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/trezcool/kura/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db.user}
}

func (r *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	usr.ID = uuid.New().String()
	key := strings.TrimSpace(usr.Username)
	if _, ok := r.db.t[key]; !ok {
		r.db.order = append(r.db.order, key)
	}
	r.db.t[key] = &usr
	return usr, nil
}

func (r *userRepository) GetUserByUsername(_ context.Context, username string) (user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if usr, ok := r.db.t[strings.TrimSpace(username)]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (r *userRepository) QueryAllUsers(_ context.Context) ([]user.User, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	users := make([]user.User, 0, len(r.db.order))
	for _, key := range r.db.order {
		users = append(users, *r.db.t[key])
	}
	return users, nil
}

func (r *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	key := strings.TrimSpace(usr.Username)
	if _, ok := r.db.t[key]; !ok {
		return user.User{}, user.ErrNotFound
	}
	r.db.t[key] = &usr
	return usr, nil
}

func (r *userRepository) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if existing, err := r.GetUserByUsername(ctx, usr.Username); err == nil {
		usr.ID = existing.ID
		usr.CreatedAt = existing.CreatedAt
		return r.UpdateUser(ctx, usr)
	}
	return r.CreateUser(ctx, usr)
}
