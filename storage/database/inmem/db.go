package inmemdb

import (
	"sync"

	"github.com/trezcool/kura/core/initiative"
	"github.com/trezcool/kura/core/user"
)

type (
	DB struct {
		user *userTable
		vote *voteTables
	}

	userTable struct {
		t     map[string]*user.User // keyed by trimmed username
		order []string
		mutex sync.RWMutex
	}

	voteTables struct {
		initiatives   []initiative.Initiative
		categoryVotes []initiative.CategoryVote
		finalVotes    []initiative.FinalVote
		mutex         sync.RWMutex
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{t: make(map[string]*user.User)},
		vote: &voteTables{},
	}
	return db, nil
}

// Reset drops all rows. Intended for tests.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.t = make(map[string]*user.User)
	db.user.order = nil
	db.user.mutex.Unlock()

	db.vote.mutex.Lock()
	db.vote.initiatives = nil
	db.vote.categoryVotes = nil
	db.vote.finalVotes = nil
	db.vote.mutex.Unlock()
}
