package main

import (
	"context"
	"time"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, name, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByUsername(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username:  uname,
			CreatedAt: time.Now().UTC(),
		}
	}
	if name != "" {
		usr.Name = name
	}
	if email != "" {
		usr.Email = email
	}
	usr.Role = user.RoleVoter
	if isAdmin {
		usr.Role = user.RoleAdmin
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = cli.usrRepo.UpdateOrCreateUser(ctx, usr)
	return err
}
