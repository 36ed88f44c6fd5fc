package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/initiative"
	"github.com/trezcool/kura/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf    *core.Config
	usrRepo user.Repository
	iniRepo initiative.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -username USERNAME [-name NAME] [-email EMAIL] [-admin] - create or update a user")
	fmt.Println("  resetpassword -username USERNAME - reset user's password")
	fmt.Println("  addinitiative -title TITLE [-solution SOLUTION] [-impact IMPACT] [-file FILE] [-team] [-country COUNTRY] - register an initiative")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserUname := addUserCmd.String("username", "", "The user's username. The password will be prompted next.")
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant the admin role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The user's username. The password will be prompted next.")

	addIniCmd := flag.NewFlagSet("addinitiative", flag.ExitOnError)
	addIniTitle := addIniCmd.String("title", "", "The initiative's title; its natural key.")
	addIniSolution := addIniCmd.String("solution", "", "The proposed solution.")
	addIniImpact := addIniCmd.String("impact", "", "The expected impact.")
	addIniFile := addIniCmd.String("file", "", "An attachment reference.")
	addIniTeam := addIniCmd.Bool("team", false, "The initiative is a team effort.")
	addIniCountry := addIniCmd.String("country", "", "The originating country.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserUname == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserUname, *addUserName, *addUserEmail, pwd, *addUserAdmin)
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)
	case "addinitiative":
		if err := addIniCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addIniTitle == "" {
			addIniCmd.Usage()
			return errHelp
		}
		return cli.addInitiative(*addIniTitle, *addIniSolution, *addIniImpact, *addIniFile, *addIniCountry, *addIniTeam)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
