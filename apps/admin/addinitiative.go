package main

import (
	"context"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/kura/core"
	"github.com/trezcool/kura/core/initiative"
)

func (cli *commandLine) addInitiative(title, solution, impact, file, country string, team bool) error {
	flag := initiative.TeamFlagNo
	if team {
		flag = initiative.TeamFlagYes
	}
	country = core.CleanString(country)

	ini := initiative.Initiative{
		Title:     core.CleanString(title),
		Solution:  solution,
		Impact:    impact,
		File:      file,
		TeamFlag:  flag,
		Country:   null.NewString(country, country != ""),
		CreatedAt: time.Now().UTC(),
	}
	_, err := cli.iniRepo.CreateInitiative(context.Background(), ini)
	return err
}
