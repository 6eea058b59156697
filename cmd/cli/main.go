package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/staffrate/staffrate/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Log in with an employee id and password"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Log out and clear the stored session"`
		Signup   commands.SignupCmd   `cmd:"" help:"Register a new employee account"`
		Whoami   commands.WhoamiCmd   `cmd:"" help:"Show the current identity"`
		Password commands.PasswordCmd `cmd:"" help:"Password recovery"`
		Employee commands.EmployeeCmd `cmd:"" help:"Manage employees"`
		Role     commands.RoleCmd     `cmd:"" help:"Manage roles"`
		Rating   commands.RatingCmd   `cmd:"" help:"Manage customer ratings"`
		Status   commands.StatusCmd   `cmd:"" help:"Check API reachability"`
		APIURL   string               `help:"API origin." env:"STAFFRATE_API_URL"`
		StateDir string               `help:"Directory for session state."`
		NoCache  bool                 `help:"Disable the HTTP response cache."`
		Debug    bool                 `help:"Enable debug mode."`
		Version  kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:    cli.Debug,
		Version:  version,
		APIURL:   cli.APIURL,
		StateDir: cli.StateDir,
		NoCache:  cli.NoCache,
	})
	cmd.FatalIfErrorf(err)
}
