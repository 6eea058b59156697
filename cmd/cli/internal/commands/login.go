package commands

import (
	"context"
	"fmt"

	"github.com/staffrate/staffrate/internal/session"
)

type LoginCmd struct {
	EmployeeID string `arg:"" help:"Employee id to log in as"`
	Password   string `help:"Password" required:"" env:"STAFFRATE_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	resp, err := c.session.Login(ctx, session.Credentials{
		EmployeeID: l.EmployeeID,
		Password:   l.Password,
	})
	if err != nil {
		return err
	}

	if resp.User != nil {
		fmt.Printf("Logged in as %s (%s)\n", resp.User.EmployeeName, resp.User.EmployeeID)
	}

	return nil
}

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	return c.session.Logout(ctx)
}

type WhoamiCmd struct {
	Remote bool `help:"Fetch the identity from the server instead of the local session" default:"false"`
}

func (w *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	if err := c.requireAuth(); err != nil {
		return err
	}

	user := c.session.User()
	if w.Remote {
		user, err = c.gateway.Profile(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch profile: %w", err)
		}
	}

	if user == nil {
		return fmt.Errorf("no identity available")
	}

	fmt.Printf("%-14s %s\n", "Employee ID", user.EmployeeID)
	fmt.Printf("%-14s %s\n", "Name", user.EmployeeName)
	fmt.Printf("%-14s %s\n", "Email", user.Email)
	fmt.Printf("%-14s %s\n", "Department", user.Department)
	fmt.Printf("%-14s %s\n", "Designation", user.Designation)
	fmt.Printf("%-14s %s\n", "Session", c.session.State().String())

	return nil
}

type SignupCmd struct {
	EmployeeID   string `help:"Employee id" required:""`
	Name         string `help:"Full name" required:""`
	Email        string `help:"Email address" required:""`
	Password     string `help:"Password" required:""`
	Department   string `help:"Department"`
	Designation  string `help:"Designation"`
	ContactNo    string `help:"Contact number"`
	BloodGroup   string `help:"Blood group"`
	JoiningDate  string `help:"Joining date (YYYY-MM-DD)"`
	Role         string `help:"Role id"`
	Photo        string `help:"Path to a photo to upload" type:"existingfile"`
}

func (s *SignupCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}

	_, err = c.session.Signup(ctx, session.SignupProfile{
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.Name,
		Email:        s.Email,
		Password:     s.Password,
		Department:   s.Department,
		Designation:  s.Designation,
		ContactNo:    s.ContactNo,
		BloodGroup:   s.BloodGroup,
		JoiningDate:  s.JoiningDate,
		Role:         s.Role,
		PhotoPath:    s.Photo,
	})

	return err
}
