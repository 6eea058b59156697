package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/staffrate/staffrate/internal/resource"
)

type RoleCmd struct {
	List   RoleListCmd   `cmd:"" help:"List roles"`
	Add    RoleAddCmd    `cmd:"" help:"Create a role"`
	Update RoleUpdateCmd `cmd:"" help:"Rename a role"`
	Delete RoleDeleteCmd `cmd:"" help:"Delete a role"`
}

type RoleListCmd struct{}

func (r *RoleListCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	roles, err := c.roles.List(ctx)
	if err != nil {
		return err
	}

	if len(roles) == 0 {
		fmt.Println("No roles found.")
		return nil
	}

	fmt.Printf("%-26s %-20s\n", "ID", "Name")
	fmt.Println(strings.Repeat("─", 46))
	for _, role := range roles {
		fmt.Printf("%-26s %-20s\n", role.ID, role.Name)
	}

	return nil
}

type RoleAddCmd struct {
	Name string `arg:"" help:"Role name"`
}

func (r *RoleAddCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	_, err = c.roles.Create(ctx, resource.RolePayload{Name: r.Name})
	return err
}

type RoleUpdateCmd struct {
	ID   string `arg:"" help:"Server id of the role"`
	Name string `arg:"" help:"New role name"`
}

func (r *RoleUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	_, err = c.roles.Update(ctx, r.ID, resource.RolePayload{Name: r.Name})
	return err
}

type RoleDeleteCmd struct {
	ID string `arg:"" help:"Server id of the role"`
}

func (r *RoleDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	return c.roles.Delete(ctx, r.ID)
}
