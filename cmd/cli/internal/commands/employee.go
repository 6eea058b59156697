package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/staffrate/staffrate/internal/api"
	"github.com/staffrate/staffrate/internal/resource"
)

type EmployeeCmd struct {
	List   EmployeeListCmd   `cmd:"" help:"List all employees"`
	Get    EmployeeGetCmd    `cmd:"" help:"Show one employee"`
	Add    EmployeeAddCmd    `cmd:"" help:"Add an employee"`
	Update EmployeeUpdateCmd `cmd:"" help:"Update an employee"`
	Delete EmployeeDeleteCmd `cmd:"" help:"Delete an employee"`
}

type EmployeeListCmd struct{}

func (e *EmployeeListCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	employees, err := c.employees.List(ctx)
	if err != nil {
		return err
	}

	printEmployees(employees)

	return nil
}

type EmployeeGetCmd struct {
	ID string `arg:"" help:"Server id of the employee"`
}

func (e *EmployeeGetCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	employee, err := c.employees.Get(ctx, e.ID)
	if err != nil {
		return err
	}

	printEmployees([]api.Employee{*employee})

	return nil
}

// employeeFields holds the shared add/update flags.
type employeeFields struct {
	EmployeeID  string `help:"Employee id" required:""`
	Name        string `help:"Full name" required:""`
	Email       string `help:"Email address" required:""`
	Password    string `help:"Initial password"`
	Department  string `help:"Department"`
	Designation string `help:"Designation"`
	ContactNo   string `help:"Contact number"`
	BloodGroup  string `help:"Blood group"`
	JoiningDate string `help:"Joining date (YYYY-MM-DD)"`
	Role        string `help:"Role id"`
	Photo       string `help:"Path to a photo to upload" type:"existingfile"`
}

func (f employeeFields) payload() resource.EmployeePayload {
	return resource.EmployeePayload{
		EmployeeID:   f.EmployeeID,
		EmployeeName: f.Name,
		Email:        f.Email,
		Password:     f.Password,
		Department:   f.Department,
		Designation:  f.Designation,
		ContactNo:    f.ContactNo,
		BloodGroup:   f.BloodGroup,
		JoiningDate:  f.JoiningDate,
		Role:         f.Role,
		PhotoPath:    f.Photo,
	}
}

type EmployeeAddCmd struct {
	employeeFields
}

func (e *EmployeeAddCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	employee, err := c.employees.Create(ctx, e.payload())
	if err != nil {
		return err
	}

	fmt.Printf("Created employee %s (%s)\n", employee.EmployeeName, employee.ID)

	return nil
}

type EmployeeUpdateCmd struct {
	ID string `arg:"" help:"Server id of the employee"`
	employeeFields
}

func (e *EmployeeUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	employee, err := c.employees.Update(ctx, e.ID, e.payload())
	if err != nil {
		return err
	}

	fmt.Printf("Updated employee %s (%s)\n", employee.EmployeeName, employee.ID)

	return nil
}

type EmployeeDeleteCmd struct {
	ID string `arg:"" help:"Server id of the employee"`
}

func (e *EmployeeDeleteCmd) Run(ctx context.Context, globals *Globals) error {
	c, err := setup(ctx, globals)
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	return c.employees.Delete(ctx, e.ID)
}

func printEmployees(employees []api.Employee) {
	if len(employees) == 0 {
		fmt.Println("No employees found.")
		return
	}

	fmt.Printf("%-26s %-12s %-22s %-26s %-16s %-16s\n",
		"ID", "Employee ID", "Name", "Email", "Department", "Designation")
	fmt.Println(strings.Repeat("─", 120))

	for _, e := range employees {
		fmt.Printf("%-26s %-12s %-22s %-26s %-16s %-16s\n",
			e.ID,
			e.EmployeeID,
			truncate(e.EmployeeName, 22),
			truncate(e.Email, 26),
			truncate(e.Department, 16),
			truncate(e.Designation, 16))
	}

	fmt.Printf("\nTotal employees: %d\n", len(employees))
}

// truncate shortens s to at most max runes, never splitting a multi-byte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
