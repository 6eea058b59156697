package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/staffrate/staffrate/internal/api"
	"github.com/staffrate/staffrate/internal/gateway"
	"github.com/staffrate/staffrate/internal/notify"
)

// EmployeePayload is the create/update form for an employee. The photo is
// attached as a binary multipart field when a path is set; otherwise the
// payload goes up as JSON.
type EmployeePayload struct {
	EmployeeID   string `json:"employeeId" validate:"required"`
	EmployeeName string `json:"employeeName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password,omitempty" validate:"omitempty,min=6"`
	Department   string `json:"department,omitempty"`
	Designation  string `json:"designation,omitempty"`
	ContactNo    string `json:"contactNo,omitempty"`
	BloodGroup   string `json:"bloodGroup,omitempty"`
	JoiningDate  string `json:"joiningDate,omitempty"`
	Role         string `json:"role,omitempty"`
	PhotoPath    string `json:"-"`
}

// form renders the payload as multipart when a photo is attached.
func (p EmployeePayload) form() *api.Form {
	return api.NewForm().
		Set("employeeId", p.EmployeeID).
		Set("employeeName", p.EmployeeName).
		Set("email", p.Email).
		Set("password", p.Password).
		Set("department", p.Department).
		Set("designation", p.Designation).
		Set("contactNo", p.ContactNo).
		Set("bloodGroup", p.BloodGroup).
		Set("joiningDate", p.JoiningDate).
		Set("role", p.Role).
		Attach("employeePhoto", p.PhotoPath)
}

func (p EmployeePayload) request(method, path string) gateway.Request {
	req := gateway.Request{Method: method, Path: path}
	if p.PhotoPath != "" {
		req.Form = p.form()
	} else {
		req.JSON = p
	}
	return req
}

// EmployeeClient is the CRUD facade over the employee resource.
type EmployeeClient struct {
	base

	mu        sync.RWMutex
	employees []api.Employee
	selected  *api.Employee
}

// NewEmployeeClient creates an employee client with an empty collection.
func NewEmployeeClient(caller Caller, notifier notify.Notifier, opts ...Option) *EmployeeClient {
	c := &EmployeeClient{}
	c.init(caller, notifier, opts...)
	return c
}

// Employees returns a copy of the cached collection.
func (c *EmployeeClient) Employees() []api.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Employee, len(c.employees))
	copy(out, c.employees)
	return out
}

// Selected returns the employee last fetched by id, or nil.
func (c *EmployeeClient) Selected() *api.Employee {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected
}

// List fetches all employees and replaces the collection wholesale. A failed
// fetch leaves the previous cache intact.
func (c *EmployeeClient) List(ctx context.Context) ([]api.Employee, error) {
	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/all-user"})
	if err != nil {
		return nil, c.fail(err)
	}

	employees, _, err := gateway.DecodeList[api.Employee](body)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.employees = employees
	c.mu.Unlock()

	return c.Employees(), nil
}

// Get fetches one employee by server id and marks it selected.
func (c *EmployeeClient) Get(ctx context.Context, id string) (*api.Employee, error) {
	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/get-user/" + id})
	if err != nil {
		return nil, c.fail(err)
	}

	var employee api.Employee
	if err := json.Unmarshal(body, &employee); err != nil || employee.ID == "" {
		return nil, c.fail(fmt.Errorf("employee %s not found", id))
	}

	c.mu.Lock()
	c.selected = &employee
	c.mu.Unlock()

	return &employee, nil
}

// Create registers a new employee and appends the server-returned record to
// the collection.
func (c *EmployeeClient) Create(ctx context.Context, payload EmployeePayload) (*api.Employee, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(fmt.Errorf("invalid employee details: %w", err))
	}

	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, payload.request(http.MethodPost, "/add-user"))
	if err != nil {
		return nil, c.fail(err)
	}

	employee, err := decodeEmployee(body)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	c.employees = append(c.employees, *employee)
	c.mu.Unlock()

	c.notifier.Success("Employee created successfully!")

	return employee, nil
}

// Update replaces the employee matched by id with the server-returned record,
// in the collection and in the selected slot.
func (c *EmployeeClient) Update(ctx context.Context, id string, payload EmployeePayload) (*api.Employee, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(fmt.Errorf("invalid employee details: %w", err))
	}

	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, payload.request(http.MethodPut, "/update-user/"+id))
	if err != nil {
		return nil, c.fail(err)
	}

	employee, err := decodeEmployee(body)
	if err != nil {
		return nil, c.fail(err)
	}

	c.mu.Lock()
	for i := range c.employees {
		if c.employees[i].ID == id {
			c.employees[i] = *employee
		}
	}
	c.selected = employee
	c.mu.Unlock()

	c.notifier.Success("Employee updated successfully!")

	return employee, nil
}

// Delete removes the employee by id, clearing the selected slot when it
// pointed at the removed record.
func (c *EmployeeClient) Delete(ctx context.Context, id string) error {
	done := c.begin()
	defer done()

	if _, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "/delete-user/" + id}); err != nil {
		return c.fail(err)
	}

	// Filter into a fresh slice so earlier List results stay intact.
	c.mu.Lock()
	kept := make([]api.Employee, 0, len(c.employees))
	for _, employee := range c.employees {
		if employee.ID != id {
			kept = append(kept, employee)
		}
	}
	c.employees = kept
	if c.selected != nil && c.selected.ID == id {
		c.selected = nil
	}
	c.mu.Unlock()

	c.notifier.Success("Employee deleted successfully!")

	return nil
}

// decodeEmployee accepts both the {user: {...}} envelope and a bare record.
func decodeEmployee(body []byte) (*api.Employee, error) {
	var envelope api.EmployeeEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.User != nil {
		return envelope.User, nil
	}

	var employee api.Employee
	if err := json.Unmarshal(body, &employee); err == nil && employee.ID != "" {
		return &employee, nil
	}

	return nil, fmt.Errorf("unrecognized employee response shape")
}
