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

// Restricted role names are never shown or managed through the console.
var restrictedRoles = map[string]bool{
	"admin":    true,
	"subadmin": true,
}

// RolePayload is the create/update form for a role.
type RolePayload struct {
	Name string `json:"name" validate:"required"`
}

// RoleClient is the CRUD facade over the role resource.
type RoleClient struct {
	base

	mu    sync.RWMutex
	roles []api.Role
}

// NewRoleClient creates a role client with an empty collection.
func NewRoleClient(caller Caller, notifier notify.Notifier, opts ...Option) *RoleClient {
	c := &RoleClient{}
	c.init(caller, notifier, opts...)
	return c
}

// Roles returns a copy of the cached collection.
func (c *RoleClient) Roles() []api.Role {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Role, len(c.roles))
	copy(out, c.roles)
	return out
}

// List fetches all roles, hiding the restricted ones, and replaces the
// collection wholesale.
func (c *RoleClient) List(ctx context.Context) ([]api.Role, error) {
	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodGet, Path: "/all-roles"})
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to fetch roles: %w", err))
	}

	all, _, err := gateway.DecodeList[api.Role](body)
	if err != nil {
		return nil, c.fail(err)
	}

	roles := make([]api.Role, 0, len(all))
	for _, role := range all {
		if !restrictedRoles[role.Name] {
			roles = append(roles, role)
		}
	}

	c.mu.Lock()
	c.roles = roles
	c.mu.Unlock()

	return c.Roles(), nil
}

// Create registers a new role. A role the server normalizes to a restricted
// name is acknowledged with a warning instead of joining the collection.
func (c *RoleClient) Create(ctx context.Context, payload RolePayload) (*api.Role, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(fmt.Errorf("invalid role: %w", err))
	}

	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodPost, Path: "/create-roles", JSON: payload})
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to create role: %w", err))
	}

	var envelope api.RoleEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Role == nil {
		return nil, c.fail(fmt.Errorf("unrecognized role response shape"))
	}

	role := envelope.Role
	if restrictedRoles[role.Name] {
		c.notifier.Warn("Role %q is restricted and not added to the list", role.Name)
		return role, nil
	}

	c.mu.Lock()
	c.roles = append(c.roles, *role)
	c.mu.Unlock()

	c.notifier.Success("Role %q created successfully", role.Name)

	return role, nil
}

// Update renames the role matched by id. A rename onto a restricted name
// removes the role from the collection instead of replacing it.
func (c *RoleClient) Update(ctx context.Context, id string, payload RolePayload) (*api.Role, error) {
	if err := c.validate.Struct(payload); err != nil {
		return nil, c.fail(fmt.Errorf("invalid role: %w", err))
	}

	done := c.begin()
	defer done()

	body, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodPut, Path: "/update-role/" + id, JSON: payload})
	if err != nil {
		return nil, c.fail(fmt.Errorf("failed to update role: %w", err))
	}

	var envelope api.UpdatedRoleEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.UpdatedRole == nil {
		return nil, c.fail(fmt.Errorf("unrecognized role response shape"))
	}

	role := envelope.UpdatedRole

	c.mu.Lock()
	if restrictedRoles[role.Name] {
		kept := make([]api.Role, 0, len(c.roles))
		for _, existing := range c.roles {
			if existing.ID != id {
				kept = append(kept, existing)
			}
		}
		c.roles = kept
	} else {
		for i := range c.roles {
			if c.roles[i].ID == id {
				c.roles[i] = *role
			}
		}
	}
	c.mu.Unlock()

	if restrictedRoles[role.Name] {
		c.notifier.Warn("Role updated to %q and removed from the list", role.Name)
	} else {
		c.notifier.Success("Role updated to %q successfully", role.Name)
	}

	return role, nil
}

// Delete removes the role by id.
func (c *RoleClient) Delete(ctx context.Context, id string) error {
	done := c.begin()
	defer done()

	if _, err := c.caller.Do(ctx, gateway.Request{Method: http.MethodDelete, Path: "/delete/" + id}); err != nil {
		return c.fail(fmt.Errorf("failed to delete role: %w", err))
	}

	// Filter into a fresh slice so earlier List results stay intact.
	c.mu.Lock()
	kept := make([]api.Role, 0, len(c.roles))
	for _, role := range c.roles {
		if role.ID != id {
			kept = append(kept, role)
		}
	}
	c.roles = kept
	c.mu.Unlock()

	c.notifier.Success("Role deleted successfully")

	return nil
}
