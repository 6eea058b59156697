package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffrate/staffrate/internal/api"
	"github.com/staffrate/staffrate/internal/gateway"
	"github.com/staffrate/staffrate/internal/notify"
)

func TestRoleClient_List(t *testing.T) {
	caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
		assert.Equal(t, "/all-roles", req.Path)
		return mustJSON(t, []api.Role{
			{ID: "1", Name: "admin"},
			{ID: "2", Name: "manager"},
			{ID: "3", Name: "subadmin"},
			{ID: "4", Name: "support"},
		}), nil
	}}

	client := NewRoleClient(caller, nil)

	roles, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "manager", roles[0].Name)
	assert.Equal(t, "support", roles[1].Name)
}

func TestRoleClient_Create(t *testing.T) {
	t.Run("appends an ordinary role", func(t *testing.T) {
		caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
			assert.Equal(t, "/create-roles", req.Path)
			return mustJSON(t, api.RoleEnvelope{Role: &api.Role{ID: "5", Name: "manager"}}), nil
		}}

		recorder := &notify.Recorder{}
		client := NewRoleClient(caller, recorder)

		role, err := client.Create(context.Background(), RolePayload{Name: "manager"})
		require.NoError(t, err)
		assert.Equal(t, "5", role.ID)
		assert.Len(t, client.Roles(), 1)
		require.NotNil(t, recorder.Last())
		assert.Equal(t, notify.LevelSuccess, recorder.Last().Level)
	})

	t.Run("restricted role is acknowledged but not listed", func(t *testing.T) {
		caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
			return mustJSON(t, api.RoleEnvelope{Role: &api.Role{ID: "6", Name: "subadmin"}}), nil
		}}

		recorder := &notify.Recorder{}
		client := NewRoleClient(caller, recorder)

		role, err := client.Create(context.Background(), RolePayload{Name: "subadmin"})
		require.NoError(t, err)
		assert.Equal(t, "subadmin", role.Name)
		assert.Empty(t, client.Roles())
		require.NotNil(t, recorder.Last())
		assert.Equal(t, notify.LevelWarn, recorder.Last().Level)
	})

	t.Run("empty name never reaches the gateway", func(t *testing.T) {
		caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
			return nil, nil
		}}

		client := NewRoleClient(caller, nil)

		_, err := client.Create(context.Background(), RolePayload{})
		require.Error(t, err)
		assert.Empty(t, caller.requests)
	})
}

func TestRoleClient_Update(t *testing.T) {
	listBody := []api.Role{{ID: "2", Name: "manager"}, {ID: "4", Name: "support"}}

	t.Run("ordinary rename replaces in place", func(t *testing.T) {
		caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
			switch req.Path {
			case "/all-roles":
				return mustJSON(t, listBody), nil
			case "/update-role/2":
				return mustJSON(t, api.UpdatedRoleEnvelope{UpdatedRole: &api.Role{ID: "2", Name: "team-lead"}}), nil
			}
			t.Fatalf("unexpected path %s", req.Path)
			return nil, nil
		}}

		client := NewRoleClient(caller, nil)
		_, err := client.List(context.Background())
		require.NoError(t, err)

		role, err := client.Update(context.Background(), "2", RolePayload{Name: "team-lead"})
		require.NoError(t, err)
		assert.Equal(t, "team-lead", role.Name)

		roles := client.Roles()
		require.Len(t, roles, 2)
		assert.Equal(t, "team-lead", roles[0].Name)
	})

	t.Run("rename onto a restricted name removes the role", func(t *testing.T) {
		caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
			switch req.Path {
			case "/all-roles":
				return mustJSON(t, listBody), nil
			case "/update-role/2":
				return mustJSON(t, api.UpdatedRoleEnvelope{UpdatedRole: &api.Role{ID: "2", Name: "admin"}}), nil
			}
			t.Fatalf("unexpected path %s", req.Path)
			return nil, nil
		}}

		recorder := &notify.Recorder{}
		client := NewRoleClient(caller, recorder)
		_, err := client.List(context.Background())
		require.NoError(t, err)

		_, err = client.Update(context.Background(), "2", RolePayload{Name: "admin"})
		require.NoError(t, err)

		roles := client.Roles()
		require.Len(t, roles, 1)
		assert.Equal(t, "support", roles[0].Name)
		require.NotNil(t, recorder.Last())
		assert.Equal(t, notify.LevelWarn, recorder.Last().Level)
	})
}

func TestRoleClient_ListSnapshotSurvivesRestrictedRename(t *testing.T) {
	caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
		switch req.Path {
		case "/all-roles":
			return mustJSON(t, []api.Role{{ID: "2", Name: "manager"}, {ID: "4", Name: "support"}}), nil
		case "/update-role/2":
			return mustJSON(t, api.UpdatedRoleEnvelope{UpdatedRole: &api.Role{ID: "2", Name: "admin"}}), nil
		}
		t.Fatalf("unexpected path %s", req.Path)
		return nil, nil
	}}

	client := NewRoleClient(caller, nil)

	listed, err := client.List(context.Background())
	require.NoError(t, err)

	_, err = client.Update(context.Background(), "2", RolePayload{Name: "admin"})
	require.NoError(t, err)

	require.Len(t, listed, 2)
	assert.Equal(t, "manager", listed[0].Name)
	assert.Equal(t, "support", listed[1].Name)
}

func TestRoleClient_Delete(t *testing.T) {
	caller := &fakeCaller{handler: func(req gateway.Request) ([]byte, error) {
		switch req.Path {
		case "/all-roles":
			return mustJSON(t, []api.Role{{ID: "2", Name: "manager"}, {ID: "4", Name: "support"}}), nil
		case "/delete/2":
			return mustJSON(t, api.MessageResponse{Message: "deleted"}), nil
		}
		t.Fatalf("unexpected path %s", req.Path)
		return nil, nil
	}}

	client := NewRoleClient(caller, nil)
	_, err := client.List(context.Background())
	require.NoError(t, err)

	require.NoError(t, client.Delete(context.Background(), "2"))

	roles := client.Roles()
	require.Len(t, roles, 1)
	assert.Equal(t, "support", roles[0].Name)
}
