package space

import "testing"

func TestAllowedMatrix(t *testing.T) {
	const (
		caller = "user-1"
		other  = "user-2"
	)

	cases := []struct {
		name      string
		role      Role
		action    Action
		creatorID string
		want      bool
	}{
		{"owner read", RoleOwner, ActionRead, "", true},
		{"owner create", RoleOwner, ActionCreate, caller, true},
		{"owner update own", RoleOwner, ActionUpdate, caller, true},
		{"owner update foreign", RoleOwner, ActionUpdate, other, true},
		{"owner delete foreign", RoleOwner, ActionDelete, other, true},
		{"member read", RoleMember, ActionRead, "", true},
		{"member create", RoleMember, ActionCreate, caller, true},
		{"member update own", RoleMember, ActionUpdate, caller, true},
		{"member update foreign", RoleMember, ActionUpdate, other, false},
		{"member delete own", RoleMember, ActionDelete, caller, true},
		{"member delete foreign", RoleMember, ActionDelete, other, false},
		{"viewer read", RoleViewer, ActionRead, "", true},
		{"viewer create", RoleViewer, ActionCreate, caller, false},
		{"viewer update own", RoleViewer, ActionUpdate, caller, false},
		{"viewer delete own", RoleViewer, ActionDelete, caller, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Allowed(tc.role, tc.action, tc.creatorID, caller)
			if got != tc.want {
				t.Fatalf("Allowed(%s, %s, %q, %q) = %v, want %v", tc.role, tc.action, tc.creatorID, caller, got, tc.want)
			}
		})
	}
}

func TestAllowedUnknownRole(t *testing.T) {
	if Allowed(Role("admin"), ActionRead, "", "user-1") {
		t.Fatalf("unknown role must be denied")
	}
}

func TestAllowedMissingCreator(t *testing.T) {
	// A record with no recorded creator is never editable by a plain member.
	if Allowed(RoleMember, ActionUpdate, "", "") {
		t.Fatalf("empty creator must not match an empty caller")
	}
}

func TestParseRole(t *testing.T) {
	for _, value := range []string{"owner", "member", "viewer"} {
		role, err := ParseRole(value)
		if err != nil {
			t.Fatalf("expected no error for %q, got %v", value, err)
		}
		if string(role) != value {
			t.Fatalf("expected %q, got %q", value, role)
		}
	}

	if _, err := ParseRole("admin"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
