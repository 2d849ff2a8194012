package rbac

import "testing"

func TestParseRole(t *testing.T) {
	for _, s := range []string{"manager", "editor", "translator", "admin"} {
		role, err := ParseRole(s)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", s, err)
		}
		if role.String() != s {
			t.Fatalf("ParseRole(%q) = %q", s, role)
		}
	}

	for _, s := range []string{"", "Manager", "superuser", "translator "} {
		if _, err := ParseRole(s); err == nil {
			t.Fatalf("ParseRole(%q) should fail", s)
		}
	}
}

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role Role
		perm string
		want bool
	}{
		{RoleManager, PermissionCreateTask, true},
		{RoleManager, PermissionGradeSubmission, false},
		{RoleEditor, PermissionGradeSubmission, true},
		{RoleEditor, PermissionSubmitWork, false},
		{RoleTranslator, PermissionSubmitWork, true},
		{RoleTranslator, PermissionCreateTask, false},
		{RoleAdmin, PermissionGradeSubmission, true},
		{Role("ghost"), PermissionCreateTask, false},
	}
	for _, c := range cases {
		if got := HasPermission(c.role, c.perm); got != c.want {
			t.Errorf("HasPermission(%s, %s) = %v, want %v", c.role, c.perm, got, c.want)
		}
	}
}

func TestCheckPermission(t *testing.T) {
	if err := CheckPermission(RoleEditor, PermissionGradeSubmission); err != nil {
		t.Fatalf("editor should grade: %v", err)
	}
	err := CheckPermission(RoleTranslator, PermissionGradeSubmission)
	if err == nil {
		t.Fatal("translator must not grade")
	}
	if _, ok := err.(*PermissionDeniedError); !ok {
		t.Fatalf("want *PermissionDeniedError, got %T", err)
	}
}
