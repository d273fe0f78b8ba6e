package handler

import (
	"net/http"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestValidator_UpdateRequest(t *testing.T) {
	v := NewValidator()

	if err := v.Validate(&updateUserRequest{Name: strPtr("Ana")}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}

	err := v.Validate(&updateUserRequest{})
	ae := requireAPIError(t, err, http.StatusBadRequest, "body")
	if ae.Body.Error != "Validation failed" {
		t.Fatalf("unexpected title %q", ae.Body.Error)
	}
}

func TestValidator_JoinsIssues(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&updateUserRequest{Name: strPtr("A"), Email: strPtr("nope")})
	ae := requireAPIError(t, err, http.StatusBadRequest, "name")
	if len(ae.Body.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", ae.Body.Issues)
	}
	if !strings.Contains(ae.Body.Message, "; ") {
		t.Fatalf("expected issues joined with '; ', got %q", ae.Body.Message)
	}
}

func TestValidator_IDParam(t *testing.T) {
	v := NewValidator()
	requireAPIError(t, v.Validate(&userIDParam{ID: 0}), http.StatusBadRequest, "id")
	if err := v.Validate(&userIDParam{ID: 1}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestUpdateUserRequest_NormalizeAndFields(t *testing.T) {
	r := updateUserRequest{Name: strPtr("  Ana "), Email: strPtr(" Foo@Bar.COM "), Role: strPtr(" admin ")}
	r.normalize()

	if *r.Name != "Ana" || *r.Email != "foo@bar.com" || *r.Role != "admin" {
		t.Fatalf("unexpected normalization: %q %q %q", *r.Name, *r.Email, *r.Role)
	}
	if got := r.fields(); len(got) != 3 {
		t.Fatalf("expected 3 fields, got %v", got)
	}
	if p := r.patch(); p.Role == nil || string(*p.Role) != "admin" {
		t.Fatalf("unexpected patch: %+v", p)
	}
}

func TestValidator_PasswordLimitCountsBytes(t *testing.T) {
	v := NewValidator()

	ok := registerRequest{Name: "Ana", Email: "ana@example.com", Password: strings.Repeat("é", 36)}
	if err := v.Validate(&ok); err != nil {
		t.Fatalf("72 bytes must be accepted, got %v", err)
	}

	long := registerRequest{Name: "Ana", Email: "ana@example.com", Password: strings.Repeat("é", 40)}
	ae := requireAPIError(t, v.Validate(&long), http.StatusBadRequest, "password")
	if ae.Body.Message != "password must be at most 72 bytes" {
		t.Fatalf("unexpected message %q", ae.Body.Message)
	}
}

func TestParseUserID_SameMessageForEveryBadID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", "1.5"} {
		c, _ := newTestContext(http.MethodGet, "/users/"+raw, "", nil, raw)
		_, err := parseUserID(c)
		ae := requireAPIError(t, err, http.StatusBadRequest, "id")
		if ae.Body.Message != "id must be a positive integer" {
			t.Fatalf("%s: unexpected message %q", raw, ae.Body.Message)
		}
	}
}
