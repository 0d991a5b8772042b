package services

import (
	"errors"
	"testing"
)

func TestCreateUser_HashesAndHidesPassword(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	user, err := svc.CreateUser("A", "a@x.com", "password1")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated ID")
	}
	if user.PasswordHash != "" {
		t.Fatal("returned user must not carry the password hash")
	}

	// The stored hash must verify the original password.
	if _, err := svc.AuthenticateUser("a@x.com", "password1"); err != nil {
		t.Fatalf("AuthenticateUser after create: %v", err)
	}
}

func TestCreateUser_ShortPassword(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	_, err := svc.CreateUser("A", "a@x.com", "short")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	if _, err := svc.CreateUser("A", "a@x.com", "password1"); err != nil {
		t.Fatalf("first CreateUser error: %v", err)
	}
	_, err := svc.CreateUser("B", "a@x.com", "password2")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	// Email matching is case-insensitive.
	_, err = svc.CreateUser("B", "A@X.com", "password2")
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail for case variant, got %v", err)
	}
}

func TestAuthenticateUser_UniformFailure(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	if _, err := svc.CreateUser("A", "a@x.com", "password1"); err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	_, unknownErr := svc.AuthenticateUser("nobody@x.com", "password1")
	_, wrongErr := svc.AuthenticateUser("a@x.com", "wrong-password")

	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
}

func TestUpdateProfile_OnlyMutableFields(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	user, err := svc.CreateUser("A", "a@x.com", "password1")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	name := "New Name"
	bio := "builder of things"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Name: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
	if updated.Name != name || updated.Bio != bio {
		t.Fatalf("profile not applied: %+v", updated)
	}
	if updated.Email != "a@x.com" {
		t.Fatalf("email must be untouched, got %q", updated.Email)
	}

	// Unset fields stay as they were.
	if updated.Phone != "" {
		t.Fatalf("phone should be unchanged, got %q", updated.Phone)
	}
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	user, err := svc.CreateUser("A", "a@x.com", "password1")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	if err := svc.UpdatePassword(user.ID, "wrong", "newpass123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong old password, got %v", err)
	}

	if err := svc.UpdatePassword(user.ID, "password1", "newpass123"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}

	if _, err := svc.AuthenticateUser("a@x.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := svc.AuthenticateUser("a@x.com", "newpass123"); err != nil {
		t.Fatalf("new password must work, got %v", err)
	}
}

func TestGetUserByID_ExcludesHash(t *testing.T) {
	t.Parallel()

	svc := NewUserService(newTestDB(t))

	created, err := svc.CreateUser("A", "a@x.com", "password1")
	if err != nil {
		t.Fatalf("CreateUser error: %v", err)
	}

	user, err := svc.GetUserByID(created.ID)
	if err != nil {
		t.Fatalf("GetUserByID error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Fatal("resolved user must not carry the password hash")
	}

	if _, err := svc.GetUserByID("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
