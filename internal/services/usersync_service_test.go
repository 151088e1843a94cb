package services_test

import (
	"errors"
	"testing"

	"sellerhub/internal/repos"
	"sellerhub/internal/services"
)

func identityUser() services.IdentityUser {
	return services.IdentityUser{
		ID: "user_2abc",
		EmailAddresses: []services.IdentityMail{
			{ID: "idn_1", EmailAddress: "old@example.com"},
			{ID: "idn_2", EmailAddress: "ada@example.com"},
		},
		PrimaryEmailAddressID: "idn_2",
		FirstName:             "Ada",
		LastName:              "Lovelace",
	}
}

func TestUserCreated_ResolvesPrimaryEmailAndName(t *testing.T) {
	db := memdb(t)
	userRepo := repos.NewUserRepo(db)
	svc := services.NewUserSyncService(userRepo)

	if err := svc.Created(identityUser()); err != nil {
		t.Fatal(err)
	}
	u, err := userRepo.ByID("user_2abc")
	if err != nil {
		t.Fatal(err)
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("want primary email, got %q", u.Email)
	}
	if u.Name != "Ada Lovelace" {
		t.Fatalf("want joined trimmed name, got %q", u.Name)
	}
}

// Replaying the same created event leaves exactly one record.
func TestUserCreated_Idempotent(t *testing.T) {
	db := memdb(t)
	userRepo := repos.NewUserRepo(db)
	svc := services.NewUserSyncService(userRepo)

	if err := svc.Created(identityUser()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Created(identityUser()); !errors.Is(err, services.ErrUserExists) {
		t.Fatalf("want ErrUserExists on replay, got %v", err)
	}
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE id='user_2abc'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want exactly one record, got %d", n)
	}
}

func TestUserCreated_RejectsIncompleteEvents(t *testing.T) {
	svc := services.NewUserSyncService(repos.NewUserRepo(memdb(t)))

	u := identityUser()
	u.ID = ""
	if err := svc.Created(u); !errors.Is(err, services.ErrEventInvalid) {
		t.Fatalf("missing id: want ErrEventInvalid, got %v", err)
	}

	u = identityUser()
	u.EmailAddresses = nil
	if err := svc.Created(u); !errors.Is(err, services.ErrEventInvalid) {
		t.Fatalf("no emails: want ErrEventInvalid, got %v", err)
	}

	u = identityUser()
	u.PrimaryEmailAddressID = "idn_unknown"
	if err := svc.Created(u); !errors.Is(err, services.ErrNoPrimaryEmail) {
		t.Fatalf("unresolvable primary: want ErrNoPrimaryEmail, got %v", err)
	}
}

func TestUserCreated_NameOmittedWithoutFirstName(t *testing.T) {
	db := memdb(t)
	userRepo := repos.NewUserRepo(db)
	svc := services.NewUserSyncService(userRepo)

	u := identityUser()
	u.FirstName = ""
	u.LastName = "Ignored"
	if err := svc.Created(u); err != nil {
		t.Fatal(err)
	}
	got, err := userRepo.ByID(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "" {
		t.Fatalf("name must stay empty without a first name, got %q", got.Name)
	}
}

func TestUserUpdated_PartialPatch(t *testing.T) {
	db := memdb(t)
	userRepo := repos.NewUserRepo(db)
	svc := services.NewUserSyncService(userRepo)

	if err := svc.Created(identityUser()); err != nil {
		t.Fatal(err)
	}

	// Only the name changes; email list absent from the event.
	u := services.IdentityUser{ID: "user_2abc", FirstName: "Augusta", LastName: "King"}
	if err := svc.Updated(u); err != nil {
		t.Fatal(err)
	}
	got, err := userRepo.ByID("user_2abc")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Augusta King" {
		t.Fatalf("want updated name, got %q", got.Name)
	}
	if got.Email != "ada@example.com" {
		t.Fatalf("email must be untouched, got %q", got.Email)
	}
}

func TestUserUpdated_NoRecognizableFieldsIsNoop(t *testing.T) {
	db := memdb(t)
	userRepo := repos.NewUserRepo(db)
	svc := services.NewUserSyncService(userRepo)

	if err := svc.Created(identityUser()); err != nil {
		t.Fatal(err)
	}
	err := svc.Updated(services.IdentityUser{ID: "user_2abc", LastName: "OnlyLast"})
	if !errors.Is(err, services.ErrNoChanges) {
		t.Fatalf("want ErrNoChanges, got %v", err)
	}
}

func TestUserUpdated_MissingTarget(t *testing.T) {
	svc := services.NewUserSyncService(repos.NewUserRepo(memdb(t)))
	err := svc.Updated(services.IdentityUser{ID: "user_ghost", FirstName: "Nobody"})
	if !errors.Is(err, services.ErrUserMissing) {
		t.Fatalf("want ErrUserMissing, got %v", err)
	}
}

func TestUserDeleted(t *testing.T) {
	db := memdb(t)
	userRepo := repos.NewUserRepo(db)
	svc := services.NewUserSyncService(userRepo)

	if err := svc.Created(identityUser()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Deleted(services.IdentityUser{ID: "user_2abc"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.Deleted(services.IdentityUser{ID: "user_2abc"}); !errors.Is(err, services.ErrUserMissing) {
		t.Fatalf("second delete: want ErrUserMissing, got %v", err)
	}
	if err := svc.Deleted(services.IdentityUser{}); !errors.Is(err, services.ErrEventInvalid) {
		t.Fatalf("missing id: want ErrEventInvalid, got %v", err)
	}
}
