package domain

// User mirrors a record owned by the external identity provider. IDs are
// provider-issued; this service never mints its own.
type User struct {
	ID         string `db:"id"`
	Email      string `db:"email"`
	Name       string `db:"name"`
	APIKeyHash string `db:"api_key_hash"`
}

// UserPatch is a partial update built from an identity event. Nil fields
// are left untouched.
type UserPatch struct {
	Email *string
	Name  *string
}

func (p UserPatch) Empty() bool { return p.Email == nil && p.Name == nil }
