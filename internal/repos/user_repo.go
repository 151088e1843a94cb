package repos

import (
	"database/sql"

	"sellerhub/internal/domain"

	"github.com/jmoiron/sqlx"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,email,name,api_key_hash FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a provider-keyed user. Unique violations bubble up so the
// webhook handler can treat replays as idempotent successes.
func (r *UserRepo) Create(id, email, name string) error {
	_, err := r.DB.Exec(`INSERT INTO users(id,email,name) VALUES(?,?,?)`, id, email, name)
	return err
}

// UpdatePartial applies only the fields set on the patch. A missing target
// surfaces as sql.ErrNoRows.
func (r *UserRepo) UpdatePartial(id string, p domain.UserPatch) error {
	set := ""
	args := []any{}
	if p.Email != nil {
		set += "email=?"
		args = append(args, *p.Email)
	}
	if p.Name != nil {
		if set != "" {
			set += ","
		}
		set += "name=?"
		args = append(args, *p.Name)
	}
	if set == "" {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.Exec(`UPDATE users SET `+set+`,updated_at=CURRENT_TIMESTAMP WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) Delete(id string) error {
	res, err := r.DB.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) SetAPIKeyHash(id, hash string) error {
	res, err := r.DB.Exec(`UPDATE users SET api_key_hash=?,updated_at=CURRENT_TIMESTAMP WHERE id=?`, hash, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) Count() (int, error) {
	var n int
	err := r.DB.Get(&n, `SELECT COUNT(*) FROM users`)
	return n, err
}
