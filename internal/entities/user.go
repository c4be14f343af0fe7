package entities

type User struct {
	ID       int    `db:"id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Active   bool   `db:"active"`
	PassHash []byte `db:"pass_hash"`
}
