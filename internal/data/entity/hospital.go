package entity

type Hospital struct {
	BaseNoDelete
	Name    string `db:"name"`
	Address string `db:"address"`
	City    string `db:"city"`
	Phone   string `db:"phone"`
}
