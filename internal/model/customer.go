// internal/model/customer.go
package model

// Customer is the only persisted entity. ID is assigned by the store on
// first save; the other fields are optional and may be null.
type Customer struct {
	ID      int      `db:"id" json:"id" gorm:"primaryKey;autoIncrement"`
	Name    *string  `db:"name" json:"name"`
	Address *string  `db:"address" json:"address"`
	Salary  *float64 `db:"salary" json:"salary"`
}

// TableName keeps GORM on the same table the SQL adapter and seeder use.
func (Customer) TableName() string {
	return "customer_model"
}
