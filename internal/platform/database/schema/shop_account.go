package schema

// ShopAccountTable represents the 'shop.account' table
type ShopAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	Role      string
	CreatedAt string
}

// ShopAccount is the schema definition for shop.account
var ShopAccount = ShopAccountTable{
	Table:     "shop.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	Role:      "role",
	CreatedAt: "createdat",
}

// Columns returns all column names in scan order
func (t ShopAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.Role, t.CreatedAt}
}
