package schema

// ShopProductTable represents the 'shop.product' table
type ShopProductTable struct {
	Table         string
	Position      string
	ID            string
	Name          string
	Price         string
	OriginalPrice string
	Category      string
	Colors        string
	Description   string
	Sizes         string
	Stock         string
	IsNew         string
	IsBestseller  string
	Images        string
	CreatedAt     string
	UpdatedAt     string
}

// ShopProduct is the schema definition for shop.product
var ShopProduct = ShopProductTable{
	Table:         "shop.product",
	Position:      "position",
	ID:            "id",
	Name:          "name",
	Price:         "price",
	OriginalPrice: "originalprice",
	Category:      "category",
	Colors:        "colors",
	Description:   "description",
	Sizes:         "sizes",
	Stock:         "stock",
	IsNew:         "isnew",
	IsBestseller:  "isbestseller",
	Images:        "images",
	CreatedAt:     "createdat",
	UpdatedAt:     "updatedat",
}

// Columns returns the record columns in scan order. Position is managed by
// the database and is not part of the record.
func (t ShopProductTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Price, t.OriginalPrice, t.Category, t.Colors, t.Description,
		t.Sizes, t.Stock, t.IsNew, t.IsBestseller, t.Images, t.CreatedAt, t.UpdatedAt,
	}
}
