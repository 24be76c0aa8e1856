package schema

// ShopSettingTable represents the 'shop.setting' table
type ShopSettingTable struct {
	Table     string
	Key       string
	Value     string
	UpdatedAt string
}

var ShopSetting = ShopSettingTable{
	Table:     "shop.setting",
	Key:       "key",
	Value:     "value",
	UpdatedAt: "updatedat",
}
