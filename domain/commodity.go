package domain

// Commodity es una comodidad ofrecida (wifi, estacionamiento, etc.)
type Commodity struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

func (Commodity) TableName() string {
	return "commodity"
}

// PropertyCommodity es la tabla intermedia propiedad <-> comodidad
type PropertyCommodity struct {
	PropertyID  string `gorm:"type:varchar(36);primaryKey"`
	CommodityID uint   `gorm:"primaryKey"`
}

func (PropertyCommodity) TableName() string {
	return "property_commodity"
}
