package models

// Product represents a product in the catalogue.
type Product struct {
	ID          uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"type:varchar(255);not null"`
	Description string `json:"description" gorm:"type:text;not null"`
	Price       string `json:"price" gorm:"type:varchar(255);not null"` // text-encoded decimal
}

// TableName pins the table to "product".
func (Product) TableName() string {
	return "product"
}

// CreateProductDTO carries the client supplied fields for create and full update.
type CreateProductDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
	Price       string `json:"price" validate:"required"`
}

// DeleteResult reports the outcome of a delete by primary key.
type DeleteResult struct {
	Raw      []any `json:"raw"`
	Affected int64 `json:"affected"`
}
