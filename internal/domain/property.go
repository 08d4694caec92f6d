package domain

// Property is the record produced by a completed property wizard.
// Optional fields are nil when the user skipped them.
type Property struct {
	ID              string   `json:"id" validate:"required"`
	Name            string   `json:"name" validate:"required,max=200"`
	Address         *string  `json:"address,omitempty" validate:"omitempty,max=300"`
	City            *string  `json:"city,omitempty" validate:"omitempty,max=120"`
	PropertyType    *string  `json:"propertyType,omitempty" validate:"omitempty,oneof=plex condo house cottage commercial land"`
	AcquisitionDate *string  `json:"acquisitionDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	PurchasePrice   *float64 `json:"purchasePrice,omitempty" validate:"omitempty,gte=0,lte=1e15"`
	CurrentValue    *float64 `json:"currentValue,omitempty" validate:"omitempty,gte=0,lte=1e15"`
	Notes           *string  `json:"notes,omitempty" validate:"omitempty,max=2000"`
	CreatedAt       string   `json:"createdAt,omitempty"`
}
