package usecase

import (
	"reflect"

	"property-wizard/internal/domain"
	"property-wizard/internal/wizard"
)

// propertyFromRecord copies the wizard answers into the persisted property shape.
func propertyFromRecord(id string, r wizard.Record) domain.Property {
	name, _ := r.String(wizard.FieldName)
	return domain.Property{
		ID:              id,
		Name:            name,
		Address:         optionalString(r, wizard.FieldAddress),
		City:            optionalString(r, wizard.FieldCity),
		PropertyType:    optionalString(r, wizard.FieldPropertyType),
		AcquisitionDate: optionalString(r, wizard.FieldAcquisitionDate),
		PurchasePrice:   optionalFloat(r, wizard.FieldPurchasePrice),
		CurrentValue:    optionalFloat(r, wizard.FieldCurrentValue),
		Notes:           optionalString(r, wizard.FieldNotes),
	}
}

func optionalString(r wizard.Record, field string) *string {
	v, ok := r.String(field)
	if !ok {
		return nil
	}
	return &v
}

func optionalFloat(r wizard.Record, field string) *float64 {
	v, ok := r.Float(field)
	if !ok {
		return nil
	}
	return &v
}

// sameProperty reports whether a and b hold the same answers. CreatedAt is
// set by the store and ignored.
func sameProperty(a, b domain.Property) bool {
	a.CreatedAt, b.CreatedAt = "", ""
	return reflect.DeepEqual(a, b)
}
