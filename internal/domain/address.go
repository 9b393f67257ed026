package domain

// MaxAddresses caps the number of rows the address book may hold.
const MaxAddresses = 25

// Address represents a shipping address.
type Address struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Region     string `json:"region"`
	District   string `json:"district"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}

// AddressUpdate carries the fields an address edit may change.
// Nil pointers mean "leave as is"; IsDefault nil preserves default status.
type AddressUpdate struct {
	Label      *string `json:"label,omitempty"`
	Recipient  *string `json:"recipient,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	Line1      *string `json:"line1,omitempty"`
	City       *string `json:"city,omitempty"`
	Region     *string `json:"region,omitempty"`
	District   *string `json:"district,omitempty"`
	PostalCode *string `json:"postalCode,omitempty"`
	IsDefault  *bool   `json:"isDefault,omitempty"`
}

// Apply merges the non-nil fields of the update into the address.
// Default status is handled by the caller, not here.
func (a *Address) Apply(update AddressUpdate) {
	if update.Label != nil {
		a.Label = *update.Label
	}
	if update.Recipient != nil {
		a.Recipient = *update.Recipient
	}
	if update.Phone != nil {
		a.Phone = *update.Phone
	}
	if update.Line1 != nil {
		a.Line1 = *update.Line1
	}
	if update.City != nil {
		a.City = *update.City
	}
	if update.Region != nil {
		a.Region = *update.Region
	}
	if update.District != nil {
		a.District = *update.District
	}
	if update.PostalCode != nil {
		a.PostalCode = *update.PostalCode
	}
}
