package domain

// CustomerType classifies a customer. Informational only: no pricing
// logic depends on it.
type CustomerType string

const (
	CustomerRetail    CustomerType = "RETAIL"
	CustomerWholesale CustomerType = "WHOLESALE"
)

// Supplier is a flat partner record of the inbound side.
type Supplier struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Categories string `json:"categories"` // e.g. "Electronics,Clothing"
}

// Clone returns an independent copy.
func (s *Supplier) Clone() *Supplier {
	cp := *s
	return &cp
}

// Customer is a flat partner record of the outbound side.
type Customer struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Phone   string       `json:"phone"`
	Email   string       `json:"email"`
	Address string       `json:"address"`
	Type    CustomerType `json:"type"`
}

// Clone returns an independent copy.
func (c *Customer) Clone() *Customer {
	cp := *c
	return &cp
}
