package entities

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"time"
)

type Address struct {
	ID      int64
	Name    string
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// ShippingMethod is embedded by value in a shipment: editing the catalog
// later never changes what a shipment was created with.
type ShippingMethod struct {
	Name      string
	Expedited bool
}

// Method is the admin-editable catalog row behind ShippingMethod.
type Method struct {
	ID        int64
	Name      string
	Expedited bool
	Cost      float64
}

type Label struct {
	ID         int64
	Content    string
	ShipmentID int64
	From       Address
	To         Address
}

type Shipment struct {
	ID        int64
	Status    Status
	Cost      float64
	Weight    float64
	Method    ShippingMethod
	SenderID  int64 // 0 when the shipment was created without a known user
	CreatedAt time.Time

	// всегда присутствуют после успешного создания
	From  Address
	To    Address
	Label Label
}

var (
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrMethodNotFound   = errors.New("shipping method not found")
	ErrInvalidAddress   = errors.New("invalid address")
)

// LabelContent derives the label text for a from/to address pair.
func LabelContent(from, to Address) string {
	return fmt.Sprintf("Package from %s to %s", from.Name, to.Name)
}

// Validate checks that every address field is filled in. prefix names the
// address in the returned error ("from" or "to").
func (a Address) Validate(prefix string) error {
	fields := map[string]string{
		"name":    a.Name,
		"street":  a.Street,
		"city":    a.City,
		"state":   a.State,
		"zip":     a.Zip,
		"country": a.Country,
	}
	for _, field := range []string{"name", "street", "city", "state", "zip", "country"} {
		if fields[field] == "" {
			return fmt.Errorf("%w: %s.%s is required", ErrInvalidAddress, prefix, field)
		}
	}
	return nil
}

func (s *Shipment) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Shipment) Unmarshal(data []byte) error {
	return gob.NewDecoder(bytes.NewBuffer(data)).Decode(s)
}

func init() {
	gob.Register(Shipment{})
	gob.Register(Address{})
	gob.Register(Label{})
	gob.Register(ShippingMethod{})
}
