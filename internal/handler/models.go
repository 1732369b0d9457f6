package handler

import (
	"time"

	"github.com/parceldesk/postal-service/internal/entities"
)

// Address is a mailing address, all fields required.
type Address struct {
	ID      int64  `json:"id,omitempty"`
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	Country string `json:"country" validate:"required"`
}

type ShippingMethod struct {
	Method    string `json:"method" validate:"required"`
	Expedited bool   `json:"expedited"`
}

type Label struct {
	ID      int64   `json:"id"`
	Content string  `json:"content"`
	From    Address `json:"from"`
	To      Address `json:"to"`
}

type Shipment struct {
	ID             int64          `json:"id"`
	Status         string         `json:"status"`
	Cost           float64        `json:"cost"`
	Weight         float64        `json:"weight"`
	ShippingMethod ShippingMethod `json:"shippingMethod"`
	Sender         int64          `json:"sender,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	From           Address        `json:"from"`
	To             Address        `json:"to"`
	Label          Label          `json:"label"`
}

type Method struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Expedited bool    `json:"expedited"`
	Cost      float64 `json:"cost"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Role     string `json:"role"`
}

type CreateShipmentRequest struct {
	Weight         float64        `json:"weight" validate:"required,gte=0"`
	ShippingMethod ShippingMethod `json:"shippingMethod" validate:"required"`
	From           Address        `json:"from" validate:"required"`
	To             Address        `json:"to" validate:"required"`
	Sender         int64          `json:"sender,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateMethodRequest struct {
	Name *string  `json:"name,omitempty" validate:"omitempty,min=1"`
	Cost *float64 `json:"cost,omitempty" validate:"omitempty,gte=0"`
}

type ShipmentResponse struct {
	Success  bool     `json:"success"`
	Shipment Shipment `json:"shipment"`
}

type ShipmentsResponse struct {
	Success   bool       `json:"success"`
	Shipments []Shipment `json:"shipments"`
}

type SearchResponse struct {
	Success bool       `json:"success"`
	Results []Shipment `json:"results"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

type UserResponse struct {
	Success bool `json:"success"`
	User    User `json:"user"`
}

type UsersResponse struct {
	Success bool   `json:"success"`
	Users   []User `json:"users"`
}

type MethodResponse struct {
	Success bool   `json:"success"`
	Method  Method `json:"method"`
}

type MethodsResponse struct {
	Success bool     `json:"success"`
	Methods []Method `json:"methods"`
}

func AddressEntityToJSON(a entities.Address) Address {
	return Address{
		ID:      a.ID,
		Name:    a.Name,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	}
}

func AddressJSONToEntity(a Address) entities.Address {
	return entities.Address{
		Name:    a.Name,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	}
}

func ShipmentEntityToJSON(s entities.Shipment) Shipment {
	return Shipment{
		ID:     s.ID,
		Status: s.Status.String(),
		Cost:   s.Cost,
		Weight: s.Weight,
		ShippingMethod: ShippingMethod{
			Method:    s.Method.Name,
			Expedited: s.Method.Expedited,
		},
		Sender:    s.SenderID,
		CreatedAt: s.CreatedAt,
		From:      AddressEntityToJSON(s.From),
		To:        AddressEntityToJSON(s.To),
		Label: Label{
			ID:      s.Label.ID,
			Content: s.Label.Content,
			From:    AddressEntityToJSON(s.Label.From),
			To:      AddressEntityToJSON(s.Label.To),
		},
	}
}

func ShipmentsEntityToJSON(shipments []entities.Shipment) []Shipment {
	result := make([]Shipment, 0, len(shipments))
	for _, s := range shipments {
		result = append(result, ShipmentEntityToJSON(s))
	}
	return result
}

func MethodEntityToJSON(m entities.Method) Method {
	return Method{
		ID:        m.ID,
		Name:      m.Name,
		Expedited: m.Expedited,
		Cost:      m.Cost,
	}
}

func UserEntityToJSON(u entities.User) User {
	return User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Address:  u.Address,
		Role:     string(u.Role),
	}
}
