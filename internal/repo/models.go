package repo

import (
	"database/sql"
	"time"

	"github.com/parceldesk/postal-service/internal/entities"
)

type Address struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Street  string `db:"street"`
	City    string `db:"city"`
	State   string `db:"state"`
	Zip     string `db:"zip"`
	Country string `db:"country"`
}

type Shipment struct {
	ID            int64         `db:"id"`
	Status        string        `db:"status"`
	Cost          float64       `db:"cost"`
	Weight        float64       `db:"weight"`
	Method        string        `db:"shipping_method"`
	Expedited     bool          `db:"expedited"`
	SenderID      sql.NullInt64 `db:"sender_id"`
	FromAddressID int64         `db:"from_address_id"`
	ToAddressID   int64         `db:"to_address_id"`
	CreatedAt     time.Time     `db:"created_at"`
}

type Label struct {
	ID            int64  `db:"id"`
	Content       string `db:"content"`
	FromAddressID int64  `db:"from_address_id"`
	ToAddressID   int64  `db:"to_address_id"`
	ShipmentID    int64  `db:"shipment_id"`
}

type Method struct {
	ID        int64   `db:"id"`
	Name      string  `db:"name"`
	Expedited bool    `db:"expedited"`
	Cost      float64 `db:"cost"`
}

type User struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	PasswordHash string         `db:"password_hash"`
	Address      sql.NullString `db:"address"`
	Priv         bool           `db:"priv"`
}

func AddressToEntity(a Address) entities.Address {
	return entities.Address{
		ID:      a.ID,
		Name:    a.Name,
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	}
}

func ShipmentToEntity(s Shipment, from, to Address, label Label) entities.Shipment {
	return entities.Shipment{
		ID:     s.ID,
		Status: entities.Status(s.Status),
		Cost:   s.Cost,
		Weight: s.Weight,
		Method: entities.ShippingMethod{
			Name:      s.Method,
			Expedited: s.Expedited,
		},
		SenderID:  s.SenderID.Int64,
		CreatedAt: s.CreatedAt,
		From:      AddressToEntity(from),
		To:        AddressToEntity(to),
		Label:     LabelToEntity(label, from, to),
	}
}

func LabelToEntity(l Label, from, to Address) entities.Label {
	return entities.Label{
		ID:         l.ID,
		Content:    l.Content,
		ShipmentID: l.ShipmentID,
		From:       AddressToEntity(from),
		To:         AddressToEntity(to),
	}
}

func MethodToEntity(m Method) entities.Method {
	return entities.Method{
		ID:        m.ID,
		Name:      m.Name,
		Expedited: m.Expedited,
		Cost:      m.Cost,
	}
}

func UserToEntity(u User) entities.User {
	role := entities.RoleEmployee
	if u.Priv {
		role = entities.RoleAdmin
	}
	return entities.User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Address:  u.Address.String,
		Role:     role,
	}
}

func nullInt64(i int64) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: i, Valid: true}
}
