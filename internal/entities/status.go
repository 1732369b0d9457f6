package entities

import "errors"

// Status is the shipment lifecycle state. The server only enforces
// membership in this set, not a transition graph: any known status may
// replace any other.
type Status string

const (
	StatusPending        Status = "pending"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusFailedDelivery Status = "failed_delivery"
	StatusReturned       Status = "returned"
	StatusCancelled      Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid status")

var knownStatuses = map[Status]struct{}{
	StatusPending:        {},
	StatusPickedUp:       {},
	StatusInTransit:      {},
	StatusOutForDelivery: {},
	StatusDelivered:      {},
	StatusFailedDelivery: {},
	StatusReturned:       {},
	StatusCancelled:      {},
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if _, ok := knownStatuses[status]; !ok {
		return "", ErrInvalidStatus
	}
	return status, nil
}

func (s Status) String() string {
	return string(s)
}
