package service

import "github.com/parceldesk/postal-service/internal/entities"

const (
	baseCost           = 5.0
	expeditedSurcharge = 10.0
	costPerWeightUnit  = 2.0
)

// CalculateCost quotes the price for a shipment. The quote is stamped
// on the shipment at creation time and never recomputed, even if the
// method catalog changes later.
//
// Negative weight is not guarded here and silently lowers the quote;
// the HTTP boundary rejects it before this is reached.
func CalculateCost(method entities.ShippingMethod, weight float64) float64 {
	cost := baseCost
	if method.Expedited {
		cost += expeditedSurcharge
	}
	return cost + weight*costPerWeightUnit
}
