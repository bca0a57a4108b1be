package model

import "time"

// Review is a customer's rating of a completed order. At most one review
// exists per order.
type Review struct {
	OrderCode   string      `json:"orderCode"`
	CustomerID  string      `json:"customerId"`
	CustomerTag string      `json:"customerTag,omitempty"`
	Rating      int         `json:"rating"`
	Comment     string      `json:"comment"`
	CreatedAt   time.Time   `json:"createdAt"`
	Image       *Attachment `json:"image,omitempty"`
}

// Clone returns a deep copy of r.
func (r Review) Clone() Review {
	if r.Image != nil {
		img := *r.Image
		r.Image = &img
	}
	return r
}

// NewReview is the input for reviewing an order.
type NewReview struct {
	OrderCode   string      `json:"-"`
	CustomerID  string      `json:"-"`
	CustomerTag string      `json:"-"`
	Rating      int         `json:"rating"`
	Comment     string      `json:"comment"`
	Image       *Attachment `json:"image,omitempty"`
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)
