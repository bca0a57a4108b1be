package queue

import (
	"fmt"
	"strings"

	"orderdesk/internal/model"
)

// AddReview attaches the customer's review to a completed order. Only the
// customer who placed the order may review it, and only once.
func (s *Store) AddReview(in model.NewReview) (model.Review, error) {
	code := normalizeCode(in.OrderCode)
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return model.Review{}, model.ErrInvalidRating
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.history[code]
	if !ok {
		if _, active := s.orders[code]; active {
			return model.Review{}, fmt.Errorf("order %s: %w", code, model.ErrOrderNotCompleted)
		}
		return model.Review{}, fmt.Errorf("order %s: %w", code, model.ErrOrderNotFound)
	}
	if order.CustomerID != in.CustomerID {
		return model.Review{}, model.ErrNotOrderCustomer
	}
	if _, exists := s.reviews[code]; exists {
		return model.Review{}, fmt.Errorf("order %s: %w", code, model.ErrDuplicateReview)
	}

	review := model.Review{
		OrderCode:   code,
		CustomerID:  in.CustomerID,
		CustomerTag: in.CustomerTag,
		Rating:      in.Rating,
		Comment:     strings.TrimSpace(in.Comment),
		CreatedAt:   s.clock(),
	}
	if in.Image != nil {
		img := *in.Image
		review.Image = &img
	}
	s.reviews[code] = review

	s.emit(model.EventReviewCreated, &order, in.CustomerID,
		fmt.Sprintf("Order %s was rated %d/5", code, in.Rating),
		map[string]any{"rating": in.Rating})

	return review.Clone(), nil
}
