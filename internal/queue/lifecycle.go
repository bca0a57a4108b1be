package queue

import (
	"fmt"
	"strings"

	"orderdesk/internal/model"
	"orderdesk/internal/token"
)

// Create validates the input and places a new order in the queue.
func (s *Store) Create(in model.NewOrder) (model.Order, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return model.Order{}, model.ErrDescriptionMissing
	}
	if strings.TrimSpace(in.CustomerID) == "" {
		return model.Order{}, model.ErrCustomerMissing
	}

	priority, err := model.ParsePriority(string(in.Priority))
	if err != nil {
		return model.Order{}, err
	}

	status := model.StatusPending
	if in.Status != "" {
		status, err = model.ParseStatus(string(in.Status))
		if err != nil {
			return model.Order{}, err
		}
		if !status.IsInitial() {
			return model.Order{}, model.ErrInvalidStatus
		}
	}

	tokenCode := token.Normalize(in.TokenCode)

	s.mu.Lock()
	defer s.mu.Unlock()

	if tokenCode != "" && !s.tokens.Validate(tokenCode) {
		return model.Order{}, fmt.Errorf("token %s: %w", tokenCode, model.ErrTokenUnavailable)
	}

	now := s.clock()
	o := &model.Order{
		Code:        s.nextOrderCode(),
		Description: description,
		CustomerID:  strings.TrimSpace(in.CustomerID),
		CustomerTag: in.CustomerTag,
		Priority:    priority,
		Status:      status,
		CreatedAt:   now,
		LastUpdated: now,
		CreatedBy:   in.CreatedBy,
		ChannelID:   in.ChannelID,
		TokenCode:   tokenCode,
	}
	if in.Attachment != nil {
		a := *in.Attachment
		o.Attachment = &a
	}

	s.orders[o.Code] = o
	s.clearManualOrder()
	s.stats.created()

	pos, _ := s.position(o.Code)
	s.emit(model.EventOrderCreated, o, in.CreatedBy,
		fmt.Sprintf("Order %s created at position %d", o.Code, pos),
		map[string]any{"priority": string(priority), "position": pos})

	s.logger.Debug().
		Str("order_code", o.Code).
		Str("priority", string(priority)).
		Msg("order created")

	return o.Clone(), nil
}

// SetStatus assigns any active status to an active order. Completion has
// its own operation.
func (s *Store) SetStatus(code string, status model.Status, actor string) (model.Order, error) {
	code = normalizeCode(code)
	if !status.IsValid() {
		return model.Order{}, model.NewDomainError(model.ErrCodeInvalidRange, "unknown status: "+string(status))
	}
	if status == model.StatusCompleted {
		return model.Order{}, model.ErrStatusNotSettable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[code]
	if !ok {
		return model.Order{}, fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}

	previous := o.Status
	o.Status = status
	o.LastUpdated = s.clock()

	info := status.Info()
	s.emit(model.EventOrderStatusChanged, o, actor,
		fmt.Sprintf("Order %s is now %s %s", code, info.Emoji, info.Name),
		map[string]any{"from": string(previous), "to": string(status)})

	return o.Clone(), nil
}

// Complete moves an order to history once all its prerequisites are
// completed. Dependents left with no unmet prerequisite become ready.
func (s *Store) Complete(code, actor string) (model.CompletionResult, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.complete(code, actor)
}

func (s *Store) complete(code, actor string) (model.CompletionResult, error) {
	o, ok := s.orders[code]
	if !ok {
		return model.CompletionResult{}, fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}
	if unmet := s.unmet(code); len(unmet) > 0 {
		return model.CompletionResult{}, &model.DependencyUnmetError{OrderCode: code, Unmet: unmet}
	}

	now := s.clock()
	done := o.Clone()
	done.Status = model.StatusCompleted
	done.CompletedAt = &now
	done.CompletedBy = actor
	done.LastUpdated = now
	done.QueuePosition = nil

	s.history[code] = done
	delete(s.orders, code)

	duration := now.Sub(done.CreatedAt).Milliseconds()
	s.stats.recordCompletion(done.Priority, code, duration)

	result := model.CompletionResult{Order: done.Clone()}
	if done.TokenCode != "" {
		result.TokenConsumed = s.tokens.Consume(done.TokenCode, code, actor)
	}

	s.emit(model.EventOrderCompleted, &done, actor,
		fmt.Sprintf("Order %s has been completed", code),
		map[string]any{"durationMs": duration, "tokenConsumed": result.TokenConsumed})

	// Every cascade is decided against the history as it stands after
	// this completion.
	for _, dependent := range s.deps.dependentsOf(code) {
		d, ok := s.orders[dependent]
		if !ok || d.Status == model.StatusReady || len(s.unmet(dependent)) > 0 {
			continue
		}
		previous := d.Status
		d.Status = model.StatusReady
		d.LastUpdated = now
		result.Ready = append(result.Ready, dependent)

		s.emit(model.EventOrderReady, d, actor,
			fmt.Sprintf("Order %s is ready: all of its dependencies are completed", dependent),
			map[string]any{"from": string(previous), "completed": code})
	}

	s.logger.Debug().
		Str("order_code", code).
		Int64("duration_ms", duration).
		Strs("ready", result.Ready).
		Msg("order completed")

	return result, nil
}

// BulkComplete completes each code in turn through the same dependency
// gate as Complete. A code may succeed because an earlier code in the
// same call completed its prerequisite.
func (s *Store) BulkComplete(codes []string, actor string) model.BulkResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out model.BulkResult
	seen := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code := normalizeCode(raw)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		res, err := s.complete(code, actor)
		if err != nil {
			out.Failed = append(out.Failed, model.BulkFailure{Code: code, Reason: err.Error()})
			continue
		}
		out.Completed = append(out.Completed, res)
	}
	return out
}

// Remove deletes an active order without recording it in history. Its
// dependency edges and due date go with it.
func (s *Store) Remove(code, actor string) (model.Order, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[code]
	if !ok {
		return model.Order{}, fmt.Errorf("order %s is not in the queue: %w", code, model.ErrOrderNotFound)
	}

	delete(s.orders, code)
	s.deps.removeAllEdgesReferencing(code)
	delete(s.dueDates, code)

	s.emit(model.EventOrderRemoved, o, actor,
		fmt.Sprintf("Order %s was removed from the queue", code), nil)

	return o.Clone(), nil
}

// Erase permanently deletes an order from the queue or history along with
// its review, dependency edges, due date and completion record.
func (s *Store) Erase(code, actor, reason string) (model.ErasedOrder, error) {
	code = normalizeCode(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		order     model.Order
		wasActive bool
	)
	if o, ok := s.orders[code]; ok {
		order, wasActive = *o, true
		delete(s.orders, code)
	} else if h, ok := s.history[code]; ok {
		order = h
		delete(s.history, code)
		if h.Status == model.StatusCompleted {
			s.stats.erase(code)
		}
	} else {
		return model.ErasedOrder{}, fmt.Errorf("order %s: %w", code, model.ErrOrderNotFound)
	}

	delete(s.reviews, code)
	s.deps.removeAllEdgesReferencing(code)
	delete(s.dueDates, code)

	erased := model.ErasedOrder{
		Order:     order.Clone(),
		WasActive: wasActive,
		ErasedAt:  s.clock(),
		ErasedBy:  actor,
		Reason:    reason,
	}

	s.emit(model.EventOrderErased, &order, actor,
		fmt.Sprintf("Order %s was permanently erased", code),
		map[string]any{"reason": reason, "wasActive": wasActive})

	s.logger.Info().
		Str("order_code", code).
		Str("actor", actor).
		Str("reason", reason).
		Msg("order erased")

	return erased, nil
}
