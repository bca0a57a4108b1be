package repository

import (
	"encoding/json"
	"fmt"

	"orderdesk/internal/model"
)

// record is one persisted entity: a code-keyed value of one kind.
type record struct {
	Kind    string
	Key     string
	Payload []byte
}

// mapKinds are the kinds stored as one record per code.
var mapKinds = []string{
	model.KindOrders,
	model.KindHistory,
	model.KindReviews,
	model.KindDependencies,
	model.KindDueDates,
	model.KindTokens,
}

// allKinds is mapKinds followed by the singleton kinds.
var allKinds = append(append([]string(nil), mapKinds...), model.KindStatistics, model.KindCounter)

// snapshotFields maps each kind to the snapshot field holding it.
func snapshotFields(snap *model.Snapshot) map[string]any {
	return map[string]any{
		model.KindOrders:       &snap.Orders,
		model.KindHistory:      &snap.History,
		model.KindReviews:      &snap.Reviews,
		model.KindDependencies: &snap.Dependencies,
		model.KindDueDates:     &snap.DueDates,
		model.KindTokens:       &snap.Tokens,
		model.KindStatistics:   &snap.Statistics,
		model.KindCounter:      &snap.OrderCounter,
	}
}

func appendRecords[T any](out []record, kind string, values map[string]T) ([]record, error) {
	for key, v := range values {
		payload, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s/%s: %w", kind, key, err)
		}
		out = append(out, record{Kind: kind, Key: key, Payload: payload})
	}
	return out, nil
}

// encodeRecords flattens snap. Statistics and the counter are stored
// under their kind name as key.
func encodeRecords(snap *model.Snapshot) ([]record, error) {
	var (
		out []record
		err error
	)
	if out, err = appendRecords(out, model.KindOrders, snap.Orders); err != nil {
		return nil, err
	}
	if out, err = appendRecords(out, model.KindHistory, snap.History); err != nil {
		return nil, err
	}
	if out, err = appendRecords(out, model.KindReviews, snap.Reviews); err != nil {
		return nil, err
	}
	if out, err = appendRecords(out, model.KindDependencies, snap.Dependencies); err != nil {
		return nil, err
	}
	if out, err = appendRecords(out, model.KindDueDates, snap.DueDates); err != nil {
		return nil, err
	}
	if out, err = appendRecords(out, model.KindTokens, snap.Tokens); err != nil {
		return nil, err
	}
	if out, err = appendRecords(out, model.KindStatistics, map[string]model.Statistics{model.KindStatistics: snap.Statistics}); err != nil {
		return nil, err
	}
	return appendRecords(out, model.KindCounter, map[string]int64{model.KindCounter: snap.OrderCounter})
}

func decodeInto[T any](values map[string]T, r record) error {
	var v T
	if err := json.Unmarshal(r.Payload, &v); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", r.Kind, r.Key, err)
	}
	values[r.Key] = v
	return nil
}

// decodeRecords rebuilds a snapshot. Unknown kinds are ignored.
func decodeRecords(records []record) (*model.Snapshot, error) {
	snap := model.NewSnapshot()
	for _, r := range records {
		var err error
		switch r.Kind {
		case model.KindOrders:
			err = decodeInto(snap.Orders, r)
		case model.KindHistory:
			err = decodeInto(snap.History, r)
		case model.KindReviews:
			err = decodeInto(snap.Reviews, r)
		case model.KindDependencies:
			err = decodeInto(snap.Dependencies, r)
		case model.KindDueDates:
			err = decodeInto(snap.DueDates, r)
		case model.KindTokens:
			err = decodeInto(snap.Tokens, r)
		case model.KindStatistics:
			err = json.Unmarshal(r.Payload, &snap.Statistics)
		case model.KindCounter:
			err = json.Unmarshal(r.Payload, &snap.OrderCounter)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", r.Kind, err)
		}
	}
	if snap.Statistics.CompletionTimesByPriority == nil {
		snap.Statistics.CompletionTimesByPriority = map[model.Priority][]model.CompletionRecord{}
	}
	return snap, nil
}
