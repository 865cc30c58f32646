package cart

import (
	"encoding/json"
	"fmt"
)

// SlotKey names the durable slot the cart is mirrored to.
const SlotKey = "cart"

// Encode serializes s, totals included, for the durable slot.
func Encode(s State) ([]byte, error) {
	if s.Items == nil {
		s.Items = Empty().Items
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

// Decode restores a State from the durable slot. Persisted totals are read
// but discarded; they are rebuilt from the items.
func Decode(data []byte) (State, error) {
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return Empty(), fmt.Errorf("failed to decode cart: %w", err)
	}
	return Recompute(s.Items), nil
}
