package service

import (
	"fmt"

	"go-retail-inventory/internal/model"
	"go-retail-inventory/pkg/apperr"

	"github.com/google/uuid"
)

// ItemSplit is the resolved accepted/rejected outcome for one transfer item.
type ItemSplit struct {
	Item     *model.TransferItem
	Accepted int
	Rejected int
}

// AcceptanceSummary aggregates the per-item splits.
type AcceptanceSummary struct {
	TotalRequested int `json:"total_requested"`
	TotalAccepted  int `json:"total_accepted"`
	TotalRejected  int `json:"total_rejected"`
}

// IsPartial reports whether something, but not everything, was accepted.
func (s AcceptanceSummary) IsPartial() bool {
	return s.TotalAccepted > 0 && s.TotalAccepted < s.TotalRequested
}

// ResolveAcceptance computes per-item accepted/rejected splits for a confirm
// call. A nil accepted map means full acceptance of every item. An item
// missing from a non-nil map also defaults to full acceptance. It is a pure
// function: no side effects, items are not mutated.
//
// Fails with a validation error when an accepted quantity is negative,
// exceeds the requested quantity, or references an unknown item id; fails
// with NothingAccepted when every accepted quantity is zero.
func ResolveAcceptance(items []model.TransferItem, accepted map[uuid.UUID]int) ([]ItemSplit, AcceptanceSummary, error) {
	splits := make([]ItemSplit, 0, len(items))
	summary := AcceptanceSummary{}

	known := make(map[uuid.UUID]bool, len(items))
	for i := range items {
		known[items[i].ID] = true
	}
	for id := range accepted {
		if !known[id] {
			return nil, AcceptanceSummary{}, apperr.Validation("accepted_items",
				fmt.Sprintf("unknown transfer item id %s", id))
		}
	}

	for i := range items {
		item := &items[i]
		qty := item.QuantityRequested
		if accepted != nil {
			if v, ok := accepted[item.ID]; ok {
				qty = v
			}
		}
		if qty < 0 {
			return nil, AcceptanceSummary{}, apperr.Validation("accepted_quantity",
				fmt.Sprintf("accepted quantity for item %s must not be negative", item.ID))
		}
		if qty > item.QuantityRequested {
			return nil, AcceptanceSummary{}, apperr.Validation("accepted_quantity",
				fmt.Sprintf("accepted quantity %d exceeds requested %d for item %s",
					qty, item.QuantityRequested, item.ID))
		}

		splits = append(splits, ItemSplit{
			Item:     item,
			Accepted: qty,
			Rejected: item.QuantityRequested - qty,
		})
		summary.TotalRequested += item.QuantityRequested
		summary.TotalAccepted += qty
		summary.TotalRejected += item.QuantityRequested - qty
	}

	if summary.TotalAccepted == 0 {
		return nil, AcceptanceSummary{}, apperr.NothingAccepted()
	}

	return splits, summary, nil
}
