package domain

// LineItem is one priced block on the draft. AdHoc marks items typed in
// directly rather than sourced from a catalog block; the flag is business
// provenance and crosses the API boundary, unlike any editing state the
// presentation layer keeps for the item.
type LineItem struct {
	ID             string
	BlockRef       string
	Description    string
	UnitPriceMinor int64
	Quantity       int
	Cycle          ItemCycle
	AdHoc          bool
}

// TermTotalMinor is the item's total over the whole term, before tax.
func (li LineItem) TermTotalMinor() int64 {
	return li.UnitPriceMinor * int64(li.Quantity)
}

// Priced reports whether the item carries a non-zero price.
func (li LineItem) Priced() bool {
	return li.UnitPriceMinor > 0 && li.Quantity > 0
}

// Ref returns the identifier used in projected events: the catalog block
// reference when present, the item ID otherwise.
func (li LineItem) Ref() string {
	if li.BlockRef != "" {
		return li.BlockRef
	}
	return li.ID
}
