package grid

import (
	"fmt"
	"regexp"
	"strings"
)

// Item is a single production batch occupying a slot.
//
// Optional attributes are pointers: nil means the attribute is absent, which
// is distinct from a zero value (a raw quantity of 0 is still tracked).
type Item struct {
	// RC is the external product code.
	RC string `json:"rc,omitempty"`

	// SK is the internal product code.
	SK string `json:"sk,omitempty"`

	// Name is the display name.
	Name string `json:"name"`

	// Unit is the unit of measure (kg, ks, ...).
	Unit string `json:"unit,omitempty"`

	// Quantity is the finished (dosed) amount.
	Quantity float64 `json:"quantity"`

	// RawQuantity is the mass before processing. Capacity checks use it when set.
	RawQuantity *float64 `json:"rawQuantity,omitempty"`

	// Category is a free-form, case-insensitive product category (meat type).
	Category *string `json:"category,omitempty"`

	// PartIndex is set only on items produced by a capacity-forced split.
	PartIndex *int `json:"partIndex,omitempty"`

	// SourceID correlates split parts back to the originating batch.
	SourceID string `json:"sourceId,omitempty"`

	// Note is a free-form slot annotation.
	Note string `json:"note,omitempty"`
}

// ProductKey is the identity shared by every occupant of a slot. Category
// holds the normalized form returned by CategoryKey.
type ProductKey struct {
	RC       string
	SK       string
	Name     string
	Unit     string
	Category string
}

// String renders the key in the form used for fallback base ids
// (SK|RC|Name|Unit). The category is not part of it.
func (k ProductKey) String() string {
	return strings.Join([]string{k.SK, k.RC, k.Name, k.Unit}, "|")
}

// Key returns the item's product identity.
func (it Item) Key() ProductKey {
	return ProductKey{RC: it.RC, SK: it.SK, Name: it.Name, Unit: it.Unit, Category: it.CategoryKey()}
}

// HasRaw reports whether the item tracks a raw quantity.
func (it Item) HasRaw() bool {
	return it.RawQuantity != nil
}

// RawOrQuantity returns the raw quantity when tracked, the finished quantity otherwise.
func (it Item) RawOrQuantity() float64 {
	if it.RawQuantity != nil {
		return *it.RawQuantity
	}
	return it.Quantity
}

// CategoryKey returns the lower-cased category, or "" when absent.
func (it Item) CategoryKey() string {
	if it.Category == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*it.Category))
}

// IsPart reports whether the item is the result of a split.
func (it Item) IsPart() bool {
	return it.PartIndex != nil
}

// BaseID returns the id of the originating batch.
func (it Item) BaseID() string {
	if it.SourceID != "" {
		return it.SourceID
	}
	return it.Key().String()
}

// ID returns the item id, suffixed with the part index for split parts.
func (it Item) ID() string {
	if it.PartIndex != nil {
		return PartID(it.BaseID(), *it.PartIndex)
	}
	return it.BaseID()
}

// WithQuantity returns a copy of the item with new quantities. A nil raw
// leaves the copy without a raw quantity.
func (it Item) WithQuantity(qty float64, raw *float64) Item {
	out := it.clone()
	out.Quantity = qty
	out.RawQuantity = nil
	if raw != nil {
		out.RawQuantity = Float(*raw)
	}
	return out
}

// WithPart returns a copy of the item tagged with a part index.
func (it Item) WithPart(index int) Item {
	out := it.clone()
	out.PartIndex = Int(index)
	return out
}

// WithoutPart returns a copy of the item with the part index cleared.
func (it Item) WithoutPart() Item {
	out := it.clone()
	out.PartIndex = nil
	return out
}

// clone copies the item so that pointer fields are not shared.
func (it Item) clone() Item {
	out := it
	if it.RawQuantity != nil {
		out.RawQuantity = Float(*it.RawQuantity)
	}
	if it.Category != nil {
		out.Category = String(*it.Category)
	}
	if it.PartIndex != nil {
		out.PartIndex = Int(*it.PartIndex)
	}
	return out
}

var partSuffix = regexp.MustCompile(`^(.+?)::part\d+$`)

// PartID builds the id of the n-th part of a batch.
func PartID(base string, n int) string {
	return fmt.Sprintf("%s::part%d", base, n)
}

// StripPart removes a "::partN" suffix from an item id.
func StripPart(id string) string {
	if m := partSuffix.FindStringSubmatch(id); m != nil {
		return m[1]
	}
	return id
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
