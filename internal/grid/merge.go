package grid

// Merge consolidates occupants sharing a product identity into a single item.
//
// Groups keep the order in which their first member appears. A group with
// more than one member becomes a new item whose quantity is the sum of the
// members; the raw quantity is summed too when any member tracks it. All
// other attributes come from the first member. The input is never modified
// and Merge(Merge(x)) equals Merge(x).
func Merge(items []Item) []Item {
	if len(items) == 0 {
		return []Item{}
	}

	order := make([]ProductKey, 0, len(items))
	groups := make(map[ProductKey][]Item, len(items))
	for _, it := range items {
		k := it.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}

	out := make([]Item, 0, len(order))
	for _, k := range order {
		members := groups[k]
		if len(members) == 1 {
			out = append(out, members[0].clone())
			continue
		}
		out = append(out, mergeGroup(members))
	}
	return out
}

func mergeGroup(members []Item) Item {
	var qty, raw float64
	tracked := false
	for _, m := range members {
		qty += m.Quantity
		raw += m.RawOrQuantity()
		if m.HasRaw() {
			tracked = true
		}
	}
	if !tracked {
		return members[0].WithQuantity(qty, nil)
	}
	return members[0].WithQuantity(qty, Float(raw))
}

// MergeSlot replaces the occupants of one slot with their merged form.
func (g Grid) MergeSlot(k SlotKey) {
	if items, ok := g[k]; ok {
		g[k] = Merge(items)
	}
}
