package pricing

import "math"

// ShoppingList is an ordered set of selections, unique by subject type and id.
// Its methods return new lists and never modify the receiver.
type ShoppingList []Selection

func (l ShoppingList) index(t SubjectType, id int64) int {
	for i, sel := range l {
		if sel.SubjectType == t && sel.SubjectID == id {
			return i
		}
	}
	return -1
}

// Count returns the current multiplier for a subject, or 0 when absent.
func (l ShoppingList) Count(t SubjectType, id int64) int {
	if i := l.index(t, id); i >= 0 {
		return l[i].Multiplier
	}
	return 0
}

// Adjust changes the multiplier of a subject by delta. Entries that drop to
// zero or below are removed; an absent subject is only added for a positive delta.
// The sum saturates at the bounds of int.
func (l ShoppingList) Adjust(t SubjectType, id int64, delta int) ShoppingList {
	return l.Set(t, id, saturatingAdd(l.Count(t, id), delta))
}

func saturatingAdd(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

// Set replaces the multiplier of a subject. A multiplier <= 0 removes it.
func (l ShoppingList) Set(t SubjectType, id int64, multiplier int) ShoppingList {
	i := l.index(t, id)
	out := make(ShoppingList, 0, len(l)+1)

	switch {
	case i < 0 && multiplier <= 0:
		return append(out, l...)
	case i < 0:
		out = append(out, l...)
		return append(out, Selection{SubjectType: t, SubjectID: id, Multiplier: multiplier})
	case multiplier <= 0:
		out = append(out, l[:i]...)
		return append(out, l[i+1:]...)
	default:
		out = append(out, l...)
		out[i].Multiplier = multiplier
		return out
	}
}

// Normalize drops non-positive multipliers and folds duplicate subjects into
// their first occurrence, keeping the last multiplier seen.
func Normalize(selections []Selection) ShoppingList {
	var out ShoppingList
	for _, sel := range selections {
		out = out.Set(sel.SubjectType, sel.SubjectID, sel.Multiplier)
	}
	return out
}
