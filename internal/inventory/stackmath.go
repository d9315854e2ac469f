package inventory

// EffectiveCapacity is the most a slot with slotCapacity can hold of an
// item whose max stack size is itemMax.
func EffectiveCapacity(slotCapacity, itemMax int) int {
	return min(slotCapacity, itemMax)
}

// Room returns how many more items fit on top of current under capacity.
// It is never negative.
func Room(current, capacity int) int {
	return max(0, capacity-current)
}

// Fit splits incoming into the part that fits on top of current under
// capacity and the overflow that does not.
func Fit(current, incoming, capacity int) (placed, overflow int) {
	if incoming <= 0 {
		return 0, 0
	}
	placed = min(incoming, Room(current, capacity))
	return placed, incoming - placed
}
