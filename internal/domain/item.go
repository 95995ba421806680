package domain

// ItemID identifies one of the fixed game item kinds.
type ItemID uint64

// The closed set of item kinds. IDs must not be renumbered: balances are
// keyed by them.
const (
	ItemSeed         ItemID = 0
	ItemFertilizer   ItemID = 1
	ItemWaterCan     ItemID = 2
	ItemGoldenShovel ItemID = 3
	ItemMysteryBox   ItemID = 4
)

// KnownItems lists every valid item kind in id order.
var KnownItems = []ItemID{ItemSeed, ItemFertilizer, ItemWaterCan, ItemGoldenShovel, ItemMysteryBox}

var itemNames = map[ItemID]string{
	ItemSeed:         "seed",
	ItemFertilizer:   "fertilizer",
	ItemWaterCan:     "water_can",
	ItemGoldenShovel: "golden_shovel",
	ItemMysteryBox:   "mystery_box",
}

// String returns the item's canonical name, or "unknown" for ids outside the set.
func (id ItemID) String() string {
	if name, ok := itemNames[id]; ok {
		return name
	}
	return "unknown"
}

// Known reports whether the id belongs to the closed item set.
func (id ItemID) Known() bool {
	_, ok := itemNames[id]
	return ok
}
