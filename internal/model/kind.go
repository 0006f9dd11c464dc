package model

// Kind identifies a catalog entity type. It is a closed enum: every
// generic operation over entity types (cascade deletes in the in-memory
// adapter, sync broadcast naming) dispatches on it rather than on type
// name strings.
type Kind int

const (
	KindUser Kind = iota
	KindPantry
	KindCategory
	KindItem
	KindShareRequest
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindPantry:
		return "pantry"
	case KindCategory:
		return "category"
	case KindItem:
		return "item"
	case KindShareRequest:
		return "share_request"
	default:
		return "unknown"
	}
}

// Parent returns the kind that owns records of kind k, if any. A pantry's
// parent is its owning user; the user relation to shared pantries is the
// separate access list, not a parent link.
func (k Kind) Parent() (Kind, bool) {
	switch k {
	case KindPantry:
		return KindUser, true
	case KindCategory:
		return KindPantry, true
	case KindItem:
		return KindCategory, true
	default:
		return 0, false
	}
}

// Child returns the kind whose records cascade away when a record of
// kind k is deleted.
func (k Kind) Child() (Kind, bool) {
	switch k {
	case KindUser:
		return KindPantry, true
	case KindPantry:
		return KindCategory, true
	case KindCategory:
		return KindItem, true
	default:
		return 0, false
	}
}
