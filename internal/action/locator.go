package action

// LocatorKind distinguishes the two ways a host control can be found.
type LocatorKind uint8

const (
	// KindIdentifierList resolves to the first control carrying any of the
	// listed identifiers, tried in order.
	KindIdentifierList LocatorKind = iota + 1
	// KindCustomLookup resolves through a caller-supplied function.
	KindCustomLookup
)

// String returns the kind name.
func (k LocatorKind) String() string {
	switch k {
	case KindIdentifierList:
		return "identifierList"
	case KindCustomLookup:
		return "customLookup"
	default:
		return "unknown"
	}
}

// Locator describes how to find the host control behind an action.
// The zero value locates nothing.
type Locator struct {
	kind    LocatorKind
	values  []string
	resolve func() (string, bool)
}

// IdentifierList returns a locator trying each identifier in order.
func IdentifierList(values ...string) Locator {
	return Locator{
		kind:   KindIdentifierList,
		values: append([]string(nil), values...),
	}
}

// CustomLookup returns a locator that asks resolve for the control id.
func CustomLookup(resolve func() (string, bool)) Locator {
	return Locator{
		kind:    KindCustomLookup,
		resolve: resolve,
	}
}

// Kind returns the locator variant.
func (l Locator) Kind() LocatorKind {
	return l.kind
}

// Values returns the identifiers of an identifier-list locator.
func (l Locator) Values() []string {
	return append([]string(nil), l.values...)
}

// Resolve runs a custom lookup. It reports false for other kinds.
func (l Locator) Resolve() (string, bool) {
	if l.kind != KindCustomLookup || l.resolve == nil {
		return "", false
	}
	return l.resolve()
}
