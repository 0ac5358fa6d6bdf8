// Package build turns a submission's field map into fully-populated records.
// Builders are pure: all identifiers are issued by an Allocator before a
// builder runs, so no builder ever observes a partially-assigned state.
package build

// Seeds holds the starting identifier for each entity kind. Callers loading
// into an existing database seed these from the destination's current
// sequence maxima; re-running with the same seeds produces colliding keys.
type Seeds struct {
	Order              int64 `yaml:"order" mapstructure:"order"`
	OrderItem          int64 `yaml:"order_item" mapstructure:"order_item"`
	Incorporation      int64 `yaml:"incorporation" mapstructure:"incorporation"`
	ITINApplication    int64 `yaml:"itin_application" mapstructure:"itin_application"`
	OperatingAgreement int64 `yaml:"operating_agreement" mapstructure:"operating_agreement"`
}

// DefaultSeeds starts every counter at 1000, clear of the destination's
// hand-seeded catalog rows.
func DefaultSeeds() Seeds {
	return Seeds{
		Order:              1000,
		OrderItem:          1000,
		Incorporation:      1000,
		ITINApplication:    1000,
		OperatingAgreement: 1000,
	}
}

// Allocator issues identifiers for the five entity kinds. Each Next call
// returns the current value and advances the counter; counters never
// decrease, never wrap, and a consumed identifier is never reissued even if
// the submission is later skipped. An Allocator is a plain value with no
// ambient state, so tests can run with independent instances.
type Allocator struct {
	order              int64
	orderItem          int64
	incorporation      int64
	itinApplication    int64
	operatingAgreement int64
}

// NewAllocator returns an Allocator whose first issued identifiers equal the
// given seeds.
func NewAllocator(seeds Seeds) *Allocator {
	return &Allocator{
		order:              seeds.Order,
		orderItem:          seeds.OrderItem,
		incorporation:      seeds.Incorporation,
		itinApplication:    seeds.ITINApplication,
		operatingAgreement: seeds.OperatingAgreement,
	}
}

// NextOrder issues the next order identifier.
func (a *Allocator) NextOrder() int64 {
	id := a.order
	a.order++
	return id
}

// NextOrderItem issues the next order-item identifier.
func (a *Allocator) NextOrderItem() int64 {
	id := a.orderItem
	a.orderItem++
	return id
}

// NextIncorporation issues the next incorporation identifier.
func (a *Allocator) NextIncorporation() int64 {
	id := a.incorporation
	a.incorporation++
	return id
}

// NextITINApplication issues the next ITIN-application identifier.
func (a *Allocator) NextITINApplication() int64 {
	id := a.itinApplication
	a.itinApplication++
	return id
}

// NextOperatingAgreement issues the next operating-agreement identifier.
func (a *Allocator) NextOperatingAgreement() int64 {
	id := a.operatingAgreement
	a.operatingAgreement++
	return id
}
