// Package helpdesk defines the unified domain model shared by every ticket
// backend, the adapter contract the backends implement, and the registry the
// aggregation layer dispatches through. Backend wire formats never cross
// this package's boundary; adapters translate into these types.
package helpdesk

// Origin tags every entity with the backend that owns it. Identifiers are
// only unique within one origin, so any follow-up operation on an entity
// must be routed back through its origin. The tag is set once by the
// producing adapter and never changes.
type Origin string

const (
	// OriginLegacy is the SOAP-based legacy service desk.
	OriginLegacy Origin = "legacy"

	// OriginUnknown is the zero value; entities must never leave an
	// adapter carrying it.
	OriginUnknown Origin = ""
)

func (o Origin) String() string {
	return string(o)
}
