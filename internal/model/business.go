package model

// Business identifies the legal entity a charge is invoiced under.
// The shop operates two entities sharing one inventory; every line item
// and the labor charge carry exactly one of these tags.
type Business string

const (
	BusinessAutoGamma Business = "Auto Gamma"
	BusinessAGNX      Business = "AGNX"
)

// AllBusinesses returns the closed set of entities in invoice-generation
// order. The order matters: seed payments from a job-card payload attach
// to the first invoice created.
func AllBusinesses() []Business {
	return []Business{BusinessAutoGamma, BusinessAGNX}
}

// InvoicePrefix returns the invoice-number prefix for the entity
// (AG-<year>-<seq> / AGNX-<year>-<seq>).
func (b Business) InvoicePrefix() string {
	switch b {
	case BusinessAutoGamma:
		return "AG"
	case BusinessAGNX:
		return "AGNX"
	default:
		return ""
	}
}

// Valid reports whether b is one of the known entities.
func (b Business) Valid() bool {
	return b == BusinessAutoGamma || b == BusinessAGNX
}
