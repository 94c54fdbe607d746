package enums

// DefaultPaymentTerms is applied when a purchase order or customer group does
// not supply payment terms.
const DefaultPaymentTerms = "NET30"
