package domain

// CarrierStatus is the normalized authorization state of a carrier.
type CarrierStatus string

const (
	CarrierActive   CarrierStatus = "Active"
	CarrierInactive CarrierStatus = "Inactive"
)

const (
	ReasonOutOfService  = "Out of Service"
	ReasonNotAuthorized = "Not Authorized to Operate"
)
