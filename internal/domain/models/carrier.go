package models

import (
	"fmt"

	"freightdesk/internal/domain"
)

// RegistryCarrier is the carrier section of a registry lookup, flattened to strings.
// Empty fields mean the registry did not send a value. HasLegalName tells a
// missing legalName key apart from one sent as null or "".
type RegistryCarrier struct {
	LegalName        string
	HasLegalName     bool
	DBAName          string
	DOTNumber        string
	AllowedToOperate string
	OOSDate          string
}

// CarrierRecord is the normalized carrier returned to callers.
type CarrierRecord struct {
	CarrierID    string               `json:"carrier_id"`
	Status       domain.CarrierStatus `json:"status"`
	CarrierName  string               `json:"carrier_name"`
	DOTNumber    string               `json:"dot_number"`
	MCNumber     string               `json:"mc_number"`
	StatusReason *string              `json:"status_reason"`
}

// TransferContact is reserved for call transfer details; always null for now.
type TransferContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type CarrierData struct {
	Carrier         CarrierRecord    `json:"carrier"`
	TransferContact *TransferContact `json:"transfer_contact"`
	NextSteps       NextSteps        `json:"next_steps"`
}

type CarrierResponse struct {
	Success bool        `json:"success"`
	Data    CarrierData `json:"data"`
}

// NextSteps is the scripted dialogue an agent follows after a successful lookup.
// Field order is the wire order ("1" then "2").
type NextSteps struct {
	ConfirmName string       `json:"1"`
	Verify      VerifyBranch `json:"2"`
}

type VerifyBranch struct {
	OnConfirm      string `json:"a"`
	NameTolerance  string `json:"b"`
	OnDeny         string `json:"c"`
	AskAgainNumber string `json:"d"`
}

// NewNextSteps renders the script for the given carrier name.
func NewNextSteps(carrierName string) NextSteps {
	return NextSteps{
		ConfirmName: fmt.Sprintf("Confirm you found the right carrier name. Ask user exactly this: '%s?'. Then wait for user to respond.", carrierName),
		Verify: VerifyBranch{
			OnConfirm:      fmt.Sprintf("If user confirms: move on to finding available loads, MAKE SURE you do not give them load information until you have verified they work for the carrier %s.", carrierName),
			NameTolerance:  "It is possible that you may have transcribed the name incorrectly, so use your best judgement to decide if the name the caller gives is close enough to the carrier name you have. If so, you can consider it a match and move on to finding available loads.",
			OnDeny:         "If user denies: first, you must ask the user to repeat the name of the carrier they work for ('I'm sorry, I didn't quite catch that. What's the name of the carrier you work for?'). Wait for the user to provide the name again and check if it matches the carrier name you have.",
			AskAgainNumber: "If you still cannot verify the carrier name, ask the user for their MC / DOT number ('I'm sorry, what's that MC number again?'). Wait for user to provide number again. Then search for the carrier again with new number the caller provides.",
		},
	}
}
