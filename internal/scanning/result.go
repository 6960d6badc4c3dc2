package scanning

import "github.com/google/uuid"

// Reason classifies why a scan was denied. Admitted results carry ReasonNone.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNotFound          Reason = "not_found"
	ReasonIdentityMismatch  Reason = "identity_mismatch"
	ReasonAlreadyConsumed   Reason = "already_consumed"
	ReasonInvalidSequence   Reason = "invalid_sequence"
	ReasonStatusRejected    Reason = "status_rejected"
	ReasonExpired           Reason = "expired"
	ReasonInactiveInventory Reason = "inactive_inventory"
	ReasonInternal          Reason = "internal"
)

// Result is the discriminated outcome of a validation. Message is shown
// verbatim to the scanning operator; the remaining fields are display
// context for admitted scans.
type Result struct {
	IsValid        bool      `json:"is_valid"`
	Reason         Reason    `json:"reason,omitempty"`
	Message        string    `json:"message"`
	EventID        uuid.UUID `json:"event_id,omitempty"`
	EventTitle     string    `json:"event_title,omitempty"`
	TicketTierName string    `json:"ticket_tier_name,omitempty"`
	CustomerName   string    `json:"customer_name,omitempty"`
	RemainingScans int       `json:"remaining_scans,omitempty"`
}

func deny(reason Reason, message string) Result {
	return Result{IsValid: false, Reason: reason, Message: message}
}

func denyInternal() Result {
	return deny(ReasonInternal, "Failed to validate. Please try again.")
}
