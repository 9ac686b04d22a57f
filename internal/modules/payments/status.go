package payments

// Status is the canonical transaction state stored locally. Unrecognized
// gateway statuses pass through as raw values rather than being coerced, so
// nothing the gateway reports is ever lost.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusFailure   Status = "failure"
	StatusChallenge Status = "challenge"
)

// ResolveStatus maps a gateway (transaction_status, fraud_status) pair to the
// canonical status. Pure and deterministic: redelivered notifications resolve
// to the same value every time.
func ResolveStatus(transactionStatus, fraudStatus string) Status {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "challenge":
			return StatusChallenge
		case "accept":
			return StatusSuccess
		default:
			return StatusFailure
		}
	case "settlement":
		return StatusSuccess
	case "deny", "cancel", "expire":
		return StatusFailure
	case "pending":
		return StatusPending
	default:
		return Status(transactionStatus)
	}
}
