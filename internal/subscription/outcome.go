package subscription

// Outcome is the terminal state of one subscribe or unsubscribe request.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSubscribed
	OutcomeSubscribedNotifyFailed
	OutcomeRejectedDuplicate
	OutcomeRejectedInvalid
	OutcomeFailedStore
	OutcomeRemoved
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSubscribed:
		return "subscribed"
	case OutcomeSubscribedNotifyFailed:
		return "subscribed_notify_failed"
	case OutcomeRejectedDuplicate:
		return "rejected_duplicate"
	case OutcomeRejectedInvalid:
		return "rejected_invalid"
	case OutcomeFailedStore:
		return "failed_store"
	case OutcomeRemoved:
		return "removed"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
