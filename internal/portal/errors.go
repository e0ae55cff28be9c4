package portal

import "fmt"

// FetchReason classifies why a portal operation failed.
type FetchReason string

const (
	// ReasonAuthExpired means the portal redirected to the login page.
	ReasonAuthExpired FetchReason = "auth_expired"
	// ReasonLoginRejected means the portal refused the credentials.
	ReasonLoginRejected FetchReason = "login_rejected"
	// ReasonHTTPError means the portal answered with an unexpected status or page.
	ReasonHTTPError FetchReason = "http_error"
	// ReasonNetworkError means the request never completed.
	ReasonNetworkError FetchReason = "network_error"
)

// FetchError carries the failure classification for a portal operation.
type FetchError struct {
	Reason  FetchReason
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("portal %s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("portal %s: %s", e.Reason, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches any FetchError with the same reason.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && e.Reason == t.Reason
}
