package github

// RepoInfo describes a freshly created remote repository.
type RepoInfo struct {
	Name     string `json:"name"`
	HTMLURL  string `json:"html_url"`
	CloneURL string `json:"clone_url"`
	Username string `json:"username"`
}

// DeviceAuth is the response to starting a device authorization flow.
type DeviceAuth struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// PollStatus is the five-state outcome of one device flow poll.
type PollStatus string

const (
	StatusPending    PollStatus = "pending"
	StatusSlowDown   PollStatus = "slow_down"
	StatusAuthorized PollStatus = "authorized"
	StatusDenied     PollStatus = "denied"
	StatusExpired    PollStatus = "expired"
	StatusError      PollStatus = "error"
)

// PollResult is the outcome of one poll against the token endpoint.
type PollResult struct {
	Status   PollStatus `json:"status"`
	Username string     `json:"username,omitempty"`
	Message  string     `json:"message,omitempty"`
}
