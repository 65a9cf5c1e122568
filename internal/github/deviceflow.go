package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// deviceResponse is the provider's wire format for both device flow
// endpoints; the error fields double as the poll state signal.
type deviceResponse struct {
	DeviceCode       string `json:"device_code"`
	UserCode         string `json:"user_code"`
	VerificationURI  string `json:"verification_uri"`
	ExpiresIn        int    `json:"expires_in"`
	Interval         int    `json:"interval"`
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (s *Service) postForm(ctx context.Context, endpoint string, form url.Values) (*deviceResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build device flow request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceFlow, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "device flow endpoint returned " + resp.Status}
	}

	var parsed deviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode device flow response: %w", err)
	}

	return &parsed, nil
}

// StartDeviceFlow requests a device and user code pair for the repo scope.
func (s *Service) StartDeviceFlow(ctx context.Context, clientID string) (*DeviceAuth, error) {
	resp, err := s.postForm(ctx, s.config.DeviceCodeURL, url.Values{
		"client_id": {clientID},
		"scope":     {"repo"},
	})
	if err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrDeviceFlow, resp.ErrorDescription)
	}

	interval := resp.Interval
	if interval == 0 {
		interval = 5
	}

	return &DeviceAuth{
		DeviceCode:      resp.DeviceCode,
		UserCode:        resp.UserCode,
		VerificationURI: resp.VerificationURI,
		ExpiresIn:       resp.ExpiresIn,
		Interval:        interval,
	}, nil
}

// PollDeviceFlow performs one poll against the token endpoint. Transient
// provider codes map onto the five-state poll result; authorization
// triggers an identity fetch and stores the credential pair.
func (s *Service) PollDeviceFlow(ctx context.Context, clientID, deviceCode string) (*PollResult, error) {
	resp, err := s.postForm(ctx, s.config.AccessTokenURL, url.Values{
		"client_id":   {clientID},
		"device_code": {deviceCode},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
	})
	if err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return &PollResult{
			Status:  pollStatusFor(resp.Error),
			Message: resp.ErrorDescription,
		}, nil
	}

	client, err := s.apiClient(ctx, resp.AccessToken)
	if err != nil {
		return nil, err
	}

	user, userResp, err := client.Users.Get(ctx, "")
	if err != nil {
		return nil, s.apiError(userResp, err)
	}

	login := user.GetLogin()
	if err := s.git.SetCredentials(ctx, login, resp.AccessToken, true); err != nil {
		return nil, err
	}

	s.logger.Info("device flow authorized", zap.String("username", login))

	return &PollResult{Status: StatusAuthorized, Username: login}, nil
}

func pollStatusFor(code string) PollStatus {
	switch code {
	case "authorization_pending":
		return StatusPending
	case "slow_down":
		return StatusSlowDown
	case "access_denied":
		return StatusDenied
	case "expired_token":
		return StatusExpired
	default:
		return StatusError
	}
}
