package integration

import (
	"time"
)

// ConnectResponse carries the provider consent URL
type ConnectResponse struct {
	AuthURL string `json:"auth_url"`
}

// CallbackRequest is the query of the OAuth redirect
type CallbackRequest struct {
	Code  string `query:"code"`
	State string `query:"state"`
	Error string `query:"error"`
}

// AccountResponse is the connected provider profile
type AccountResponse struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AccountID string `json:"account_id,omitempty"`
}

// StatusResponse reports whether the organisation has connected Zoom
type StatusResponse struct {
	Provider  string           `json:"provider"`
	Connected bool             `json:"connected"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
	Account   *AccountResponse `json:"account,omitempty"`
}
