package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrIdentityNoEmail is returned when the identity provider knows the user but
// has no primary e-mail address for it.
var ErrIdentityNoEmail = errors.New("identity: user has no email address")

// IdentityClient looks users up in the external identity provider's REST API.
type IdentityClient struct {
	client *resty.Client
}

func NewIdentityClient(baseURL, apiKey string) *IdentityClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &IdentityClient{client: client}
}

type identityUser struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
}

func (u identityUser) primaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// LookupEmail returns the primary e-mail address of userID.
func (c *IdentityClient) LookupEmail(ctx context.Context, userID string) (string, error) {
	var user identityUser
	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("userId", userID).
		SetResult(&user).
		Get("/users/{userId}")
	if err != nil {
		return "", fmt.Errorf("identity lookup %s: %w", userID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("identity lookup %s: status %d", userID, resp.StatusCode())
	}
	email := user.primaryEmail()
	if email == "" {
		return "", ErrIdentityNoEmail
	}
	return email, nil
}
