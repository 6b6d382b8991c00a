// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authentication

import "fmt"

// sessionClaims covers both the OIDC standard names and the short names some
// identity providers put in session tokens.
type sessionClaims struct {
	Subject    string `json:"sub"`
	GivenName  string `json:"given_name"`
	FirstName  string `json:"first_name"`
	FamilyName string `json:"family_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
}

func (c *sessionClaims) principal() (*Principal, error) {
	if c.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	p := &Principal{
		UserID:    c.Subject,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Email:     c.Email,
	}

	if p.FirstName == "" {
		p.FirstName = c.FirstName
	}

	if p.LastName == "" {
		p.LastName = c.LastName
	}

	return p, nil
}
