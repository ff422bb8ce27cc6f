package auth

import (
	"encoding/json"
	"fmt"

	"github.com/revline/revline-go/internal/client/models"
	"github.com/revline/revline-go/internal/common"
)

// extractor describes how to pull the token and identity record for one
// role out of the unified-login data bag. The backend is not consistent
// across roles: some send access_token, others token, and each nests the
// identity under a different field. Registering a new role is one entry
// here plus its model.
type extractor struct {
	// tokenFields are tried in order; the first non-empty string wins.
	tokenFields []string
	// identityField is the data-bag key holding the identity record.
	identityField string
	// wholeBagFallback uses the entire data bag as the identity record
	// when identityField is absent.
	wholeBagFallback bool
}

var extractors = map[models.Role]extractor{
	models.RoleAdmin:    {tokenFields: []string{"access_token", "token"}, identityField: "user"},
	models.RoleSeller:   {tokenFields: []string{"token", "access_token"}, identityField: "seller"},
	models.RoleMechanic: {tokenFields: []string{"token", "access_token"}, identityField: "mechanic"},
	models.RoleInvestor: {tokenFields: []string{"token", "access_token"}, identityField: "investor", wholeBagFallback: true},
}

// extract applies the role's extractor to the raw login data bag.
func extract(role models.Role, data json.RawMessage) (token string, identity models.Identity, err error) {
	ex, ok := extractors[role]
	if !ok {
		return "", models.Identity{}, fmt.Errorf("%w: %q", common.ErrUnknownUserType, role)
	}

	var bag map[string]json.RawMessage
	if err := json.Unmarshal(data, &bag); err != nil {
		return "", models.Identity{}, fmt.Errorf("decode login data: %w", err)
	}

	for _, field := range ex.tokenFields {
		raw, has := bag[field]
		if !has {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if s != "" {
			token = s
			break
		}
	}
	if token == "" {
		return "", models.Identity{}, common.ErrMissingToken
	}

	idRaw, has := bag[ex.identityField]
	if !has {
		if !ex.wholeBagFallback {
			return "", models.Identity{}, fmt.Errorf("login response carried no %s record", ex.identityField)
		}
		idRaw = data
	}

	identity, err = models.DecodeIdentity(role, idRaw)
	if err != nil {
		return "", models.Identity{}, fmt.Errorf("decode %s identity: %w", role, err)
	}
	return token, identity, nil
}
