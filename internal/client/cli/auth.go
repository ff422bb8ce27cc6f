package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/revline/revline-go/internal/client/models"
	"github.com/revline/revline-go/internal/client/perms"
	"github.com/revline/revline-go/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and runs the unified login flow. The
// password bytes are wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	role, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		printlnFn("Login failed:", loginFailureMessage(err))
		return err
	}

	printlnFn(fmt.Sprintf("Logged in to the %s portal as %s", role, a.sessions.Identity().DisplayName()))
	return nil
}

// Logout notifies the backend (best effort) and clears the local session.
func (a *App) Logout(ctx context.Context) error {
	a.auth.Logout(ctx)
	printlnFn("Logged out")
	return nil
}

// WhoAmI prints the active identity; for admins it also summarizes the
// role grants backing permission checks.
func (a *App) WhoAmI(ctx context.Context) error {
	snap := a.sessions.Snapshot()
	if !snap.Authenticated {
		printlnFn("Not logged in")
		return nil
	}

	printlnFn(fmt.Sprintf("%s (%s)", snap.Identity.DisplayName(), snap.Role))

	if snap.Role == models.RoleAdmin && snap.Identity.Admin != nil {
		for _, grant := range snap.Identity.Admin.Roles {
			printlnFn(fmt.Sprintf("  role %s: %d permissions", grant.Name, len(grant.Permissions)))
		}
		if perms.HasRole(snap.Identity, models.SuperAdminRole) {
			printlnFn("  super-admin: all permission checks pass")
		}
	}
	return nil
}

func loginFailureMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
