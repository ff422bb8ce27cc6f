package cli

import (
	"context"
	"fmt"

	"github.com/revline/revline-go/internal/client/models"
	"github.com/revline/revline-go/internal/client/portals"
)

// List shows the first page of whatever the active role works with:
// vehicles for admins and sellers, service jobs for mechanics,
// investments for investors.
func (a *App) List(ctx context.Context) error {
	snap := a.sessions.Snapshot()

	var (
		page *portals.Page
		err  error
	)
	switch snap.Role {
	case models.RoleAdmin:
		page, err = a.admin.Vehicles.List(ctx, 1)
	case models.RoleSeller:
		page, err = a.seller.Vehicles.List(ctx, 1)
	case models.RoleMechanic:
		page, err = a.mechanic.Services.List(ctx, 1)
	case models.RoleInvestor:
		page, err = a.investor.Investments.List(ctx, 1)
	default:
		printlnFn("Not logged in")
		return nil
	}
	if err != nil {
		printlnFn("List failed:", err.Error())
		return err
	}

	for _, item := range page.Items {
		printlnFn(formatItem(item))
	}
	if page.Meta.Total > 0 {
		printlnFn(fmt.Sprintf("page %d of %d (%d total)", page.Meta.CurrentPage, page.Meta.LastPage, page.Meta.Total))
	}
	return nil
}

// Notifications shows the unread count and the first page of
// notifications for the active identity.
func (a *App) Notifications(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Not logged in")
		return nil
	}

	count, err := a.notifications.UnreadCount(ctx)
	if err != nil {
		printlnFn("Notifications failed:", err.Error())
		return err
	}
	printlnFn(fmt.Sprintf("%d unread", count))

	page, err := a.notifications.List(ctx, 1)
	if err != nil {
		printlnFn("Notifications failed:", err.Error())
		return err
	}
	for _, item := range page.Items {
		printlnFn(formatItem(item))
	}
	return nil
}

// formatItem renders a normalized record on one line, preferring the
// fields screens key by.
func formatItem(item map[string]any) string {
	id := ""
	if v, ok := item["uuid"].(string); ok {
		id = v
	} else if v, ok := item["id"]; ok {
		id = fmt.Sprint(v)
	}

	label := ""
	for _, key := range []string{"name", "title", "message", "status"} {
		if v, ok := item[key].(string); ok && v != "" {
			label = v
			break
		}
	}

	if label == "" {
		return id
	}
	return fmt.Sprintf("%-36s  %s", id, label)
}
