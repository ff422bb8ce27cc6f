package portals

import (
	"context"

	"github.com/revline/revline-go/internal/client/api"
	"github.com/revline/revline-go/internal/client/models"
)

// Admin is the endpoint catalog for the admin portal.
type Admin struct {
	c *api.Client

	Vehicles   Resource
	Parts      Resource
	Services   Resource
	Users      Resource
	Sellers    Resource
	Mechanics  Resource
	Investors  Resource
	Categories Resource
	Brands     Resource
}

func NewAdmin(c *api.Client) *Admin {
	return &Admin{
		c:          c,
		Vehicles:   Resource{c: c, base: "/admin/vehicles"},
		Parts:      Resource{c: c, base: "/admin/parts"},
		Services:   Resource{c: c, base: "/admin/services"},
		Users:      Resource{c: c, base: "/admin/users"},
		Sellers:    Resource{c: c, base: "/admin/sellers"},
		Mechanics:  Resource{c: c, base: "/admin/mechanics"},
		Investors:  Resource{c: c, base: "/admin/investors"},
		Categories: Resource{c: c, base: "/admin/categories"},
		Brands:     Resource{c: c, base: "/admin/brands"},
	}
}

// Me fetches the authenticated admin's profile with nested
// roles[].permissions[].
func (a *Admin) Me(ctx context.Context) (*models.AdminUser, error) {
	payload, err := a.c.Get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}
	var me struct {
		User models.AdminUser `json:"user"`
	}
	if err := api.Decode(payload, &me); err != nil {
		return nil, err
	}
	return &me.User, nil
}

// Settings returns the platform settings object.
func (a *Admin) Settings(ctx context.Context) (map[string]any, error) {
	payload, err := a.c.Get(ctx, "/admin/settings")
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// UpdateSettings writes the given settings fields.
func (a *Admin) UpdateSettings(ctx context.Context, attrs map[string]any) (map[string]any, error) {
	payload, err := a.c.Put(ctx, "/admin/settings", attrs)
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// Report fetches a named report (e.g. "sales", "inventory").
func (a *Admin) Report(ctx context.Context, name string) (map[string]any, error) {
	payload, err := a.c.Get(ctx, "/admin/reports/"+name)
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// UploadVehicleImages attaches one or more image files to a vehicle.
func (a *Admin) UploadVehicleImages(ctx context.Context, vehicleUUID string, files []api.UploadFile) (map[string]any, error) {
	payload, err := a.c.Upload(ctx, "/admin/vehicles/"+vehicleUUID+"/images", nil, files)
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// UploadAvatar replaces the authenticated admin's avatar.
func (a *Admin) UploadAvatar(ctx context.Context, file api.UploadFile) (map[string]any, error) {
	payload, err := a.c.Upload(ctx, "/admin/profile/avatar", nil, []api.UploadFile{file})
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}
