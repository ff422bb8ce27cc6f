package portals

import (
	"context"

	"github.com/revline/revline-go/internal/client/api"
	"github.com/revline/revline-go/internal/client/models"
)

// Seller is the endpoint catalog for the seller portal.
type Seller struct {
	c *api.Client

	Vehicles Resource
}

func NewSeller(c *api.Client) *Seller {
	return &Seller{
		c:        c,
		Vehicles: Resource{c: c, base: "/seller/vehicles"},
	}
}

// Dashboard returns the seller's stats block (listed vehicles, pending
// commissions, recent sales).
func (s *Seller) Dashboard(ctx context.Context) (map[string]any, error) {
	payload, err := s.c.Get(ctx, "/seller/dashboard")
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// UpdateProfile writes profile fields and returns the updated record.
func (s *Seller) UpdateProfile(ctx context.Context, attrs map[string]any) (*models.Seller, error) {
	payload, err := s.c.Put(ctx, "/seller/profile", attrs)
	if err != nil {
		return nil, err
	}
	var out models.Seller
	if err := api.Decode(payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadCompanyLogo replaces the seller's company logo.
func (s *Seller) UploadCompanyLogo(ctx context.Context, file api.UploadFile) (map[string]any, error) {
	payload, err := s.c.Upload(ctx, "/seller/company-logo", nil, []api.UploadFile{file})
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}
