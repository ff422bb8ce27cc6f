package portals

import (
	"context"

	"github.com/revline/revline-go/internal/client/api"
	"github.com/revline/revline-go/internal/client/models"
)

// Mechanic is the endpoint catalog for the mechanic portal.
type Mechanic struct {
	c *api.Client

	Services Resource
}

func NewMechanic(c *api.Client) *Mechanic {
	return &Mechanic{
		c:        c,
		Services: Resource{c: c, base: "/mechanic/services"},
	}
}

// Dashboard returns the mechanic's work queue summary.
func (m *Mechanic) Dashboard(ctx context.Context) (map[string]any, error) {
	payload, err := m.c.Get(ctx, "/mechanic/dashboard")
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// CompleteService marks an assigned service job done, with optional notes.
func (m *Mechanic) CompleteService(ctx context.Context, serviceUUID string, notes string) (map[string]any, error) {
	payload, err := m.c.Post(ctx, "/mechanic/services/"+serviceUUID+"/complete", map[string]string{"notes": notes})
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// UpdateProfile writes profile fields and returns the updated record.
func (m *Mechanic) UpdateProfile(ctx context.Context, attrs map[string]any) (*models.Mechanic, error) {
	payload, err := m.c.Put(ctx, "/mechanic/profile", attrs)
	if err != nil {
		return nil, err
	}
	var out models.Mechanic
	if err := api.Decode(payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
