package portals

import (
	"context"

	"github.com/revline/revline-go/internal/client/api"
)

// Investor is the endpoint catalog for the investor portal.
type Investor struct {
	c *api.Client

	Investments Resource
}

func NewInvestor(c *api.Client) *Investor {
	return &Investor{
		c:           c,
		Investments: Resource{c: c, base: "/investor/investments"},
	}
}

// Dashboard returns the investor's portfolio summary.
func (i *Investor) Dashboard(ctx context.Context) (map[string]any, error) {
	payload, err := i.c.Get(ctx, "/investor/dashboard")
	if err != nil {
		return nil, err
	}
	return asObject(payload)
}

// Returns lists the payout history for one investment.
func (i *Investor) Returns(ctx context.Context, investmentUUID string, page int) (*Page, error) {
	r := Resource{c: i.c, base: "/investor/investments/" + investmentUUID + "/returns"}
	return r.List(ctx, page)
}
