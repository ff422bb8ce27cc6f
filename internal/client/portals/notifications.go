package portals

import (
	"context"

	"github.com/revline/revline-go/internal/client/api"
)

// Notifications is the cross-portal notification catalog.
type Notifications struct {
	c *api.Client
}

func NewNotifications(c *api.Client) *Notifications {
	return &Notifications{c: c}
}

// List returns one page of the current identity's notifications.
func (n *Notifications) List(ctx context.Context, page int) (*Page, error) {
	r := Resource{c: n.c, base: "/notifications"}
	return r.List(ctx, page)
}

// UnreadCount returns the number of unread notifications.
func (n *Notifications) UnreadCount(ctx context.Context) (int, error) {
	payload, err := n.c.Get(ctx, "/notifications/unread-count")
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := api.Decode(payload, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkRead marks a single notification read.
func (n *Notifications) MarkRead(ctx context.Context, uuid string) error {
	_, err := n.c.Post(ctx, "/notifications/"+uuid+"/read", nil)
	return err
}

// MarkAllRead marks every notification read.
func (n *Notifications) MarkAllRead(ctx context.Context) error {
	_, err := n.c.Post(ctx, "/notifications/read-all", nil)
	return err
}
