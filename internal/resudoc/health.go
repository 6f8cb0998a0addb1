package resudoc

import "context"

const (
	healthPath    = "/health"
	statusHealthy = "healthy"
)

type Health struct {
	Status            string `json:"status"`
	Version           string `json:"version"`
	DatabaseConnected bool   `json:"database_connected"`
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.getJSON(ctx, healthPath, nil, &health); err != nil {
		return nil, err
	}

	return &health, nil
}

func (h *Health) OK() bool {
	return h.Status == statusHealthy && h.DatabaseConnected
}
