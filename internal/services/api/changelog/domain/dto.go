// Package domain holds DTOs for the changelog http contract
package domain

// ChangelogInput selects one release to synthesize. An empty tag means the
// latest published release
type ChangelogInput struct {
	Owner string `json:"owner" validate:"required,min=1,max=39" example:"grafana"`
	Repo  string `json:"repo" validate:"required,min=1,max=100" example:"loki"`
	Tag   string `json:"tag,omitempty" validate:"omitempty,max=250" example:"v3.1.0"`
}

// PackagesInput selects a release window to aggregate per package. Dates are
// ISO8601 days; an empty window means the most recent releases
type PackagesInput struct {
	Owner string `json:"owner" validate:"required,min=1,max=39" example:"vercel"`
	Repo  string `json:"repo" validate:"required,min=1,max=100" example:"turborepo"`
	Since string `json:"since,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2025-06-01"`
	Until string `json:"until,omitempty" validate:"omitempty,datetime=2006-01-02" example:"2025-08-25"`
	Limit int    `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"20"`
}
