package domain

import "time"

// Deployment is a deployment created for one of the user's repositories.
type Deployment struct {
	ID          int64
	Environment string
	Ref         string
	CreatedAt   time.Time
	Repository  string // full_name of the deployed repository
}
