package loginsync

import (
	"fmt"

	"pass-fxa/core/reconcile"
)

// ValidateJob checks that a put job carries the fields its type needs.
func ValidateJob(job reconcile.Job) error {
	switch job.Type {
	case reconcile.JobCreate:
		if job.Username == "" || job.Password == "" || job.Hostname == "" {
			return fmt.Errorf("create job needs username, password and hostname")
		}
	case reconcile.JobUpdate:
		if job.ID == "" || job.Password == "" {
			return fmt.Errorf("update job needs id and password")
		}
	default:
		return fmt.Errorf("unsupported job type %q", job.Type)
	}
	return nil
}
