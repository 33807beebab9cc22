package warmup

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/landmark-estates/landmark-web/internal/apiclient"
	"github.com/landmark-estates/landmark-web/internal/domain"
)

// PublicJobs re-fetches what the public pages read, with the same parameters
// the handlers use, so the responses land under the same cache keys.
func PublicJobs(api *apiclient.API) []Job {
	return []Job{
		{Name: "warm-statistics", Run: func(ctx context.Context) error {
			var errs []error
			for _, loc := range []string{"home", "about"} {
				_, err := api.Statistics.ByLocation(ctx, loc)
				errs = append(errs, err)
			}
			_, err := api.Statistics.Footer(ctx)
			return errors.Join(append(errs, err)...)
		}},
		{Name: "warm-projects", Run: func(ctx context.Context) error {
			_, ferr := api.Projects.Featured(ctx, apiclient.FeaturedLimit)
			var errs []error
			errs = append(errs, ferr)
			for _, status := range []domain.ProjectStatus{"", domain.StatusUpcoming, domain.StatusOngoing, domain.StatusCompleted} {
				_, err := api.Projects.List(ctx, apiclient.ListParams{Status: string(status), Limit: apiclient.PublicProjectsLimit})
				errs = append(errs, err)
			}
			return errors.Join(errs...)
		}},
		{Name: "warm-about", Run: func(ctx context.Context) error {
			_, terr := api.TeamMembers.List(ctx, apiclient.ListParams{})
			_, merr := api.Milestones.List(ctx, apiclient.ListParams{})
			return errors.Join(terr, merr)
		}},
		{Name: "warm-addresses", Run: func(ctx context.Context) error {
			_, lerr := api.Addresses.List(ctx, apiclient.ListParams{})
			_, perr := api.Addresses.Primary(ctx)
			return errors.Join(lerr, perr)
		}},
	}
}

// Purger deletes expired sessions, e.g. session.PostgresStore.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// SessionPurge removes expired rows from a persistent session store.
func SessionPurge(p Purger, log *zap.Logger) Job {
	if log == nil {
		log = zap.NewNop()
	}
	return Job{Name: "purge-sessions", Run: func(ctx context.Context) error {
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info("purged expired sessions", zap.Int64("count", n))
		}
		return nil
	}}
}
