package jobs

import (
	"context"
	"time"

	"mewayz-backend/internal/logger"
)

const jobTimeout = 5 * time.Minute

// Read notifications older than this are swept out of the activity feed.
const notificationRetention = 30 * 24 * time.Hour

// ExpireInvitations stamps every pending invitation whose deadline has
// passed. Reads already treat such rows as expired; the sweep makes the
// stored status agree so reports and the unique pending index stay accurate.
func (jr *JobRunner) ExpireInvitations() {
	jr.runWithRecovery("ExpireInvitations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		count, err := jr.store.MarkExpired(ctx, time.Now().UTC())
		if err != nil {
			logger.Error("Failed to expire invitations", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Expired stale invitations", "count", count)
		}
	})
}

// PurgeReadNotifications deletes read notifications past the retention
// window.
func (jr *JobRunner) PurgeReadNotifications() {
	jr.runWithRecovery("PurgeReadNotifications", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		before := time.Now().UTC().Add(-notificationRetention)
		count, err := jr.store.PurgeRead(ctx, before)
		if err != nil {
			logger.Error("Failed to purge read notifications", "error", err)
			return
		}
		if count > 0 {
			logger.Info("Purged read notifications", "count", count)
		}
	})
}
