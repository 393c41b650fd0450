package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"hangoutspots/controllers"
	"hangoutspots/db"
	"hangoutspots/utils"
)

// cooldownRetention keeps cooldown documents around for the longest window
// they can gate (the 7-day review cooldown) before the sweep removes them.
const cooldownRetention = 7 * 24 * time.Hour

// Start schedules the background maintenance jobs and returns the running
// scheduler. All jobs run on UTC.
func Start() *cron.Cron {
	c := cron.New(cron.WithLocation(time.UTC))

	// Nightly sweep of cooldown documents past every window they could gate.
	c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		store := db.NewCooldownStore()
		deleted, err := store.DeleteExpired(ctx, cooldownRetention, time.Now().UTC())
		if err != nil {
			utils.Sugar.Errorf("cooldown sweep error: %v", err)
			return
		}
		utils.Sugar.Infof("cooldown sweep removed %d documents", deleted)
	})

	// Keep the default leaderboard page warm.
	c.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := controllers.RefreshLeaderboardCache(ctx); err != nil {
			utils.Sugar.Errorf("leaderboard cache refresh error: %v", err)
		}
	})

	c.Start()
	return c
}
