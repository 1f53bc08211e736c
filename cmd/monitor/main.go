// Command monitor tails the live exam simulation from a terminal: it logs
// in through the mock auth endpoint, keeps its session in the shared
// session store, and polls the live endpoint with the same jittered
// cadence the web dashboard uses, logging each snapshot.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/merolabs/meroview-backend/internal/client"
	"github.com/merolabs/meroview-backend/internal/database"
	"github.com/merolabs/meroview-backend/internal/logger"
	"github.com/merolabs/meroview-backend/internal/model"
	"github.com/merolabs/meroview-backend/internal/session"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "dashboard API base URL")
	name := flag.String("name", "Monitor", "display name to log in with")
	redisURL := flag.String("redis-url", os.Getenv("REDIS_URL"), "Redis URL for a session shared across monitors (empty: in-process)")
	jitterMin := flag.Duration("jitter-min", client.DefaultJitterMin, "minimum poll delay")
	jitterMax := flag.Duration("jitter-max", client.DefaultJitterMax, "maximum poll delay (exclusive)")
	logFormat := flag.String("log-format", "pretty", "log format: pretty or json")
	flag.Parse()

	log := logger.Setup("info", *logFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions, err := buildSessionStore(ctx, *redisURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open session store")
	}
	defer sessions.Close()

	if err := sessions.Hydrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to hydrate session")
	}

	api := client.New(*baseURL)

	user, ok := sessions.User()
	if ok {
		log.Info().Str("user", user.Name).Msg("Adopted existing session")
	} else {
		resp, err := api.Login(ctx, model.LoginRequest{Name: *name})
		if err != nil {
			log.Fatal().Err(err).Msg("Login failed")
		}
		if err := sessions.Login(ctx, resp.User, session.LoginOptions{Token: resp.Token}); err != nil {
			log.Fatal().Err(err).Msg("Failed to persist session")
		}
		user = resp.User
		api = client.New(*baseURL, client.WithToken(resp.Token))
		log.Info().Str("user", user.Name).Msg("Logged in")
	}

	poller := client.NewPoller(
		func(ctx context.Context) error {
			state, err := api.FetchLive(ctx)
			if err != nil {
				return err
			}
			logSnapshot(log, state)
			return nil
		},
		client.WithJitter(*jitterMin, *jitterMax),
		client.WithOnError(func(err error) {
			log.Warn().Err(err).Msg("Poll failed, will retry on next tick")
		}),
	)

	poller.Start(ctx)
	log.Info().Str("url", *baseURL).Msg("Monitoring live exam (Ctrl+C to stop)")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	poller.Stop()
	log.Info().Msg("Monitor stopped")
}

// buildSessionStore wires the session against Redis when a URL is given,
// so several monitors (or a monitor next to the dashboard) share one
// login, and falls back to process-local storage otherwise.
func buildSessionStore(ctx context.Context, redisURL string, log zerolog.Logger) (*session.Store, error) {
	if redisURL == "" {
		return session.NewStore(session.NewMemoryKV(), session.NewMemoryBus(), log), nil
	}

	rdb, err := database.NewRedisClient(ctx, redisURL, log)
	if err != nil {
		return nil, err
	}
	return session.NewStore(session.NewRedisKV(rdb), session.NewRedisBus(rdb, log), log), nil
}

func logSnapshot(log zerolog.Logger, state *model.LiveState) {
	snap := state.Snapshot
	log.Info().
		Time("at", time.UnixMilli(snap.Ts)).
		Float64("avg_score", snap.AvgScore).
		Float64("pct_completed", snap.PctCompleted).
		Int("not_started", snap.StatusDist[model.StatusNotStarted]).
		Int("in_progress", snap.StatusDist[model.StatusInProgress]).
		Int("completed", snap.StatusDist[model.StatusCompleted]).
		Msgf("%s (%s)", state.Exam.Title, state.Exam.Subject)
}
