package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	"github.com/ericzzh/mattermost-plugin-purge/server/sqlstore"
)

const dsnEnv = "MM_SQLSETTINGS_DATASOURCE"

var (
	ErrNoDSN    = errors.New("no data source, set --dsn or " + dsnEnv + ".")
	ErrNoUser   = errors.New("require --user.")
	ErrNoDriver = errors.New("only the postgres driver is supported.")
)

type reportOptions struct {
	driver     string
	dsn        string
	user       string
	limit      int
	tuning     string
	channels   []string
	noThrottle bool
}

type report struct {
	Backfill app.BackfillResult `json:"backfill"`
	Tracked  app.Stats          `json:"tracked"`
	Purge    app.PurgeResult    `json:"purge"`
}

// dryRunDeleter pretends every post was deleted.
type dryRunDeleter struct{}

func (dryRunDeleter) DeleteBatch(_ context.Context, _ string, ids []string) (int, error) {
	return len(ids), nil
}

type allowAll struct{}

func (allowAll) CanDelete(context.Context, string, string) bool {
	return true
}

func Run(args []string) error {
	cmd := newRootCmd(os.Stdout)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "purge-report",
		Short: "Rebuild the recent post history from the database and report what a purge would delete",
		RunE: func(command *cobra.Command, args []string) error {
			return reportCmdF(command.Context(), out, opts)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.driver, "driver", model.DatabaseDriverPostgres, "database driver")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "data source name, defaults to $"+dsnEnv)
	cmd.Flags().StringVar(&opts.user, "user", "", "id of the user whose posts would be purged")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "only the most recent posts, 0 means all")
	cmd.Flags().StringVar(&opts.tuning, "tuning", "", "path of a YAML tuning file")
	cmd.Flags().StringSliceVar(&opts.channels, "channel", nil, "channel ids to scan, defaults to every channel")
	cmd.Flags().BoolVar(&opts.noThrottle, "no-throttle", false, "skip the delays between history pages and channels")

	return cmd
}

func reportCmdF(ctx context.Context, out io.Writer, opts *reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	_ = godotenv.Load(".env")

	if opts.dsn == "" {
		opts.dsn = os.Getenv(dsnEnv)
	}
	if opts.dsn == "" {
		return ErrNoDSN
	}
	if opts.user == "" {
		return ErrNoUser
	}
	if opts.driver != model.DatabaseDriverPostgres {
		return fmt.Errorf("%w driver:%s", ErrNoDriver, opts.driver)
	}

	settings, err := loadSettings(opts.tuning)
	if err != nil {
		return err
	}
	if opts.noThrottle {
		settings.BatchDelay = 0
		settings.ChannelDelay = 0
		settings.RateLimitDelay = 0
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		return errors.Wrap(err, "failed to create logger")
	}
	defer func() { _ = zl.Sync() }()
	logger := zl.Sugar()

	db, err := sqlx.Open(opts.driver, opts.dsn)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer db.Close()

	store := sqlstore.NewPostStore(logger, sqlstore.NewFromDB(db, logger))

	channels := opts.channels
	if len(channels) == 0 {
		types := []model.ChannelType{model.ChannelTypeOpen, model.ChannelTypePrivate}
		if settings.IncludeDirectChannels {
			types = append(types, model.ChannelTypeDirect, model.ChannelTypeGroup)
		}
		channels, err = store.ListChannelIDs(ctx, types)
		if err != nil {
			return err
		}
	}

	res := buildReport(ctx, store, channels, settings, opts, logger, time.Now())

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func loadSettings(path string) (app.Settings, error) {
	if path == "" {
		return app.DefaultSettings(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return app.Settings{}, errors.Wrapf(err, "failed to read tuning file %s", path)
	}
	return app.ParseSettings(string(b))
}

func buildReport(ctx context.Context, source app.HistorySource, channels []string, settings app.Settings, opts *reportOptions, logger *zap.SugaredLogger, now time.Time) report {
	tracker := app.NewTracker(settings.RetentionWindow)

	var r report
	r.Backfill = app.NewBackfill(source, tracker, settings, logger, nil).Run(ctx, channels, now)
	r.Tracked = tracker.Stats()

	purge := app.NewPurgeService(tracker, dryRunDeleter{}, allowAll{}, settings, logger, nil)
	r.Purge = purge.Purge(ctx, app.PurgeRequest{
		ActorID: "purge-report",
		OwnerID: strings.TrimPrefix(opts.user, "@"),
		Limit:   opts.limit,
	})

	return r
}

func main() {
	if err := Run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
