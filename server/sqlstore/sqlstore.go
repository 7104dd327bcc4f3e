package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"

	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
)

// SQLStore reads the Mattermost database directly. It never writes, deletions go through
// the plugin API so the server keeps its caches and websocket clients in sync.
type SQLStore struct {
	log     bot.Logger
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

// New constructs a new instance of SQLStore on the server's master database.
func New(pluginAPI PluginAPIClient, log bot.Logger) (*SQLStore, error) {
	origDB, err := pluginAPI.Store.GetMasterDB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get master db")
	}

	db := sqlx.NewDb(origDB, pluginAPI.Store.DriverName())

	return NewFromDB(db, log), nil
}

// NewFromDB wraps an already opened database.
func NewFromDB(db *sqlx.DB, log bot.Logger) *SQLStore {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if db.DriverName() == model.DatabaseDriverPostgres {
		builder = builder.PlaceholderFormat(sq.Dollar)
	}

	return &SQLStore{
		log:     log,
		db:      db,
		builder: builder,
	}
}

// selectBuilder runs a built query and scans every row into dest.
func (sqlStore *SQLStore) selectBuilder(ctx context.Context, q sqlx.QueryerContext, dest interface{}, b sq.Sqlizer) error {
	sqlString, args, err := b.ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build sql")
	}

	return sqlx.SelectContext(ctx, q, dest, sqlString, args...)
}
