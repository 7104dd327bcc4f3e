package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
)

// PostStore pages through channel history for the startup backfill.
type PostStore struct {
	log          bot.Logger
	store        *SQLStore
	queryBuilder sq.StatementBuilderType
}

var _ app.HistorySource = (*PostStore)(nil)

func NewPostStore(log bot.Logger, sqlStore *SQLStore) *PostStore {
	return &PostStore{
		log:          log,
		store:        sqlStore,
		queryBuilder: sqlStore.builder,
	}
}

type postRow struct {
	ID       string `db:"id"`
	UserID   string `db:"userid"`
	CreateAt int64  `db:"createat"`
}

// FetchPage returns up to limit live user posts of channelID older than beforeID, newest first.
// System messages are left out since they have no author to purge.
func (s *PostStore) FetchPage(ctx context.Context, channelID, beforeID string, limit int) ([]app.HistoryPost, error) {
	where := sq.And{
		sq.Eq{"ChannelId": channelID},
		sq.Eq{"DeleteAt": 0},
		sq.NotLike{"Type": model.PostSystemMessagePrefix + "%"},
	}

	if beforeID != "" {
		// posts sharing the cursor's CreateAt are ordered by Id
		cursor := "(SELECT CreateAt FROM Posts WHERE Id = ?)"
		where = append(where, sq.Or{
			sq.Expr("CreateAt < "+cursor, beforeID),
			sq.And{
				sq.Expr("CreateAt = "+cursor, beforeID),
				sq.Lt{"Id": beforeID},
			},
		})
	}

	query := s.queryBuilder.
		Select("Id AS id", "UserId AS userid", "CreateAt AS createat").
		From("Posts").
		Where(where).
		OrderBy("CreateAt DESC", "Id DESC").
		Limit(uint64(limit))

	var rows []postRow
	if err := s.store.selectBuilder(ctx, s.store.db, &rows, query); err != nil {
		return nil, errors.Wrapf(err, "failed to get posts of channel %s", channelID)
	}

	posts := make([]app.HistoryPost, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, app.HistoryPost{
			ID:         r.ID,
			OwnerID:    r.UserID,
			ObservedAt: model.GetTimeForMillis(r.CreateAt),
		})
	}

	return posts, nil
}

// ListChannelIDs returns the live channels of the given types, oldest first.
func (s *PostStore) ListChannelIDs(ctx context.Context, types []model.ChannelType) ([]string, error) {
	query := s.queryBuilder.
		Select("Id").
		From("Channels").
		Where(sq.And{
			sq.Eq{"DeleteAt": 0},
			sq.Eq{"Type": types},
		}).
		OrderBy("CreateAt ASC", "Id ASC")

	var ids []string
	if err := s.store.selectBuilder(ctx, s.store.db, &ids, query); err != nil {
		return nil, errors.Wrap(err, "failed to list channels")
	}

	return ids, nil
}
