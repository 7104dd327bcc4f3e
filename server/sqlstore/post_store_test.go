package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	gomock "github.com/golang/mock/gomock"
	"github.com/jmoiron/sqlx"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	mock_bot "github.com/ericzzh/mattermost-plugin-purge/server/bot/mocks"
	"github.com/ericzzh/mattermost-plugin-purge/server/sqlstore"
)

func setupStore(t *testing.T, driver string) (*sqlstore.PostStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctrl := gomock.NewController(t)
	logger := mock_bot.NewMockLogger(ctrl)

	store := sqlstore.NewFromDB(sqlx.NewDb(db, driver), logger)
	return sqlstore.NewPostStore(logger, store), mock
}

func TestFetchPageFirstPage(t *testing.T) {
	ps, mock := setupStore(t, model.DatabaseDriverPostgres)

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "userid", "createat"}).
		AddRow("p2", "u1", model.GetMillisForTime(created)).
		AddRow("p1", "u2", model.GetMillisForTime(created.Add(-time.Minute)))

	mock.ExpectQuery(`FROM Posts WHERE \(ChannelId = \$1 AND DeleteAt = \$2 AND Type NOT LIKE \$3\) ORDER BY CreateAt DESC, Id DESC LIMIT 50`).
		WithArgs("ch1", 0, "system_%").
		WillReturnRows(rows)

	posts, err := ps.FetchPage(context.Background(), "ch1", "", 50)

	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "p2", posts[0].ID)
	assert.Equal(t, "u1", posts[0].OwnerID)
	assert.True(t, created.Equal(posts[0].ObservedAt))
	assert.Equal(t, "u2", posts[1].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPageBeforeCursor(t *testing.T) {
	ps, mock := setupStore(t, "mysql")

	mock.ExpectQuery(`CreateAt < \(SELECT CreateAt FROM Posts WHERE Id = \?\) OR \(CreateAt = \(SELECT CreateAt FROM Posts WHERE Id = \?\) AND Id < \?\)`).
		WithArgs("ch1", 0, "system_%", "p1", "p1", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "userid", "createat"}))

	posts, err := ps.FetchPage(context.Background(), "ch1", "p1", 10)

	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPageError(t *testing.T) {
	ps, mock := setupStore(t, model.DatabaseDriverPostgres)

	mock.ExpectQuery(`FROM Posts`).WillReturnError(errors.New("connection reset"))

	_, err := ps.FetchPage(context.Background(), "ch1", "", 50)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ch1")
}

func TestFetchPageSatisfiesHistorySource(t *testing.T) {
	ps, _ := setupStore(t, model.DatabaseDriverPostgres)

	var src app.HistorySource = ps
	assert.NotNil(t, src)
}

func TestListChannelIDs(t *testing.T) {
	ps, mock := setupStore(t, model.DatabaseDriverPostgres)

	mock.ExpectQuery(`SELECT Id FROM Channels WHERE \(DeleteAt = \$1 AND Type IN \(\$2,\$3\)\) ORDER BY CreateAt ASC, Id ASC`).
		WithArgs(0, "O", "P").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ch1").AddRow("ch2"))

	ids, err := ps.ListChannelIDs(context.Background(), []model.ChannelType{model.ChannelTypeOpen, model.ChannelTypePrivate})

	require.NoError(t, err)
	assert.Equal(t, []string{"ch1", "ch2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
