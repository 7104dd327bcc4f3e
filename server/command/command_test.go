package command_test

import (
	"net/http"
	"testing"
	"time"

	gomock "github.com/golang/mock/gomock"
	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/plugin"
	"github.com/mattermost/mattermost-server/v6/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	mock_app "github.com/ericzzh/mattermost-plugin-purge/server/app/mocks"
	mock_bot "github.com/ericzzh/mattermost-plugin-purge/server/bot/mocks"
	"github.com/ericzzh/mattermost-plugin-purge/server/command"
	mock_command "github.com/ericzzh/mattermost-plugin-purge/server/command/mocks"
)

type fixture struct {
	pluginAPI   *plugintest.API
	purge       *mock_app.MockPurgeService
	permissions *mock_command.MockPermissions
	tracker     *app.Tracker
	messages    []string
	runner      func(cmd string) *command.Runner
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)

	f := &fixture{
		pluginAPI:   &plugintest.API{},
		purge:       mock_app.NewMockPurgeService(ctrl),
		permissions: mock_command.NewMockPermissions(ctrl),
		tracker:     app.NewTracker(48 * time.Hour),
	}

	logger := mock_bot.NewMockLogger(ctrl)
	logger.EXPECT().Infof(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Errorf(gomock.Any(), gomock.Any()).AnyTimes()

	poster := mock_bot.NewMockPoster(ctrl)
	poster.EXPECT().EphemeralPost("admin", "ch", gomock.Any()).Do(
		func(_, _ string, post *model.Post) {
			f.messages = append(f.messages, post.Message)
		}).AnyTimes()

	client := pluginapi.NewClient(f.pluginAPI, &plugintest.Driver{})
	f.runner = func(cmd string) *command.Runner {
		args := &model.CommandArgs{Command: cmd, UserId: "admin", ChannelId: "ch"}
		return command.NewCommandRunner(&plugin.Context{}, args, client, logger, poster, command.Services{
			Purge:       f.purge,
			Stats:       f.tracker,
			Permissions: f.permissions,
			Window:      48 * time.Hour,
			Go:          func(f func()) { f() },
		})
	}
	return f
}

func (f *fixture) last() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

func TestHelp(t *testing.T) {
	for _, cmd := range []string{"/purge", "/purge help", "/purge unknown"} {
		f := newFixture(t)
		require.NoError(t, f.runner(cmd).Execute())
		assert.Contains(t, f.last(), "Slash Command Help")
	}
}

func TestOtherTriggerIgnored(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.runner("/prune run").Execute())
	assert.Empty(t, f.messages)
}

func TestInvalidRunner(t *testing.T) {
	r := command.NewCommandRunner(nil, nil, nil, nil, nil, command.Services{})
	assert.Error(t, r.Execute())
}

func TestPurgeUser(t *testing.T) {
	f := newFixture(t)
	f.permissions.EXPECT().CanPurge("admin").Return(true)
	f.pluginAPI.On("GetUserByUsername", "spammer").Return(&model.User{Id: "u1", Username: "spammer"}, nil)
	f.purge.EXPECT().Purge(gomock.Any(), app.PurgeRequest{ActorID: "admin", OwnerID: "u1", Limit: 30}).
		Return(app.PurgeResult{TotalDeleted: 25, ChannelsProcessed: 2, ChannelsTotal: 3})

	require.NoError(t, f.runner("/purge @spammer 30").Execute())

	require.Len(t, f.messages, 2)
	assert.Contains(t, f.messages[0], "Purging the posts of @spammer")
	assert.Equal(t, "Purge complete for @spammer. 25 posts deleted. 2/3 channels processed.", f.messages[1])
}

func TestPurgeUserNothingTracked(t *testing.T) {
	f := newFixture(t)
	f.permissions.EXPECT().CanPurge("admin").Return(true)
	f.pluginAPI.On("GetUserByUsername", "quiet").Return(&model.User{Id: "u2", Username: "quiet"}, nil)
	f.purge.EXPECT().Purge(gomock.Any(), app.PurgeRequest{ActorID: "admin", OwnerID: "u2"}).
		Return(app.PurgeResult{Channels: app.ChannelsRes{}})

	require.NoError(t, f.runner("/purge @quiet").Execute())

	assert.Equal(t, "No active posts found for @quiet in the last 48 hours.", f.last())
}

func TestPurgeUserBadAmount(t *testing.T) {
	for _, amount := range []string{"0", "-3", "many"} {
		f := newFixture(t)
		require.NoError(t, f.runner("/purge @spammer "+amount).Execute())
		assert.Contains(t, f.last(), "Amount must be a positive number")
	}
}

func TestPurgeUserNoPermission(t *testing.T) {
	f := newFixture(t)
	f.permissions.EXPECT().CanPurge("admin").Return(false)

	require.NoError(t, f.runner("/purge @spammer").Execute())

	assert.Equal(t, "You don't have permission to run this command.", f.last())
}

func TestPurgeUserNotFound(t *testing.T) {
	f := newFixture(t)
	f.permissions.EXPECT().CanPurge("admin").Return(true)
	f.pluginAPI.On("GetUserByUsername", "ghost").
		Return(nil, model.NewAppError("GetUserByUsername", "not_found", nil, "", http.StatusNotFound))

	require.NoError(t, f.runner("/purge @ghost").Execute())

	assert.Equal(t, "User @ghost not found.", f.last())
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.permissions.EXPECT().CanPurge("admin").Return(true)
	f.tracker.Add("u1", "p1", "ch1", time.Now())
	f.tracker.Add("u2", "p2", "ch1", time.Now())
	f.tracker.Add("u2", "p3", "ch1", time.Now())

	require.NoError(t, f.runner("/purge stats").Execute())

	assert.Equal(t, "Tracking 3 posts from 2 users in the last 48 hours.", f.last())
}

func TestRegisterCommands(t *testing.T) {
	var registered *model.Command
	err := command.RegisterCommands(func(c *model.Command) error {
		registered = c
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "purge", registered.Trigger)
	assert.NoError(t, registered.AutocompleteData.IsValid())
}
