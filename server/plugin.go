package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/plugin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ericzzh/mattermost-plugin-purge/server/api"
	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
	"github.com/ericzzh/mattermost-plugin-purge/server/command"
	"github.com/ericzzh/mattermost-plugin-purge/server/config"
	"github.com/ericzzh/mattermost-plugin-purge/server/metrics"
	"github.com/ericzzh/mattermost-plugin-purge/server/sqlstore"
)

// historyStore is what the startup backfill reads from.
type historyStore interface {
	app.HistorySource
	ListChannelIDs(ctx context.Context, types []model.ChannelType) ([]string, error)
}

// Plugin implements the interface expected by the Mattermost server to communicate between the server and plugin processes.
type Plugin struct {
	plugin.MattermostPlugin
	config    *config.ServiceImpl
	pluginAPI *pluginapi.Client
	bot       *bot.Bot

	settings    app.Settings
	tracker     *app.Tracker
	feed        *app.EventFeed
	purge       app.PurgeService
	permissions command.Permissions
	handler     *api.Handler
	sweeper     *app.Sweeper

	// cancel stops the backfill and every running purge.
	cancel     context.CancelFunc
	ctx        context.Context
	background sync.WaitGroup
}

// ServeHTTP serves the stats and metrics endpoints.
func (p *Plugin) ServeHTTP(c *plugin.Context, w http.ResponseWriter, r *http.Request) {
	if p.handler == nil {
		http.Error(w, "plugin not active", http.StatusServiceUnavailable)
		return
	}
	p.handler.ServeHTTP(w, r)
}

// See https://developers.mattermost.com/extend/plugins/server/reference/
func (p *Plugin) OnActivate() error {
	pluginAPIClient := pluginapi.NewClient(p.API, p.Driver)
	p.pluginAPI = pluginAPIClient

	p.config = config.NewConfigService(pluginAPIClient, manifest)

	botID, ensureBotError := pluginAPIClient.Bot.EnsureBot(&model.Bot{
		Username:    "purge",
		DisplayName: "Purge Plugin Bot",
		Description: "A bot account created by the purge plugin.",
	})
	if ensureBotError != nil {
		return errors.Wrap(ensureBotError, "failed to ensure purge bot.")
	}

	err := p.config.UpdateConfiguration(func(c *config.Configuration) {
		c.BotUserID = botID
	})
	if err != nil {
		return errors.Wrapf(err, "failed save bot to config")
	}

	p.bot = bot.New(pluginAPIClient, p.config.GetConfiguration().BotUserID)

	settings, err := app.ParseSettings(p.config.GetConfiguration().Tuning)
	if err != nil {
		return errors.Wrapf(err, "failed parsing tuning settings")
	}

	sqlStore, err := sqlstore.New(sqlstore.NewClient(pluginAPIClient), p.bot)
	if err != nil {
		return errors.Wrapf(err, "failed creating the SQL store")
	}

	if err = command.RegisterCommands(p.API.RegisterCommand); err != nil {
		return errors.Wrapf(err, "failed register commands")
	}

	p.start(settings, sqlstore.NewPostStore(p.bot, sqlStore))

	return nil
}

// start builds the tracker and its collaborators, then launches the sweeper and the backfill.
func (p *Plugin) start(settings app.Settings, store historyStore) {
	p.settings = settings
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.tracker = app.NewTracker(settings.RetentionWindow)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, func() (int, int) {
		st := p.tracker.Stats()
		return st.Owners, st.Events
	})

	p.feed = app.NewEventFeed(p.tracker, p.bot, m)
	deleter := app.NewPostDeleter(p.pluginAPI, p.feed.EventsBulkDeleted, p.bot)
	gate := app.NewChannelGate(p.pluginAPI, settings.IncludeDirectChannels, p.bot)
	p.purge = app.NewPurgeService(p.tracker, deleter, gate, settings, p.bot, m)

	perms := command.NewRolePermissions(p.pluginAPI, p.config)
	p.permissions = perms
	p.handler = api.NewHandler(p.tracker, settings.RetentionWindow, reg, perms.IsAdmin, p.bot)

	p.sweeper = app.NewSweeper(p.tracker, settings.SweepInterval, p.bot, m)
	go p.sweeper.Run()

	backfill := app.NewBackfill(store, p.tracker, settings, p.bot, m)
	p.goBackground(func() {
		ids, err := store.ListChannelIDs(p.ctx, channelTypes(settings))
		if err != nil {
			p.bot.Errorf("Purge: history backfill could not list channels. %v", err)
			return
		}
		backfill.Run(p.ctx, ids, time.Now())
	})
}

// goBackground runs f on a goroutine that OnDeactivate waits for.
func (p *Plugin) goBackground(f func()) {
	p.background.Add(1)
	go func() {
		defer p.background.Done()
		f()
	}()
}

func channelTypes(settings app.Settings) []model.ChannelType {
	types := []model.ChannelType{model.ChannelTypeOpen, model.ChannelTypePrivate}
	if settings.IncludeDirectChannels {
		types = append(types, model.ChannelTypeDirect, model.ChannelTypeGroup)
	}
	return types
}

// OnDeactivate stops background work and waits for it.
func (p *Plugin) OnDeactivate() error {
	if p.cancel != nil {
		p.cancel()
	}
	if p.sweeper != nil {
		p.sweeper.Stop()
	}
	p.background.Wait()
	return nil
}

// MessageHasBeenPosted tracks posts of real users.
func (p *Plugin) MessageHasBeenPosted(c *plugin.Context, post *model.Post) {
	if p.feed == nil || post == nil {
		return
	}
	if post.IsSystemMessage() ||
		post.GetProp("from_bot") == "true" ||
		post.GetProp("from_webhook") == "true" ||
		post.UserId == p.bot.UserID() {
		return
	}

	var createdAt time.Time
	if post.CreateAt > 0 {
		createdAt = model.GetTimeForMillis(post.CreateAt)
	}
	p.feed.EventCreated(post.UserId, post.Id, post.ChannelId, createdAt)
}

// MessageHasBeenUpdated forgets posts once they are deleted.
func (p *Plugin) MessageHasBeenUpdated(c *plugin.Context, newPost, oldPost *model.Post) {
	if p.feed == nil || newPost == nil {
		return
	}
	if newPost.DeleteAt != 0 {
		p.feed.EventDeleted(newPost.Id)
	}
}

func (p *Plugin) ExecuteCommand(c *plugin.Context, args *model.CommandArgs) (*model.CommandResponse, *model.AppError) {
	runner := command.NewCommandRunner(c, args, p.pluginAPI, p.bot, p.bot, command.Services{
		Context:     p.ctx,
		Purge:       p.purge,
		Stats:       p.tracker,
		Permissions: p.permissions,
		Window:      p.settings.RetentionWindow,
		Go:          p.goBackground,
	})

	if err := runner.Execute(); err != nil {
		return nil, model.NewAppError("Purge.ExecuteCommand", "app.command.execute.error", nil, err.Error(), http.StatusInternalServerError)
	}

	return &model.CommandResponse{}, nil
}

// OnConfigurationChange handles any change in the configuration. Tuning changes take effect on
// the next activation, an invalid document is reported right away.
func (p *Plugin) OnConfigurationChange() error {
	if p.config == nil {
		return nil
	}

	if err := p.config.OnConfigurationChange(); err != nil {
		return err
	}

	if _, err := app.ParseSettings(p.config.GetConfiguration().Tuning); err != nil {
		return errors.Wrapf(err, "invalid tuning settings")
	}

	return nil
}
