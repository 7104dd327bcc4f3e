package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/plugin"
	"github.com/pkg/errors"

	"github.com/ericzzh/mattermost-plugin-purge/server/app"
	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
)

const trigger = "purge"

const helpText = "######  Purge Plugin - Slash Command Help\n" +
	"* `/purge @username [amount]` - Delete the posts of a user from the tracked recent history. " +
	"`amount` keeps only the most recent posts.\n" +
	"* `/purge stats` - Show how many posts are currently tracked.\n" +
	"* `/purge help` - Show this help.\n"

// Register is a function that allows the runner to register commands with the mattermost server.
type Register func(*model.Command) error

// RegisterCommands should be called by the plugin to register all necessary commands
func RegisterCommands(registerFunc Register) error {
	return registerFunc(getCommand())
}

func getCommand() *model.Command {
	return &model.Command{
		Trigger:          trigger,
		DisplayName:      "Purge",
		Description:      "Delete the recent posts of a user in every channel",
		AutoComplete:     true,
		AutoCompleteDesc: "Available commands: @username, stats, help",
		AutoCompleteHint: "[@username] [amount]",
		AutocompleteData: getAutocompleteData(),
	}
}

func getAutocompleteData() *model.AutocompleteData {
	command := model.NewAutocompleteData(trigger, "[@username] [amount]",
		"Delete the recent posts of a user. Available commands: stats, help")

	stats := model.NewAutocompleteData("stats", "", "Show tracker statistics")
	command.AddCommand(stats)

	help := model.NewAutocompleteData("help", "", "Show help")
	command.AddCommand(help)

	return command
}

// Services are the collaborators a Runner works with.
type Services struct {
	// Context bounds purges started from the command, it is cancelled on plugin deactivation.
	Context     context.Context
	Purge       app.PurgeService
	Stats       app.StatsProvider
	Permissions Permissions
	Window      time.Duration
	// Go runs a purge off the command hook so the reply is not held up by throttling.
	// It defaults to a bare goroutine.
	Go func(f func())
}

// Runner handles commands.
type Runner struct {
	context   *plugin.Context
	args      *model.CommandArgs
	pluginAPI *pluginapi.Client
	logger    bot.Logger
	poster    bot.Poster
	services  Services
}

// NewCommandRunner creates a command runner.
func NewCommandRunner(ctx *plugin.Context,
	args *model.CommandArgs,
	api *pluginapi.Client,
	logger bot.Logger,
	poster bot.Poster,
	services Services,
) *Runner {
	if services.Context == nil {
		services.Context = context.Background()
	}
	if services.Go == nil {
		services.Go = func(f func()) { go f() }
	}
	return &Runner{
		context:   ctx,
		args:      args,
		pluginAPI: api,
		logger:    logger,
		poster:    poster,
		services:  services,
	}
}

func (r *Runner) isValid() error {
	if r.context == nil || r.args == nil || r.pluginAPI == nil {
		return errors.New("invalid arguments to command.Runner")
	}
	if r.services.Purge == nil || r.services.Stats == nil || r.services.Permissions == nil {
		return errors.New("missing services for command.Runner")
	}
	return nil
}

// Execute should be called by the plugin when a command invocation is received from the Mattermost server.
func (r *Runner) Execute() error {
	if err := r.isValid(); err != nil {
		return err
	}

	split := strings.Fields(r.args.Command)
	if len(split) == 0 || split[0] != "/"+trigger {
		return nil
	}

	cmd := ""
	parameters := []string{}
	if len(split) > 1 {
		cmd = split[1]
	}
	if len(split) > 2 {
		parameters = split[2:]
	}

	switch {
	case cmd == "stats":
		r.actionStats()
	case strings.HasPrefix(cmd, "@"):
		r.actionPurge(strings.TrimPrefix(cmd, "@"), parameters)
	default:
		r.postCommandResponse(helpText)
	}

	return nil
}

func (r *Runner) postCommandResponse(text string) {
	post := &model.Post{
		Message: text,
	}
	r.poster.EphemeralPost(r.args.UserId, r.args.ChannelId, post)
}

func (r *Runner) actionStats() {
	if !r.services.Permissions.CanPurge(r.args.UserId) {
		r.postCommandResponse("You don't have permission to run this command.")
		return
	}

	st := r.services.Stats.Stats()
	r.postCommandResponse(fmt.Sprintf("Tracking %d posts from %d users in the last %s.",
		st.Events, st.Owners, formatWindow(r.services.Window)))
}

func (r *Runner) actionPurge(username string, args []string) {
	if username == "" {
		r.postCommandResponse("Please specify a user, for example `/purge @username`.")
		return
	}

	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			r.postCommandResponse(fmt.Sprintf("Amount must be a positive number, got `%s`.", args[0]))
			return
		}
		limit = n
	}

	if !r.services.Permissions.CanPurge(r.args.UserId) {
		r.postCommandResponse("You don't have permission to run this command.")
		return
	}

	target, err := r.pluginAPI.User.GetByUsername(username)
	if err != nil {
		if err == pluginapi.ErrNotFound {
			r.postCommandResponse(fmt.Sprintf("User @%s not found.", username))
			return
		}
		txt := fmt.Sprintf("Can't get user @%s. %v", username, err)
		r.logger.Errorf("Purge: %s", txt)
		r.postCommandResponse(txt)
		return
	}

	req := app.PurgeRequest{
		ActorID: r.args.UserId,
		OwnerID: target.Id,
		Limit:   limit,
	}

	r.logger.Infof("Purge: user %s requested a purge of @%s. limit:%d", r.args.UserId, username, limit)
	r.postCommandResponse(fmt.Sprintf("Purging the posts of @%s. A summary is posted when it is done.", username))

	ctx := r.services.Context
	r.services.Go(func() {
		res := r.services.Purge.Purge(ctx, req)
		r.postCommandResponse(summary(username, res, r.services.Window))
	})
}

func summary(username string, res app.PurgeResult, window time.Duration) string {
	if res.ChannelsTotal == 0 {
		return fmt.Sprintf("No active posts found for @%s in the last %s.", username, formatWindow(window))
	}
	return fmt.Sprintf("Purge complete for @%s. %d posts deleted. %d/%d channels processed.",
		username, res.TotalDeleted, res.ChannelsProcessed, res.ChannelsTotal)
}

func formatWindow(window time.Duration) string {
	if window <= 0 {
		window = app.DefaultRetentionWindow
	}
	if window%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(window.Hours()))
	}
	return window.String()
}
