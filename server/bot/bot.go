package bot

import (
	"fmt"

	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
)

// Logger interface - a logging system that will tee logs to a DM channel.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// Poster interface - a small subset of the bot's posting abilities the command layer needs.
type Poster interface {
	// EphemeralPost sends an ephemeral post to a user as the bot.
	EphemeralPost(userID, channelID string, post *model.Post)
}

// Bot stores the information for the plugin bot, and implements the Poster and Logger interfaces.
type Bot struct {
	pluginAPI *pluginapi.Client
	botUserID string
}

// New creates a new bot poster/logger.
func New(api *pluginapi.Client, botUserID string) *Bot {
	return &Bot{
		pluginAPI: api,
		botUserID: botUserID,
	}
}

// UserID returns the bot's user id.
func (b *Bot) UserID() string {
	return b.botUserID
}

// EphemeralPost sends an ephemeral post to a user as the bot.
func (b *Bot) EphemeralPost(userID, channelID string, post *model.Post) {
	post.UserId = b.botUserID
	post.ChannelId = channelID

	b.pluginAPI.Post.SendEphemeralPost(userID, post)
}

func (b *Bot) Debugf(format string, args ...interface{}) {
	b.pluginAPI.Log.Debug(fmt.Sprintf(format, args...))
}

func (b *Bot) Infof(format string, args ...interface{}) {
	b.pluginAPI.Log.Info(fmt.Sprintf(format, args...))
}

func (b *Bot) Warnf(format string, args ...interface{}) {
	b.pluginAPI.Log.Warn(fmt.Sprintf(format, args...))
}

func (b *Bot) Errorf(format string, args ...interface{}) {
	b.pluginAPI.Log.Error(fmt.Sprintf(format, args...))
}
