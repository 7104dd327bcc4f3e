package app

import (
	"context"
	"net/http"

	"github.com/ericzzh/mattermost-plugin-purge/server/bot"
	pluginapi "github.com/mattermost/mattermost-plugin-api"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"
)

// PostDeleter deletes posts through the plugin API one id at a time, the server has no
// bulk delete. Every id that is gone afterwards is passed to echo so the tracker can
// forget it.
type PostDeleter struct {
	pluginAPI *pluginapi.Client
	echo      func(ids []string)
	logger    bot.Logger
}

func NewPostDeleter(api *pluginapi.Client, echo func(ids []string), logger bot.Logger) *PostDeleter {
	if echo == nil {
		echo = func([]string) {}
	}
	return &PostDeleter{
		pluginAPI: api,
		echo:      echo,
		logger:    logger,
	}
}

func (d *PostDeleter) DeleteBatch(ctx context.Context, channelID string, ids []string) (int, error) {
	if len(ids) > MaxBatch {
		return 0, &DeleteError{Kind: KindUnsupported, ChannelID: channelID,
			Err: errors.Errorf("batch of %d posts exceeds %d", len(ids), MaxBatch)}
	}

	var gone []string
	deleted := 0
	missing := 0
	defer func() {
		if len(gone) > 0 {
			d.echo(gone)
		}
	}()

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return deleted, &DeleteError{Kind: KindTransient, ChannelID: channelID, Err: err}
		}

		err := d.pluginAPI.Post.DeletePost(id)
		if err == nil {
			deleted++
			gone = append(gone, id)
			continue
		}

		if err == pluginapi.ErrNotFound {
			missing++
			gone = append(gone, id)
			continue
		}

		return deleted, &DeleteError{Kind: classifyAppErr(err), ChannelID: channelID,
			Err: errors.Wrapf(err, "failed to delete post %s", id)}
	}

	if missing > 0 {
		d.logger.Debugf("Purge: %d posts in channel %s were already deleted.", missing, channelID)
		return deleted, &DeleteError{Kind: KindAlreadyGone, ChannelID: channelID,
			Err: errors.Wrapf(ErrAlreadyGone, "%d posts", missing)}
	}

	return deleted, nil
}

func classifyAppErr(err error) ErrorKind {
	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		return KindTransient
	}
	switch appErr.StatusCode {
	case http.StatusForbidden, http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusBadRequest, http.StatusNotImplemented:
		return KindUnsupported
	case http.StatusNotFound:
		return KindAlreadyGone
	}
	return KindTransient
}

// ChannelGate allows deletions in live channels where the actor may delete posts of
// other users.
type ChannelGate struct {
	pluginAPI     *pluginapi.Client
	includeDirect bool
	logger        bot.Logger
}

func NewChannelGate(api *pluginapi.Client, includeDirect bool, logger bot.Logger) *ChannelGate {
	return &ChannelGate{
		pluginAPI:     api,
		includeDirect: includeDirect,
		logger:        logger,
	}
}

func (g *ChannelGate) CanDelete(ctx context.Context, actorID, channelID string) bool {
	if ctx.Err() != nil {
		return false
	}

	ch, err := g.pluginAPI.Channel.Get(channelID)
	if err != nil {
		g.logger.Warnf("Purge: failed to get channel %s. %v", channelID, err)
		return false
	}

	if ch.DeleteAt != 0 {
		return false
	}

	switch ch.Type {
	case model.ChannelTypeOpen, model.ChannelTypePrivate:
	case model.ChannelTypeDirect, model.ChannelTypeGroup:
		if !g.includeDirect {
			return false
		}
	default:
		return false
	}

	return g.pluginAPI.User.HasPermissionToChannel(actorID, channelID, model.PermissionDeleteOthersPosts)
}
