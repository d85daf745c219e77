package poster

import (
	"fmt"

	"github.com/mattermost/mattermost/server/public/model"
	"github.com/mattermost/mattermost/server/public/plugin"

	"github.com/mattermost/mattermost-plugin-orefalerts/server/backend"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/formatter"
	"github.com/mattermost/mattermost-plugin-orefalerts/server/hashtag"
)

// Poster posts alerts to Mattermost channels.
// This struct is stateless - it only holds immutable configuration (API and botID).
type Poster struct {
	api   plugin.API
	botID string
}

// New creates a new Poster instance.
func New(api plugin.API, botID string) *Poster {
	return &Poster{
		api:   api,
		botID: botID,
	}
}

// PostAlert posts a formatted alert to a Mattermost channel, followed by a
// threaded reply carrying the alert's hashtags.
//
// Returns an error if either post fails. A failed reply leaves the main post in place.
func (p *Poster) PostAlert(alert backend.Alert, channelID string) error {
	attachment := formatter.FormatAlert(alert)

	post := &model.Post{
		UserId:    p.botID,
		ChannelId: channelID,
		Type:      model.PostTypeSlackAttachment,
		Props:     model.StringInterface{},
	}
	model.ParseSlackAttachment(post, []*model.SlackAttachment{attachment})

	created, appErr := p.api.CreatePost(post)
	if appErr != nil {
		return fmt.Errorf("failed to create alert post: %w", appErr)
	}

	reply := &model.Post{
		UserId:    p.botID,
		ChannelId: channelID,
		RootId:    created.Id,
		Message:   hashtag.Generate(alert),
	}

	if _, appErr := p.api.CreatePost(reply); appErr != nil {
		return fmt.Errorf("failed to create hashtag reply: %w", appErr)
	}

	return nil
}
