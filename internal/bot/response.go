package bot

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"thermometer/internal/assets"
)

// Replier answers a command wherever it came from
type Replier interface {
	assets.Replier
	Reply(ctx context.Context, content string, embeds ...*discordgo.MessageEmbed) error
}

// Replies never ping anybody, info embeds are full of mentions
var noMentions = &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}}

// Replies to a message sent in a channel
type MessageReplier struct {
	session *discordgo.Session
	message *discordgo.Message
}

func NewMessageReplier(session *discordgo.Session, message *discordgo.Message) *MessageReplier {
	return &MessageReplier{session, message}
}

func (replier *MessageReplier) Reply(ctx context.Context, content string, embeds ...*discordgo.MessageEmbed) error {
	_, err := replier.send(ctx, content, embeds, nil)
	return err
}

func (replier *MessageReplier) Send(ctx context.Context, embeds []*discordgo.MessageEmbed, files []*discordgo.File) (*discordgo.Message, error) {
	return replier.send(ctx, "", embeds, files)
}

func (replier *MessageReplier) send(ctx context.Context, content string, embeds []*discordgo.MessageEmbed, files []*discordgo.File) (*discordgo.Message, error) {
	return replier.session.ChannelMessageSendComplex(replier.message.ChannelID, &discordgo.MessageSend{
		Content:         content,
		Embeds:          embeds,
		Files:           files,
		Reference:       replier.message.Reference(),
		AllowedMentions: noMentions,
	}, discordgo.WithContext(ctx))
}

// Replace the embeds and the attachments of a reply
func (replier *MessageReplier) Edit(ctx context.Context, message *discordgo.Message, embeds []*discordgo.MessageEmbed, files []*discordgo.File) error {
	edit := discordgo.NewMessageEdit(message.ChannelID, message.ID).SetEmbeds(embeds)
	edit.Files = files
	edit.Attachments = &[]*discordgo.MessageAttachment{}
	edit.AllowedMentions = noMentions
	_, err := replier.session.ChannelMessageEditComplex(edit, discordgo.WithContext(ctx))
	return err
}

// Replies to an application command. The interaction is acknowledged
// first, so the reply itself is an edit of the original response
type InteractionReplier struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
	ephemeral   bool
}

func NewInteractionReplier(session *discordgo.Session, interaction *discordgo.Interaction, ephemeral bool) *InteractionReplier {
	return &InteractionReplier{session, interaction, ephemeral}
}

// Acknowledge the interaction, Discord only gives us 3 seconds for it
func (replier *InteractionReplier) Defer(ctx context.Context) error {
	data := &discordgo.InteractionResponseData{}
	if replier.ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return replier.session.InteractionRespond(replier.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	}, discordgo.WithContext(ctx))
}

func (replier *InteractionReplier) Reply(ctx context.Context, content string, embeds ...*discordgo.MessageEmbed) error {
	_, err := replier.session.InteractionResponseEdit(replier.interaction, &discordgo.WebhookEdit{
		Content:         &content,
		Embeds:          &embeds,
		AllowedMentions: noMentions,
	}, discordgo.WithContext(ctx))
	return err
}

func (replier *InteractionReplier) Send(ctx context.Context, embeds []*discordgo.MessageEmbed, files []*discordgo.File) (*discordgo.Message, error) {
	return replier.session.InteractionResponseEdit(replier.interaction, &discordgo.WebhookEdit{
		Embeds:          &embeds,
		Files:           files,
		AllowedMentions: noMentions,
	}, discordgo.WithContext(ctx))
}

func (replier *InteractionReplier) Edit(ctx context.Context, message *discordgo.Message, embeds []*discordgo.MessageEmbed, files []*discordgo.File) error {
	_, err := replier.session.InteractionResponseEdit(replier.interaction, &discordgo.WebhookEdit{
		Embeds:      &embeds,
		Files:       files,
		Attachments: &[]*discordgo.MessageAttachment{},
	}, discordgo.WithContext(ctx))
	return err
}
