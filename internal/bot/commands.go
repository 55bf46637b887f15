package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"thermometer/internal/assets"
)

// Name of the message context menu action
const CONTEXT_MENU_ROLE_MENTIONS = "Who got mentioned"

// Discord does not accept more embeds in a single message
const MAX_EMBEDS = 10

var userOption = []*discordgo.ApplicationCommandOption{{
	Type:        discordgo.ApplicationCommandOptionUser,
	Name:        "user",
	Description: "The user to look up, yourself if not given",
	Required:    false,
}}

func subcommand(name string, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{Type: discordgo.ApplicationCommandOptionSubCommand, Name: name, Description: description}
}

// Application commands, registered with Discord on startup
var applicationCommands = []*discordgo.ApplicationCommand{
	{Name: "uptime", Description: "Returns how long the bot has been running."},
	{Name: "avatar", Description: "Gets a user's profile picture.", Options: userOption},
	{Name: "pfp", Description: "Gets a user's profile picture.", Options: userOption},
	{Name: "whois", Description: "Gets info about a user.", Options: userOption},
	{Name: "guild", Description: "Various guild related info", Options: []*discordgo.ApplicationCommandOption{
		subcommand("channels", "Get the guilds channels."),
		subcommand("emojis", "Get the guilds emojis."),
		subcommand("members", "Get the guilds members."),
		subcommand("info", "Gets general info about the guild."),
	}},
	{Name: CONTEXT_MENU_ROLE_MENTIONS, Type: discordgo.MessageApplicationCommand},
}

func (bot *Bot) uptime(ctx context.Context, inv *Invocation) error {
	return inv.replier.Reply(ctx, UptimeMessage(bot.stopwatch.Elapsed(), bot.stopwatch.StartTime()))
}

func (bot *Bot) help(ctx context.Context, inv *Invocation) error {
	return inv.replier.Reply(ctx, "", HelpMessage(bot.prefix))
}

func (bot *Bot) avatar(ctx context.Context, inv *Invocation, userid string) error {

	user, err := bot.getUser(ctx, inv, userid)
	if err != nil {
		return err
	}
	return inv.replier.Reply(ctx, "", AvatarEmbed(user, bot.avatarURL(user)))
}

func (bot *Bot) whois(ctx context.Context, inv *Invocation, userid string) error {

	// Fetch the user, the one in the event has no banner
	user, err := bot.getUser(ctx, inv, userid)
	if err != nil {
		return err
	}

	var pronouns string
	if bot.pronoundb != nil {
		pronouns, _ = bot.pronoundb.GetPronouns(ctx, user.ID)
	}
	info := UserInfo(user, pronouns)

	// Members get some more info, and their activities
	now := time.Now()
	embedColor := 0
	activities := []*discordgo.MessageEmbed{}
	if inv.guildID != "" {
		if member, err := bot.getMember(ctx, inv, user.ID); err == nil {
			roles := MemberRoles(member, bot.getRoles(ctx, inv))
			presence, _ := inv.session.State.Presence(inv.guildID, user.ID)
			info = append(info, MemberInfo(member, roles, presence, now)...)
			embedColor = MemberColor(roles)
			if presence != nil {
				activities = ActivityEmbeds(presence.Activities, now)
			}
		}
	}

	// Remote urls stay as fallback until the attachments are there
	avatar, banner := assets.UserAvatar(user), assets.UserBanner(user)
	embed := BuildInfoEmbed("User info", info, nil, true, embedColor)
	embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: bot.avatarURL(user)}
	if banner != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: bot.fetcher.URL(banner)}
	}

	embeds := append([]*discordgo.MessageEmbed{embed}, activities...)
	if len(embeds) > MAX_EMBEDS {
		embeds = embeds[:MAX_EMBEDS]
	}
	return bot.coordinator.Reply(ctx, inv.replier, avatar, banner, embeds)
}

func (bot *Bot) guildInfo(ctx context.Context, inv *Invocation) error {

	guild, err := bot.getGuild(ctx, inv)
	if err != nil {
		return err
	}
	general, sections := GuildInfo(guild, bot.cdn)
	embed := BuildInfoEmbed("Guild info", general, sections, false, color)
	if icon := assets.GuildIcon(guild); icon != nil {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: bot.fetcher.URL(icon)}
	}
	if banner := assets.GuildBanner(guild); banner != nil {
		embed.Image = &discordgo.MessageEmbedImage{URL: bot.fetcher.URL(banner)}
	}
	return inv.replier.Reply(ctx, "", embed)
}

func (bot *Bot) guildChannels(ctx context.Context, inv *Invocation) error {

	guild, err := bot.getGuild(ctx, inv)
	if err != nil {
		return err
	}
	channels := guild.Channels
	if len(channels) == 0 {
		if channels, err = inv.session.GuildChannels(guild.ID, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("could not extract list of channels of guild id %s: %w", guild.ID, err)
		}
	}
	return inv.replier.Reply(ctx, "", GuildChannelsEmbed(channels))
}

func (bot *Bot) guildEmojis(ctx context.Context, inv *Invocation) error {

	guild, err := bot.getGuild(ctx, inv)
	if err != nil {
		return err
	}
	return inv.replier.Reply(ctx, "", GuildEmojisEmbed(guild.Emojis))
}

func (bot *Bot) guildMembers(ctx context.Context, inv *Invocation) error {

	guild, err := bot.getGuild(ctx, inv)
	if err != nil {
		return err
	}
	return inv.replier.Reply(ctx, "", GuildMembersEmbed(guild.Members, guild.MemberCount))
}

func (bot *Bot) roleMentions(ctx context.Context, inv *Invocation, message *discordgo.Message) error {

	if message == nil {
		return fmt.Errorf("target message of the context menu not resolved")
	}

	roles := []*discordgo.Role{}
	members := []*discordgo.Member{}
	if inv.guildID != "" && len(message.MentionRoles) > 0 {
		guildRoles := bot.getRoles(ctx, inv)
		for _, id := range message.MentionRoles {
			for _, role := range guildRoles {
				if role.ID == id {
					roles = append(roles, role)
					break
				}
			}
		}
		if guild, err := bot.getGuild(ctx, inv); err == nil {
			members = guild.Members
		}
	}

	content, embeds := RoleMentionsMessage(roles, members)
	return inv.replier.Reply(ctx, content, embeds...)
}
