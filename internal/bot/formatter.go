package bot

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Use "teal" color for the bot
const color int = 0x008080

// Role mentions that get listed, and members listed per role
const (
	MAX_ROLE_EMBEDS      = 10
	MAX_MEMBERS_PER_ROLE = 25
)

func InputNotValid(errorMessage string) string {
	return fmt.Sprintf("Input not valid: \n> %s", errorMessage)
}

func HelpMessage(prefix string) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	usages := []struct {
		name  string
		value string
	}{
		{"uptime", "Returns how long the bot has been running"},
		{"avatar [user]", "Gets a user's profile picture. Also available as `pfp`"},
		{"whois [user]", "Gets info about a user"},
		{"guild [info|channels|emojis|members]", "Various guild related info"},
		{"help", "Print the usage of the different commands"},
	}
	for _, usage := range usages {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s %s`", prefix, usage.name),
			Value:  usage.value,
			Inline: false,
		})
	}
	embed.Footer = &discordgo.MessageEmbedFooter{Text: "Right click a message and pick \"Who got mentioned\" to list the members of the roles it mentions"}
	return &embed
}

func UptimeMessage(uptime time.Duration, started time.Time) string {
	return fmt.Sprintf("Bot has been online for %s, last started <t:%d>", ReadableDuration(uptime), started.Unix())
}

func DisplayName(user *discordgo.User) string {
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

func AvatarEmbed(user *discordgo.User, avatarURL string) *discordgo.MessageEmbed {

	// Avoid "James's avatar"
	name := DisplayName(user)
	if strings.HasSuffix(name, "s") {
		name = user.Username
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s's avatar", name),
		Image: &discordgo.MessageEmbedImage{URL: avatarURL},
		Color: color,
	}
}

func GuildChannelsEmbed(channels []*discordgo.Channel) *discordgo.MessageEmbed {

	mentions := []string{}
	for _, channel := range channels {
		if channel.Type != discordgo.ChannelTypeGuildCategory {
			mentions = append(mentions, channel.Mention())
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "Guild channels",
		Description: truncate(fmt.Sprintf("**Channel count:** %d\n\n%s", len(mentions), strings.Join(mentions, "\n")), EMBED_DESCRIPTION_LIMIT),
		Color:       color,
	}
}

func GuildEmojisEmbed(emojis []*discordgo.Emoji) *discordgo.MessageEmbed {

	formatted := make([]string, len(emojis))
	for i, emoji := range emojis {
		formatted[i] = emoji.MessageFormat()
	}
	return &discordgo.MessageEmbed{
		Title:       "Guild emojis",
		Description: truncate(fmt.Sprintf("**Emoji count:** %d\n\n%s", len(emojis), strings.Join(formatted, "")), EMBED_DESCRIPTION_LIMIT),
		Color:       color,
	}
}

func GuildMembersEmbed(members []*discordgo.Member, memberCount int) *discordgo.MessageEmbed {

	sorted := slices.Clone(members)
	slices.SortFunc(sorted, func(a, b *discordgo.Member) int {
		return strings.Compare(a.User.Username, b.User.Username)
	})
	mentions := make([]string, len(sorted))
	for i, member := range sorted {
		mentions[i] = member.User.Mention()
	}
	return &discordgo.MessageEmbed{
		Title:       "Guild members",
		Description: truncate(fmt.Sprintf("**Member count:** %d\n\n%s", max(memberCount, len(members)), strings.Join(mentions, ", ")), EMBED_DESCRIPTION_LIMIT),
		Color:       color,
	}
}

// Members of the guild that have the given role
func RoleMembers(role *discordgo.Role, members []*discordgo.Member) []*discordgo.Member {
	result := []*discordgo.Member{}
	for _, member := range members {
		if slices.Contains(member.Roles, role.ID) {
			result = append(result, member)
		}
	}
	return result
}

// List the members of each role mentioned in a message.
// Roles nobody has are skipped, and both the number of roles
// and the number of members per role are capped
func RoleMentionsMessage(roles []*discordgo.Role, members []*discordgo.Member) (string, []*discordgo.MessageEmbed) {

	if len(roles) == 0 {
		return "No role mentions found.", nil
	}

	embeds := []*discordgo.MessageEmbed{}
	for _, role := range roles {
		roleMembers := RoleMembers(role, members)
		if len(roleMembers) == 0 {
			continue
		}
		title := fmt.Sprintf("Members with the role \"%s\"", role.Name)
		if len(roleMembers) > MAX_MEMBERS_PER_ROLE {
			title += fmt.Sprintf(" (top %d)", MAX_MEMBERS_PER_ROLE)
			roleMembers = roleMembers[:MAX_MEMBERS_PER_ROLE]
		}
		mentions := make([]string, len(roleMembers))
		for i, member := range roleMembers {
			mentions[i] = member.User.Mention()
		}
		embeds = append(embeds, &discordgo.MessageEmbed{
			Title:       title,
			Description: strings.Join(mentions, ", "),
			Color:       role.Color,
		})
	}
	if len(embeds) > MAX_ROLE_EMBEDS {
		embeds = embeds[:MAX_ROLE_EMBEDS]
	}

	var content string
	if len(roles) > MAX_ROLE_EMBEDS {
		content = fmt.Sprintf("Only showing %d of the %d role mentions.", MAX_ROLE_EMBEDS, len(roles))
	} else if len(embeds) == 0 {
		content = "None of the mentioned roles have members."
	}
	return content, embeds
}
