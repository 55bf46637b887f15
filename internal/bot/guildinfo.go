package bot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"

	"thermometer/internal/assets"
)

// Limits that depend on the boost level of the guild
type tierLimits struct {
	emojis   int
	stickers int
	bitrate  int
	filesize int64
}

var limits = map[discordgo.PremiumTier]tierLimits{
	discordgo.PremiumTierNone: {50, 5, 96000, 26214400},
	discordgo.PremiumTier1:    {100, 15, 128000, 26214400},
	discordgo.PremiumTier2:    {150, 30, 256000, 52428800},
	discordgo.PremiumTier3:    {250, 60, 384000, 104857600},
}

func guildLimits(guild *discordgo.Guild) tierLimits {
	l, ok := limits[guild.PremiumTier]
	if !ok {
		l = limits[discordgo.PremiumTierNone]
	}
	for _, feature := range guild.Features {
		switch string(feature) {
		case "MORE_EMOJI":
			l.emojis = max(l.emojis, 200)
		case "MORE_STICKERS":
			l.stickers = max(l.stickers, 60)
		case "VIP_REGIONS":
			l.bitrate = max(l.bitrate, 384000)
		}
	}
	return l
}

func verificationLevel(level discordgo.VerificationLevel) string {
	switch level {
	case discordgo.VerificationLevelNone:
		return "None"
	case discordgo.VerificationLevelLow:
		return "Low"
	case discordgo.VerificationLevelMedium:
		return "Medium"
	case discordgo.VerificationLevelHigh:
		return "High"
	case discordgo.VerificationLevelVeryHigh:
		return "Very High"
	}
	return fmt.Sprintf("Unknown (%d)", level)
}

func defaultNotifications(level discordgo.MessageNotifications) string {
	switch level {
	case discordgo.MessageNotificationsAllMessages:
		return "All Messages"
	case discordgo.MessageNotificationsOnlyMentions:
		return "Only Mentions"
	}
	return fmt.Sprintf("Unknown (%d)", level)
}

func contentFilter(level discordgo.ExplicitContentFilterLevel) string {
	switch level {
	case discordgo.ExplicitContentFilterDisabled:
		return "Disabled"
	case discordgo.ExplicitContentFilterMembersWithoutRoles:
		return "No Role"
	case discordgo.ExplicitContentFilterAllMembers:
		return "All Members"
	}
	return fmt.Sprintf("Unknown (%d)", level)
}

// The default level is not worth displaying
func nsfwLevel(level discordgo.GuildNSFWLevel) string {
	switch level {
	case discordgo.GuildNSFWLevelDefault:
		return ""
	case discordgo.GuildNSFWLevelExplicit:
		return "Explicit"
	case discordgo.GuildNSFWLevelSafe:
		return "Safe"
	case discordgo.GuildNSFWLevelAgeRestricted:
		return "Age Restricted"
	}
	return fmt.Sprintf("Unknown (%d)", level)
}

func channelMention(id string) string {
	if id == "" {
		return ""
	}
	return fmt.Sprintf("<#%s>", id)
}

func countChannels(channels []*discordgo.Channel, types ...discordgo.ChannelType) int {
	count := 0
	for _, channel := range channels {
		if slices.Contains(types, channel.Type) {
			count++
		}
	}
	return count
}

// General info about the guild, and its sections
func GuildInfo(guild *discordgo.Guild, cdn string) (Info, []Section) {

	var createdAt string
	if created, err := discordgo.SnowflakeTimestamp(guild.ID); err == nil {
		createdAt = Timestamp(created)
	}

	var owner string
	if guild.OwnerID != "" {
		owner = fmt.Sprintf("<@%s> (%s)", guild.OwnerID, guild.OwnerID)
	}

	var vanityURL string
	if guild.VanityURLCode != "" {
		vanityURL = "https://discord.gg/" + guild.VanityURLCode
	}

	var splash, discoverySplash string
	if ref := assets.GuildSplash(guild); ref != nil {
		splash = ref.URL(cdn, 4096)
	}
	if ref := assets.GuildDiscoverySplash(guild); ref != nil {
		discoverySplash = ref.URL(cdn, 4096)
	}

	features := make([]string, len(guild.Features))
	for i, feature := range guild.Features {
		features[i] = string(feature)
	}
	slices.Sort(features)
	for i := range features {
		features[i] = "`" + features[i] + "`"
	}

	general := Info{
		{"Name", guild.Name},
		{"ID", guild.ID},
		{"Description", guild.Description},
		{"Created at", createdAt},
		{"Owner", owner},
		{"Preferred locale", guild.PreferredLocale},
		{"Vanity URL", vanityURL},
		{"Vanity URL code", guild.VanityURLCode},
		{"Splash URL", splash},
		{"Discovery splash URL", discoverySplash},
		{"NSFW level", nsfwLevel(guild.NSFWLevel)},
		{"Requires MFA", YesNo(guild.MfaLevel == discordgo.MfaLevelElevated)},
		{"Verification level", verificationLevel(guild.VerificationLevel)},
		{"Default notifications", defaultNotifications(guild.DefaultMessageNotifications)},
		{"Content filter level", contentFilter(guild.ExplicitContentFilter)},
		{"Features", strings.Join(features, ", ")},
	}

	// Channels
	categories := countChannels(guild.Channels, discordgo.ChannelTypeGuildCategory)
	var afkChannel string
	if guild.AfkChannelID != "" {
		afkChannel = fmt.Sprintf("%s (%d second timeout)", channelMention(guild.AfkChannelID), guild.AfkTimeout)
	}
	channels := Info{
		{"Channels", fmt.Sprint(len(guild.Channels) - categories)},
		{"Text channels", fmt.Sprint(countChannels(guild.Channels, discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews))},
		{"Voice channels", fmt.Sprint(countChannels(guild.Channels, discordgo.ChannelTypeGuildVoice))},
		{"Stage channels", fmt.Sprint(countChannels(guild.Channels, discordgo.ChannelTypeGuildStageVoice))},
		{"Forum channels", fmt.Sprint(countChannels(guild.Channels, discordgo.ChannelTypeGuildForum))},
		{"Categories", fmt.Sprint(categories)},
		{"Threads", fmt.Sprint(len(guild.Threads))},
		{"Rules channel", channelMention(guild.RulesChannelID)},
		{"AFK channel", afkChannel},
	}

	// Stats
	// Bots can only be counted among the members the bot has seen
	l := guildLimits(guild)
	bots := 0
	for _, member := range guild.Members {
		if member.User != nil && member.User.Bot {
			bots++
		}
	}
	memberCount := max(guild.MemberCount, len(guild.Members))
	humans := memberCount - bots
	var ratio string
	if humans > 0 {
		ratio = fmt.Sprintf("%s bots per human", formatFloat(roundTo(float64(bots)/float64(humans), 3)))
	}
	members := fmt.Sprint(memberCount)
	if guild.MaxMembers > 0 {
		members = fmt.Sprintf("%d/%d", memberCount, guild.MaxMembers)
	}
	stats := Info{
		{"Members", members},
		{"Bots", fmt.Sprint(bots)},
		{"Humans", fmt.Sprint(humans)},
		{"Bot/human ratio", ratio},
		{"Roles", fmt.Sprint(len(guild.Roles))},
		{"Emojis", fmt.Sprintf("%d/%d", len(guild.Emojis), l.emojis)},
		{"Stickers", fmt.Sprintf("%d/%d", len(guild.Stickers), l.stickers)},
		{"Filesize limit", ReadableBytes(l.filesize)},
		{"Bitrate limit", fmt.Sprintf("%d kbps", l.bitrate/1000)},
	}

	// Boosts
	boosts := Info{
		{"Boost level", fmt.Sprintf("%d (%d boosts)", guild.PremiumTier, guild.PremiumSubscriptionCount)},
	}

	return general, []Section{
		{"Channels", channels},
		{"Stats", stats},
		{"Boosts", boosts},
	}
}

func roundTo(value float64, decimals int) float64 {
	factor := 1.0
	for i := 0; i < decimals; i++ {
		factor *= 10
	}
	return float64(int64(value*factor+0.5)) / factor
}
