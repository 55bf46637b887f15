package bot

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Colours for the activity embeds
const (
	SPOTIFY_COLOR = 0x1db954
	YOUTUBE_COLOR = 0xfe0000
	TWITCH_COLOR  = 0x9147ff
)

func UserInfo(user *discordgo.User, pronouns string) Info {

	var userType string
	if user.Bot {
		userType = "Bot"
	}
	if user.System {
		userType = "System"
	}

	discriminator := user.Discriminator
	if discriminator == "0" {
		discriminator = ""
	}

	var globalName, nickname string
	if user.GlobalName != "" {
		globalName = EscapeMarkdown(user.GlobalName)
		if user.GlobalName != user.Username {
			nickname = globalName
		}
	}

	if pronouns != "" {
		pronouns = fmt.Sprintf("%s (Fetched from [PronounDB](https://pronoundb.org/))", pronouns)
	}

	var createdAt string
	if created, err := discordgo.SnowflakeTimestamp(user.ID); err == nil {
		createdAt = Timestamp(created)
	}

	return Info{
		// Escaped due to non-migrated users
		{"Username", EscapeMarkdown(user.Username)},
		{"Global display name", globalName},
		{"Discriminator", discriminator},
		{"Mention", user.Mention()},
		{"Nickname", nickname},
		{"ID", user.ID},
		{"Pronouns", pronouns},
		{"User type", userType},
		{"Created at", createdAt},
	}
}

// The roles of a member, highest first, ignoring @everyone
func MemberRoles(member *discordgo.Member, guildRoles []*discordgo.Role) []*discordgo.Role {

	has := make(map[string]bool, len(member.Roles))
	for _, id := range member.Roles {
		has[id] = true
	}
	roles := []*discordgo.Role{}
	for _, role := range guildRoles {
		if has[role.ID] && role.Name != "@everyone" {
			roles = append(roles, role)
		}
	}
	sort.SliceStable(roles, func(i, j int) bool { return roles[i].Position > roles[j].Position })
	return roles
}

// Colour of the highest role that has one, as Discord displays it
func MemberColor(roles []*discordgo.Role) int {
	for _, role := range roles {
		if role.Color != 0 {
			return role.Color
		}
	}
	return 0
}

// Presence may be nil if the bot has not seen one for this member
func MemberInfo(member *discordgo.Member, roles []*discordgo.Role, presence *discordgo.Presence, now time.Time) Info {

	status := string(discordgo.StatusOffline)
	var onMobile bool
	if presence != nil {
		if presence.Status != "" {
			status = string(presence.Status)
		}
		onMobile = presence.ClientStatus.Mobile != "" && presence.ClientStatus.Mobile != discordgo.StatusOffline
	}
	if status == string(discordgo.StatusDoNotDisturb) {
		status = "do not disturb"
	}

	var timedOutUntil string
	if until := member.CommunicationDisabledUntil; until != nil && until.After(now) {
		timedOutUntil = Timestamp(*until)
	}

	var joinedAt string
	if !member.JoinedAt.IsZero() {
		joinedAt = Timestamp(member.JoinedAt)
	}

	var isBot bool
	if member.User != nil {
		isBot = member.User.Bot
	}

	mentions := make([]string, len(roles))
	for i, role := range roles {
		mentions[i] = role.Mention()
	}

	return Info{
		{"Server nickname", EscapeMarkdown(member.Nick)},
		{"Joined at", joinedAt},
		{"Status", TitleCase(status)},
		{"On mobile", YesOrEmpty(onMobile)},
		{"Timed out until", timedOutUntil},
		{"Has rejoined", YesOrEmpty(member.Flags&discordgo.MemberFlagDidRejoin != 0)},
		{"Is bot", YesOrEmpty(isBot)},
		{"Name colour", ColorHex(MemberColor(roles))},
		{"Roles", strings.Join(mentions, ", ")},
	}
}

// One embed per activity of the member. Custom statuses are not shown
func ActivityEmbeds(activities []*discordgo.Activity, now time.Time) []*discordgo.MessageEmbed {

	embeds := []*discordgo.MessageEmbed{}
	for _, activity := range activities {
		switch {
		case activity.Type == discordgo.ActivityTypeListening && activity.Name == "Spotify":
			embeds = append(embeds, spotifyEmbed(activity))
		case activity.Type == discordgo.ActivityTypeGame:
			embeds = append(embeds, gameEmbed(activity))
		case activity.Type == discordgo.ActivityTypeStreaming:
			embeds = append(embeds, streamEmbed(activity))
		case activity.Type == discordgo.ActivityTypeCustom:
			continue
		default:
			embeds = append(embeds, genericActivityEmbed(activity, now))
		}
	}
	return embeds
}

func spotifyEmbed(activity *discordgo.Activity) *discordgo.MessageEmbed {

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Listening to: %s", activity.Details),
		Description: Info{
			{"Artist", strings.ReplaceAll(activity.State, "; ", ", ")},
			{"Album", activity.Assets.LargeText},
		}.String(),
		Color: SPOTIFY_COLOR,
	}
	if cover, ok := strings.CutPrefix(activity.Assets.LargeImageID, "spotify:"); ok {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: "https://i.scdn.co/image/" + cover}
	}
	return embed
}

func gameEmbed(activity *discordgo.Activity) *discordgo.MessageEmbed {

	started, ends := activityTimes(activity)
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Playing: %s", activity.Name),
		Description: Info{
			{"Started at", timestampOrEmpty(started)},
			{"Ends at", timestampOrEmpty(ends)},
		}.String(),
		Color: randomColor(),
	}
}

func streamEmbed(activity *discordgo.Activity) *discordgo.MessageEmbed {

	// For streams the activity name is the platform
	// and the details hold the stream title
	platform := activity.Name
	color := randomColor()
	switch strings.ToLower(platform) {
	case "youtube":
		color = YOUTUBE_COLOR
	case "twitch":
		color = TWITCH_COLOR
	}
	twitchName, _ := strings.CutPrefix(activity.Assets.LargeImageID, "twitch:")
	if twitchName == activity.Assets.LargeImageID {
		twitchName = ""
	}

	title := activity.Details
	if title == "" {
		title = activity.Name
	}
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Streaming: %s", title),
		Description: Info{
			{"Game", activity.State},
			{"Platform", platform},
			{"Twitch name", twitchName},
			{"URL", activity.URL},
		}.String(),
		Color: color,
	}
}

func genericActivityEmbed(activity *discordgo.Activity, now time.Time) *discordgo.MessageEmbed {

	started, ends := activityTimes(activity)
	var duration string
	if !started.IsZero() {
		duration = ReadableDuration(now.Sub(started))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Activity: %s", activity.Name),
		Description: activity.Details,
		Color:       randomColor(),
	}
	value := Info{
		{"State", activity.State},
		{"Started at", timestampOrEmpty(started)},
		{"Ends at", timestampOrEmpty(ends)},
		{"Duration", duration},
		{"URL", activity.URL},
	}.String()
	if value != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: " ", Value: value})
	}
	if url := activityImageURL(activity.ApplicationID, activity.Assets.LargeImageID); url != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: url}
	}
	return embed
}

// Activity timestamps come in milliseconds
func activityTimes(activity *discordgo.Activity) (time.Time, time.Time) {
	var started, ends time.Time
	if activity.Timestamps.StartTimestamp > 0 {
		started = time.UnixMilli(activity.Timestamps.StartTimestamp)
	}
	if activity.Timestamps.EndTimestamp > 0 {
		ends = time.UnixMilli(activity.Timestamps.EndTimestamp)
	}
	return started, ends
}

// Large images are either proxied external images ("mp:")
// or assets uploaded to the application
func activityImageURL(applicationID string, imageID string) string {
	switch {
	case imageID == "":
		return ""
	case strings.HasPrefix(imageID, "mp:"):
		return "https://media.discordapp.net/" + strings.TrimPrefix(imageID, "mp:")
	case applicationID != "" && !strings.Contains(imageID, ":"):
		return fmt.Sprintf("https://cdn.discordapp.com/app-assets/%s/%s.png", applicationID, imageID)
	default:
		return ""
	}
}

func timestampOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return Timestamp(t)
}

func randomColor() int {
	return rand.IntN(0xffffff + 1)
}
