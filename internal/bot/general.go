package bot

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// Limits Discord imposes on embeds
const (
	EMBED_DESCRIPTION_LIMIT = 4096
	EMBED_FIELD_LIMIT       = 1024
)

// A key/value line in an info embed.
// Entries with an empty value are not displayed
type Entry struct {
	Key   string
	Value string
}

type Info []Entry

// A titled group of entries, displayed as an embed field
type Section struct {
	Title string
	Info  Info
}

func (info Info) String() string {
	var sb strings.Builder
	for _, entry := range info {
		if entry.Value == "" {
			continue
		}
		fmt.Fprintf(&sb, "**%s:** %s\n", entry.Key, entry.Value)
	}
	return sb.String()
}

// Build the embed used by whois and guild info: the main info goes into
// the description and each section gets its own field
func BuildInfoEmbed(title string, info Info, sections []Section, inline bool, color int) *discordgo.MessageEmbed {

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: truncate(info.String(), EMBED_DESCRIPTION_LIMIT),
		Color:       color,
	}
	for _, section := range sections {
		value := section.Info.String()
		if value == "" {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   section.Title,
			Value:  truncate(value, EMBED_FIELD_LIMIT),
			Inline: inline,
		})
	}
	return embed
}

// Discord timestamp markup, absolute and relative
func Timestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d> (<t:%d:R>)", t.Unix(), t.Unix())
}

func ReadableDuration(duration time.Duration) string {

	totalSeconds := int64(duration.Seconds())
	days := totalSeconds / 86400
	hours := totalSeconds % 86400 / 3600
	minutes := totalSeconds % 3600 / 60
	seconds := totalSeconds % 60

	var sb strings.Builder
	if days > 0 {
		fmt.Fprintf(&sb, "%d days ", days)
	}
	if hours > 0 {
		fmt.Fprintf(&sb, "%d hours ", hours)
	}
	if minutes > 0 {
		fmt.Fprintf(&sb, "%d minutes ", minutes)
	}
	fmt.Fprintf(&sb, "%d seconds", seconds)
	return sb.String()
}

// Convert a number of bytes into the biggest unit that keeps it above 1
func ConvertBytes(size int64) (float64, string) {
	units := []string{"B", "KiB", "MiB", "GiB", "TiB"}
	value := float64(size)
	index := 0
	for value >= 1024 && index < len(units)-1 {
		value /= 1024
		index++
	}
	return value, units[index]
}

func ReadableBytes(size int64) string {
	value, unit := ConvertBytes(size)
	return fmt.Sprintf("%s %s", formatFloat(value), unit)
}

func formatFloat(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d", int64(value))
	}
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", value), "0"), ".")
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"~", `\~`,
	"|", `\|`,
	">", `\>`,
)

func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// "VERY_HIGH" or "very high" become "Very High"
func TitleCase(text string) string {
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(text), "_", " "))
	for i, word := range words {
		first, size := utf8.DecodeRuneInString(word)
		words[i] = strings.ToUpper(string(first)) + word[size:]
	}
	return strings.Join(words, " ")
}

func YesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

// Only display a flag when it is set
func YesOrEmpty(value bool) string {
	if value {
		return "Yes"
	}
	return ""
}

func ColorHex(color int) string {
	if color == 0 {
		return ""
	}
	return fmt.Sprintf("#%06x", color)
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}
