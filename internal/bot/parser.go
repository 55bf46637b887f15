package bot

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

const (
	COMMAND_UPTIME         = iota
	COMMAND_AVATAR         = iota
	COMMAND_WHOIS          = iota
	COMMAND_GUILD_INFO     = iota
	COMMAND_GUILD_CHANNELS = iota
	COMMAND_GUILD_EMOJIS   = iota
	COMMAND_GUILD_MEMBERS  = iota
	COMMAND_HELP           = iota
)

const (
	PARSEID_OK                        = iota
	PARSEID_NO_BOT_PREFIX             = iota
	PARSEID_NO_COMMAND                = iota
	PARSEID_COMMAND_NOT_RECOGNISED    = iota
	PARSEID_SUBCOMMAND_NOT_RECOGNISED = iota
	PARSEID_NOT_A_USER                = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:                "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED:    "Command `%s` not recognised",
	PARSEID_SUBCOMMAND_NOT_RECOGNISED: "`%s` is not one of `info`, `channels`, `emojis` or `members`",
	PARSEID_NOT_A_USER:                "Input `%s` is not a user mention or id",
}

// <@123> and <@!123> are user mentions
var userMention = regexp.MustCompile(`^<@!?(\d+)>$`)
var userId = regexp.MustCompile(`^\d{15,21}$`)

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	// Id of the user the command is about, empty means the author
	userid string
}

func Parse(prefix string, message string) ParseResult {

	// The message has to start with the bot prefix, as a word of its own
	rest, found := strings.CutPrefix(message, prefix)
	if !found || (rest != "" && !unicode.IsSpace(rune(rest[0]))) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(rest)
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := strings.ToLower(words[0])
	words = words[1:]

	// Match the command
	switch commandString {
	case "uptime":
		// thermometer uptime
		return ParseResult{command: COMMAND_UPTIME, parseid: PARSEID_OK}
	case "avatar", "pfp":
		// thermometer avatar [user]
		return parseUser(COMMAND_AVATAR, words)
	case "whois":
		// thermometer whois [user]
		return parseUser(COMMAND_WHOIS, words)
	case "guild":
		// thermometer guild [info|channels|emojis|members]
		return parseGuild(words)
	case "help":
		// thermometer help
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

func parseUser(command int, words []string) ParseResult {

	// No user means the author of the message
	if len(words) == 0 {
		return ParseResult{command: command, parseid: PARSEID_OK}
	}

	word := words[0]
	if match := userMention.FindStringSubmatch(word); match != nil {
		return ParseResult{command: command, parseid: PARSEID_OK, userid: match[1]}
	}
	if userId.MatchString(word) {
		return ParseResult{command: command, parseid: PARSEID_OK, userid: word}
	}
	parseid := PARSEID_NOT_A_USER
	return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], word)}
}

func parseGuild(words []string) ParseResult {

	// The group on its own shows the general info
	if len(words) == 0 {
		return ParseResult{command: COMMAND_GUILD_INFO, parseid: PARSEID_OK}
	}

	switch strings.ToLower(words[0]) {
	case "info":
		return ParseResult{command: COMMAND_GUILD_INFO, parseid: PARSEID_OK}
	case "channels":
		return ParseResult{command: COMMAND_GUILD_CHANNELS, parseid: PARSEID_OK}
	case "emojis":
		return ParseResult{command: COMMAND_GUILD_EMOJIS, parseid: PARSEID_OK}
	case "members":
		return ParseResult{command: COMMAND_GUILD_MEMBERS, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_SUBCOMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
	}
}
