package bot

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		message string
		parseid int
		command int
		userid  string
	}{
		{"hello there", PARSEID_NO_BOT_PREFIX, 0, ""},
		{"thermometeruptime", PARSEID_NO_BOT_PREFIX, 0, ""},
		{"thermometer\tuptime", PARSEID_OK, COMMAND_UPTIME, ""},
		{"thermometer", PARSEID_NO_COMMAND, 0, ""},
		{"thermometer   ", PARSEID_NO_COMMAND, 0, ""},
		{"thermometer uptime", PARSEID_OK, COMMAND_UPTIME, ""},
		{"thermometer UPTIME", PARSEID_OK, COMMAND_UPTIME, ""},
		{"thermometer avatar", PARSEID_OK, COMMAND_AVATAR, ""},
		{"thermometer pfp <@80351110224678912>", PARSEID_OK, COMMAND_AVATAR, "80351110224678912"},
		{"thermometer whois <@!80351110224678912>", PARSEID_OK, COMMAND_WHOIS, "80351110224678912"},
		{"thermometer whois 80351110224678912", PARSEID_OK, COMMAND_WHOIS, "80351110224678912"},
		{"thermometer whois somebody", PARSEID_NOT_A_USER, COMMAND_WHOIS, ""},
		{"thermometer guild", PARSEID_OK, COMMAND_GUILD_INFO, ""},
		{"thermometer guild info", PARSEID_OK, COMMAND_GUILD_INFO, ""},
		{"thermometer guild channels", PARSEID_OK, COMMAND_GUILD_CHANNELS, ""},
		{"thermometer guild emojis", PARSEID_OK, COMMAND_GUILD_EMOJIS, ""},
		{"thermometer guild members", PARSEID_OK, COMMAND_GUILD_MEMBERS, ""},
		{"thermometer guild roles", PARSEID_SUBCOMMAND_NOT_RECOGNISED, 0, ""},
		{"thermometer help", PARSEID_OK, COMMAND_HELP, ""},
		{"thermometer dance", PARSEID_COMMAND_NOT_RECOGNISED, 0, ""},
	}
	for _, test := range tests {
		result := Parse("thermometer", test.message)
		if result.parseid != test.parseid {
			t.Errorf("%q: got parseid %d, want %d", test.message, result.parseid, test.parseid)
			continue
		}
		if result.parseid != PARSEID_OK {
			if result.parseid != PARSEID_NO_BOT_PREFIX && result.errorMessage == "" {
				t.Errorf("%q: expected an error message", test.message)
			}
			continue
		}
		if result.command != test.command || result.userid != test.userid {
			t.Errorf("%q: got command %d user %q, want %d %q", test.message, result.command, result.userid, test.command, test.userid)
		}
	}
}
