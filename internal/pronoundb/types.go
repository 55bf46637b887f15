package pronoundb

// Short codes used by PronounDB and how to display them.
// Codes missing from the table mean no pronouns to show
var pronouns = map[string]string{
	"hh":    "he/him",
	"hi":    "he/it",
	"hs":    "he/she",
	"ht":    "he/they",
	"ih":    "it/him",
	"ii":    "it/its",
	"is":    "it/she",
	"it":    "it/they",
	"shh":   "she/he",
	"sh":    "she/her",
	"si":    "she/it",
	"st":    "she/they",
	"th":    "they/he",
	"ti":    "they/it",
	"ts":    "they/she",
	"tt":    "they/them",
	"any":   "Any pronouns",
	"other": "Other pronouns",
	"ask":   "Ask me my pronouns",
	"avoid": "Avoid pronouns, use my name",
}

func PronounsFromCode(code string) (string, bool) {
	display, ok := pronouns[code]
	return display, ok
}
