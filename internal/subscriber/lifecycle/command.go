package lifecycle

import "strings"

// Command is the classified intent of an inbound message.
type Command string

const (
	CommandStop     Command = "stop"
	CommandHelp     Command = "help"
	CommandStart    Command = "start"
	CommandYes      Command = "yes"
	CommandStatus   Command = "status"
	CommandFreeText Command = "free_text"
)

// Keyword sets are closed: exact membership after trimming and upper-casing,
// no prefix or fuzzy matching. STOP covers the full carrier opt-out vocabulary.
var (
	stopWords   = map[string]bool{"STOP": true, "STOPALL": true, "UNSUBSCRIBE": true, "CANCEL": true, "END": true, "QUIT": true}
	helpWords   = map[string]bool{"HELP": true, "INFO": true}
	startWords  = map[string]bool{"START": true}
	yesWords    = map[string]bool{"YES": true, "Y": true}
	statusWords = map[string]bool{"STATUS": true}
)

// Classify normalizes an inbound message body and maps it to exactly one
// command class. Precedence: STOP, HELP, START, YES, STATUS, free text.
func Classify(body string) Command {
	normalized := strings.ToUpper(strings.TrimSpace(body))
	switch {
	case stopWords[normalized]:
		return CommandStop
	case helpWords[normalized]:
		return CommandHelp
	case startWords[normalized]:
		return CommandStart
	case yesWords[normalized]:
		return CommandYes
	case statusWords[normalized]:
		return CommandStatus
	default:
		return CommandFreeText
	}
}
