package models

import "strings"

// CommandType enumerates the chat commands understood by the shop assistant.
type CommandType string

const (
	CommandSell    CommandType = "sell"
	CommandRestock CommandType = "restock"
	CommandStock   CommandType = "stock"
	CommandToday   CommandType = "today"
	CommandReport  CommandType = "report"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))
	cmd := Command{Raw: message, Type: CommandUnknown}

	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.TrimPrefix(tokens[0], "/")
	switch CommandType(head) {
	case CommandSell, CommandRestock, CommandStock, CommandToday, CommandReport, CommandHelp:
		cmd.Type = CommandType(head)
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
