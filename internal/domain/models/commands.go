package models

import "strings"

// CommandType enumerates supported operator command verbs.
type CommandType string

const (
	CommandAdd        CommandType = "add"
	CommandSell       CommandType = "sell"
	CommandDelete     CommandType = "delete"
	CommandSearch     CommandType = "search"
	CommandStats      CommandType = "stats"
	CommandLowStock   CommandType = "lowstock"
	CommandCategories CommandType = "categories"
	CommandBackup     CommandType = "backup"
	CommandUnknown    CommandType = "unknown"
)

var commandAliases = map[string]CommandType{
	"add":        CommandAdd,
	"restock":    CommandAdd,
	"sell":       CommandSell,
	"order":      CommandSell,
	"delete":     CommandDelete,
	"remove":     CommandDelete,
	"search":     CommandSearch,
	"find":       CommandSearch,
	"stats":      CommandStats,
	"analytics":  CommandStats,
	"lowstock":   CommandLowStock,
	"categories": CommandCategories,
	"backup":     CommandBackup,
}

// Command represents a parsed operator instruction such as "/sell 3 2".
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from free-form text. Arguments keep their original
// case so item names survive; only the verb is normalized.
func ParseCommand(message string) Command {
	cmd := Command{Raw: message, Type: CommandUnknown}

	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	if t, ok := commandAliases[head]; ok {
		cmd.Type = t
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
