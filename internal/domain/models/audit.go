package models

// Action tags an audit log entry.
type Action string

const (
	ActionCreate  Action = "CREATE"
	ActionRestock Action = "RESTOCK"
	ActionSale    Action = "SALE"
	ActionDelete  Action = "DELETE"
	ActionBackup  Action = "BACKUP"
)
