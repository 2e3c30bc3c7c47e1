package models

// AlertMessage is the payload pushed to the alert webhook.
type AlertMessage struct {
	Text string `json:"text" binding:"required"`
}

// CommandRequest carries a text command submitted over HTTP.
type CommandRequest struct {
	Text string `json:"text" binding:"required"`
}

// CommandReply is returned for a dispatched text command.
type CommandReply struct {
	Command CommandType `json:"command"`
	Reply   string      `json:"reply"`
}
