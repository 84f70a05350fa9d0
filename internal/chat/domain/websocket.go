package domain

// Action websocket event name
type Action string

// Client -> server actions
const (
	// JoinCommunity websocket action join_community
	JoinCommunity Action = "join_community"
	// LeaveCommunity websocket action leave_community
	LeaveCommunity Action = "leave_community"
	// NewMessage websocket action new_message
	NewMessage Action = "new_message"
)

// Server -> client actions
const (
	// JoinedCommunity confirmation sent to the joining connection only
	JoinedCommunity Action = "joined_community"
	// LeftCommunity confirmation sent to the leaving connection only
	LeftCommunity Action = "left_community"
	// MessageReceived broadcast of an approved message to a room
	MessageReceived Action = "message_received"
	// MessageBlocked rejection notice sent to the sender only
	MessageBlocked Action = "message_blocked"
	// ErrorEvent generic failure notice sent to the sender only
	ErrorEvent Action = "error"
)

// WSRequest websocket request envelope
type WSRequest struct {
	Action      string `json:"action"`
	CommunityID string `json:"community_id"`
	Content     string `json:"content"`
	// CreatedAt is taken from the client verbatim when present,
	// otherwise the server stamps it at dispatch time.
	CreatedAt string `json:"created_at,omitempty"`
}

// WSResponse websocket response envelope
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
