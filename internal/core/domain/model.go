package domain

import (
	"time"
)

// Member is the user data an interaction carries about a guild member.
type Member struct {
	ID            string
	GuildID       string
	Username      string
	Discriminator string
	GlobalName    string
	Nick          string
	Permissions   int64
	Bot           bool
}

func (m *Member) Mention() string {
	return "<@" + m.ID + ">"
}

// DisplayName prefers the guild nickname, then the global name, then the username.
func (m *Member) DisplayName() string {
	switch {
	case m.Nick != "":
		return m.Nick
	case m.GlobalName != "":
		return m.GlobalName
	default:
		return m.Username
	}
}

func (m *Member) String() string {
	if m.Discriminator == "" || m.Discriminator == "0" {
		return m.Username
	}
	return m.Username + "#" + m.Discriminator
}

type Channel struct {
	ID       string
	GuildID  string
	Name     string
	ParentID string
}

func (c *Channel) Mention() string {
	return "<#" + c.ID + ">"
}

type Role struct {
	ID          string
	GuildID     string
	Name        string
	Permissions int64
}

func (r *Role) Mention() string {
	return "<@&" + r.ID + ">"
}

// Message is the target of a message context-menu command.
type Message struct {
	ID        string
	ChannelID string
	AuthorID  string
	Content   string
}

// Invocation describes one inbound interaction session.
type Invocation struct {
	ID        string
	GuildID   string
	ChannelID string
	Author    *Member
	Path      Path
	CreatedAt time.Time
}

// JumpURL links to the invocation in the client. Outside a guild "@me" takes the place of
// the guild id.
func (inv Invocation) JumpURL() string {
	gid := inv.GuildID
	if gid == "" {
		gid = "@me"
	}
	return "https://discord.com/channels/" + gid + "/" + inv.ChannelID + "/" + inv.ID
}

type ResponseState int

const (
	Unresponded ResponseState = iota
	Responded
	RespondedDeferred
)

func (s ResponseState) String() string {
	switch s {
	case Unresponded:
		return "unresponded"
	case Responded:
		return "responded"
	case RespondedDeferred:
		return "responded_deferred"
	default:
		return "unknown"
	}
}

type Reply struct {
	Content   string
	Ephemeral bool
}

type ReplyOption func(*Reply)

// Ephemeral marks a reply as visible only to the invoking user. It has no effect
// when the reply edits a deferred placeholder or falls back to a channel post.
func Ephemeral() ReplyOption {
	return func(r *Reply) { r.Ephemeral = true }
}

func NewReply(content string, opts ...ReplyOption) Reply {
	r := Reply{Content: content}
	for _, o := range opts {
		o(&r)
	}
	return r
}

// Diagnostic is the operator-facing record of a failed command handler.
type Diagnostic struct {
	Ref           string
	Path          Path
	InteractionID string
	GuildID       string
	ChannelID     string
	UserID        string
	JumpURL       string
	Err           error
	Stack         []byte
	OccurredAt    time.Time
}

type Author string

const (
	User   Author = "user"
	System Author = "system"
)

type Prompt struct {
	Prompt string
	Author Author
}

type ModelResponse struct {
	Response string
	Metadata ResponseMetadata
}

type ResponseMetadata struct {
	Model            string
	CompletionTokens int
	TotalTokens      int
}
