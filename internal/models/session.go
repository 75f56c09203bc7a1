package models

import "time"

// Domain names the two image-based analysis workflows. Each domain
// owns its own image, analysis text, and chat history.
type Domain string

const (
	DomainReport Domain = "report"
	DomainSkin   Domain = "skin"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// ImageBlob is a decoded upload held in memory for the session's
// lifetime. Replaced wholesale on re-upload, never mutated in place.
type ImageBlob struct {
	Data []byte
	MIME string // image/png | image/jpeg
}

// DomainState walks Empty -> ImageUploaded -> Analyzed -> Chatting.
// Uploading a new image resets it to ImageUploaded.
type DomainState struct {
	Image    *ImageBlob    `json:"-"`
	Analysis string        `json:"analysis,omitempty"`
	History  []ChatMessage `json:"history"`
}

const (
	StateEmpty         = "empty"
	StateImageUploaded = "image_uploaded"
	StateAnalyzed      = "analyzed"
	StateChatting      = "chatting"
)

func (d *DomainState) State() string {
	switch {
	case d.Image == nil:
		return StateEmpty
	case d.Analysis == "":
		return StateImageUploaded
	case len(d.History) == 0:
		return StateAnalyzed
	default:
		return StateChatting
	}
}

// Session is the per-client mutable state. One instance per logical
// session, owned by the in-memory store; never shared across sessions.
type Session struct {
	SessionID string `json:"session_id"` // uuid v4
	UserID    string `json:"user_id"`    // uuid v4, stable for the session

	Name   string `json:"name,omitempty"`
	Age    int    `json:"age"`
	Gender string `json:"gender,omitempty"` // Male|Female|Other

	Report DomainState `json:"report"`
	Skin   DomainState `json:"skin"`

	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Domain(d Domain) *DomainState {
	if d == DomainSkin {
		return &s.Skin
	}
	return &s.Report
}

// Clone returns a copy safe to read after the store's lock is
// released. History slices are copied; image blobs are shared because
// they are immutable once stored.
func (s *Session) Clone() *Session {
	out := *s
	out.Report.History = append([]ChatMessage(nil), s.Report.History...)
	out.Skin.History = append([]ChatMessage(nil), s.Skin.History...)
	return &out
}
