package help

import (
	"errors"
	"net/http"
	"sync"

	"HelpBot/bot"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// State of an interactive help menu.
type State int

const (
	StateActive State = iota
	StateExpired
)

type EndReason string

const (
	EndIdle     EndReason = "idle"
	EndLifetime EndReason = "lifetime"
	EndStopped  EndReason = "stopped"
)

type eventKind int

const (
	eventSelect eventKind = iota
	eventPrevious
	eventNext
)

type event struct {
	kind  eventKind
	value string
}

func eventFrom(data discordgo.MessageComponentInteractionData) (event, bool) {
	switch data.CustomID {
	case menuID:
		if len(data.Values) == 0 {
			return event{}, false
		}
		return event{kind: eventSelect, value: data.Values[0]}, true
	case previousID:
		return event{kind: eventPrevious}, true
	case nextID:
		return event{kind: eventNext}, true
	}
	return event{}, false
}

// Session is the state of one rendered help menu. Only its owner can drive
// it, and it expires after an idle period or a maximum lifetime.
type Session struct {
	mu sync.Mutex

	ctrl      *Controller
	transport Transport
	log       *zap.Logger

	ownerID   string
	channelID string
	messageID string
	inv       Invocation
	disabled  *bot.DisabledSet

	pages   []*discordgo.MessageEmbed
	current int

	// cached control rows: the category selector and either the link
	// buttons or the page navigation
	menuRow   discordgo.MessageComponent
	secondRow discordgo.MessageComponent

	state    State
	idle     Timer
	lifetime Timer
}

// Attach starts a session on msg, which must show payload. An older session
// on the same message is ended first.
func (c *Controller) Attach(t Transport, msg *discordgo.Message, ownerID string, inv Invocation, payload *Payload) *Session {
	s := &Session{
		ctrl:      c,
		transport: t,
		log:       c.log.With(zap.String("message", msg.ID), zap.String("owner", ownerID)),
		ownerID:   ownerID,
		channelID: msg.ChannelID,
		messageID: msg.ID,
		inv:       inv,
		disabled:  payload.disabled,
	}
	if len(payload.Components) > 0 {
		s.menuRow = payload.Components[0]
	}
	if len(payload.Components) > 1 {
		s.secondRow = payload.Components[1]
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev := c.sessions.add(s); prev != nil {
		prev.Stop()
	}
	s.idle = c.opts.Clock.AfterFunc(c.opts.IdleTimeout, func() { s.end(EndIdle) })
	s.lifetime = c.opts.Clock.AfterFunc(c.opts.MaxLifetime, func() { s.end(EndLifetime) })

	s.log.Debug("help session started", zap.Stringer("mode", inv.Mode))
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Session) PageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pages)
}

// Stop ends the session. It is safe to call more than once.
func (s *Session) Stop() {
	s.end(EndStopped)
}

// handle processes one component interaction on the session's message.
// Interactions from anyone but the owner are dropped without an answer.
func (s *Session) handle(i *discordgo.InteractionCreate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || interactionUserID(i) != s.ownerID {
		return
	}
	ev, ok := eventFrom(i.MessageComponentData())
	if !ok {
		return
	}

	err := s.transport.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		s.log.Warn("acknowledge help interaction", zap.Error(err))
		return
	}
	s.idle.Reset(s.ctrl.opts.IdleTimeout)

	if s.apply(ev) {
		s.render()
	}
}

// apply advances the state machine and reports whether the message has to
// be re-rendered.
func (s *Session) apply(ev event) bool {
	if s.state != StateActive {
		return false
	}

	switch ev.kind {
	case eventSelect:
		s.pages = s.ctrl.pagesFor(ev.value, s.inv, s.disabled)
		s.current = 0
		s.secondRow = navRow(len(s.pages) > 1)
		return true
	case eventPrevious:
		if s.current == 0 {
			return false
		}
		s.current--
		return true
	case eventNext:
		if s.current >= len(s.pages)-1 {
			return false
		}
		s.current++
		return true
	}
	return false
}

func (s *Session) rows() []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	if s.menuRow != nil {
		rows = append(rows, s.menuRow)
	}
	if s.secondRow != nil {
		rows = append(rows, s.secondRow)
	}
	return rows
}

func (s *Session) render() {
	edit := discordgo.NewMessageEdit(s.channelID, s.messageID)
	embeds := []*discordgo.MessageEmbed{s.pages[s.current]}
	rows := s.rows()
	edit.Embeds = &embeds
	edit.Components = &rows
	s.edit(edit)
}

// edit is best-effort: a deleted message is skipped and other failures are
// logged.
func (s *Session) edit(edit *discordgo.MessageEdit) {
	if _, err := s.transport.ChannelMessageEditComplex(edit); err != nil {
		if isGone(err) {
			s.log.Debug("help message no longer editable", zap.Error(err))
			return
		}
		s.log.Warn("edit help message", zap.Error(err))
	}
}

func (s *Session) end(reason EndReason) {
	s.mu.Lock()
	if s.state == StateExpired {
		s.mu.Unlock()
		return
	}
	s.state = StateExpired
	if s.idle != nil {
		s.idle.Stop()
	}
	if s.lifetime != nil {
		s.lifetime.Stop()
	}

	if rows := s.rows(); len(rows) > 0 {
		frozen := disableAll(rows)
		edit := discordgo.NewMessageEdit(s.channelID, s.messageID)
		edit.Components = &frozen
		s.edit(edit)
	}
	s.mu.Unlock()

	s.ctrl.sessions.remove(s.messageID, s)
	s.log.Debug("help session ended", zap.String("reason", string(reason)))
}

// isGone reports whether err means the message was deleted or can no longer
// be edited by the bot.
func isGone(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownMessage,
			discordgo.ErrCodeUnknownChannel,
			discordgo.ErrCodeMissingAccess,
			discordgo.ErrCodeCannotEditFromAnotherUser:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

type sessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // messageID -> session
}

func newSessionManager() *sessionManager {
	return &sessionManager{sessions: make(map[string]*Session)}
}

// add registers s and returns the session it replaced, if any.
func (m *sessionManager) add(s *Session) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.sessions[s.messageID]
	m.sessions[s.messageID] = s
	return prev
}

func (m *sessionManager) get(messageID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[messageID]
	return s, ok
}

// remove drops s unless a newer session has taken over its message.
func (m *sessionManager) remove(messageID string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[messageID] == s {
		delete(m.sessions, messageID)
	}
}

func (m *sessionManager) all() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *sessionManager) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
