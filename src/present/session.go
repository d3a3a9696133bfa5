package present

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/factcheck"
)

// Direction is a pagination step.
type Direction string

const (
	DirNext Direction = "next"
	DirPrev Direction = "prev"
)

const customIDPrefix = "capapp:page:"

// CustomID builds the component id for a navigation button.
func CustomID(sessionID string, dir Direction) string {
	return customIDPrefix + sessionID + ":" + string(dir)
}

// ParseCustomID is the inverse of CustomID. ok is false for ids this package did not issue.
func ParseCustomID(id string) (sessionID string, dir Direction, ok bool) {
	rest, found := strings.CutPrefix(id, customIDPrefix)
	if !found {
		return "", "", false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return "", "", false
	}
	dir = Direction(rest[i+1:])
	if dir != DirNext && dir != DirPrev {
		return "", "", false
	}
	return rest[:i], dir, true
}

// Session pages through several structured records for the participant who asked.
type Session struct {
	ID        string
	OwnerID   string
	Statement string

	mu      sync.Mutex
	records []factcheck.ClaimRecord
	index   int
	expired bool
}

// NewSession starts at the first record.
func NewSession(id, ownerID, statement string, records []factcheck.ClaimRecord) *Session {
	return &Session{
		ID:        id,
		OwnerID:   ownerID,
		Statement: statement,
		records:   records,
	}
}

func (s *Session) Len() int {
	return len(s.records)
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expired
}

func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAdvance()
}

func (s *Session) CanRetreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canRetreat()
}

func (s *Session) canAdvance() bool { return !s.expired && s.index < len(s.records)-1 }
func (s *Session) canRetreat() bool { return !s.expired && s.index > 0 }

// Advance moves to the next record. It reports false when already at the end or expired.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canAdvance() {
		return false
	}
	s.index++
	return true
}

// Retreat moves to the previous record. It reports false when already at the start or expired.
func (s *Session) Retreat() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.canRetreat() {
		return false
	}
	s.index--
	return true
}

// Step applies dir and returns the resulting view.
func (s *Session) Step(dir Direction) View {
	switch dir {
	case DirNext:
		s.Advance()
	case DirPrev:
		s.Retreat()
	}
	return s.View()
}

// Expire freezes the session. Later navigation is ignored.
func (s *Session) Expire() {
	s.mu.Lock()
	s.expired = true
	s.mu.Unlock()
}

// View renders the current record with its navigation controls.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	embed := claimEmbed(TitleResult, s.records[s.index])
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Result %d of %d", s.index+1, len(s.records)),
	}
	return View{
		Content: HeaderText(s.Statement),
		Embeds:  []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀ Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(s.ID, DirPrev),
					Disabled: !s.canRetreat(),
				},
				discordgo.Button{
					Label:    "Next ▶",
					Style:    discordgo.SecondaryButton,
					CustomID: CustomID(s.ID, DirNext),
					Disabled: !s.canAdvance(),
				},
			}},
		},
	}
}
