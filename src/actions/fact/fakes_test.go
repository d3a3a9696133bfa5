package fact

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/audit"
	"github.com/stake-plus/capapp/src/factcheck"
	"github.com/stake-plus/capapp/src/present"
)

type fakeVerifier struct {
	mu    sync.Mutex
	out   factcheck.Outcome
	calls []string
}

func (f *fakeVerifier) Verify(_ context.Context, statement string) factcheck.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, statement)
	out := f.out
	out.Statement = statement
	return out
}

func (f *fakeVerifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeOutput struct {
	mu      sync.Mutex
	pending []string
	renders []present.View
	replies []string

	renderErr error
}

func (f *fakeOutput) Pending(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, text)
	return nil
}

func (f *fakeOutput) Render(_ context.Context, v present.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.renderErr != nil {
		return f.renderErr
	}
	f.renders = append(f.renders, v)
	return nil
}

func (f *fakeOutput) Reply(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, text)
	return nil
}

type fakeNotifier struct {
	notices []string
}

func (f *fakeNotifier) Notify(_ context.Context, userID, channelID string) error {
	f.notices = append(f.notices, userID+"@"+channelID)
	return nil
}

type fakeFetcher struct {
	content string
	err     error
}

func (f *fakeFetcher) MessageContent(context.Context, string, string) (string, error) {
	return f.content, f.err
}

type memStore struct {
	mu      sync.Mutex
	entries []audit.Entry
	readErr error
}

func (m *memStore) Append(_ context.Context, e audit.Entry) (audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memStore) ReadAll(context.Context) ([]audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return append([]audit.Entry(nil), m.entries...), nil
}

type sentMessage struct {
	channelID string
	data      *discordgo.MessageSend
}

type fakeMessageAPI struct {
	mu      sync.Mutex
	sent    []sentMessage
	edits   []*discordgo.MessageEdit
	failFor string
	nextID  int
}

func (f *fakeMessageAPI) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if channelID == f.failFor {
		return nil, errors.New("missing access")
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{channelID: channelID, data: data})
	return &discordgo.Message{ID: fmt.Sprintf("m%d", f.nextID), ChannelID: channelID}, nil
}

func (f *fakeMessageAPI) ChannelMessageEditComplex(m *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

type fakeInteractionAPI struct {
	mu        sync.Mutex
	responses []*discordgo.InteractionResponse
	edits     []*discordgo.WebhookEdit
}

func (f *fakeInteractionAPI) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeInteractionAPI) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, edit)
	return &discordgo.Message{}, nil
}

type fakePublisher struct {
	payloads []map[string]interface{}
}

func (f *fakePublisher) Publish(_ context.Context, payload map[string]interface{}) error {
	f.payloads = append(f.payloads, payload)
	return nil
}
