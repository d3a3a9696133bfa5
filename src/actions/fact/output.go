package fact

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/stake-plus/capapp/src/present"
)

// MessageAPI is the part of *discordgo.Session used to post and edit channel messages.
type MessageAPI interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// InteractionAPI is the part of *discordgo.Session used to answer interactions.
type InteractionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// channelOutput answers a prefix message in its channel. The progress notice is
// edited in place once the result is ready.
type channelOutput struct {
	api       MessageAPI
	channelID string
	reference *discordgo.MessageReference

	mu        sync.Mutex
	messageID string
}

func newChannelOutput(api MessageAPI, msg *discordgo.Message) *channelOutput {
	return &channelOutput{
		api:       api,
		channelID: msg.ChannelID,
		reference: msg.Reference(),
	}
}

func (o *channelOutput) Pending(ctx context.Context, text string) error {
	sent, err := o.api.ChannelMessageSendComplex(o.channelID, &discordgo.MessageSend{Content: text}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send progress: %w", err)
	}
	o.mu.Lock()
	o.messageID = sent.ID
	o.mu.Unlock()
	return nil
}

func (o *channelOutput) Render(ctx context.Context, v present.View) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.messageID == "" {
		sent, err := o.api.ChannelMessageSendComplex(o.channelID, &discordgo.MessageSend{
			Content:    v.Content,
			Embeds:     v.Embeds,
			Components: v.Components,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("send result: %w", err)
		}
		o.messageID = sent.ID
		return nil
	}

	content, embeds, components := editParts(v)
	_, err := o.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         o.messageID,
		Channel:    o.channelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("edit result: %w", err)
	}
	return nil
}

func (o *channelOutput) Reply(ctx context.Context, text string) error {
	_, err := o.api.ChannelMessageSendComplex(o.channelID, &discordgo.MessageSend{
		Content:   text,
		Reference: o.reference,
	}, discordgo.WithContext(ctx))
	return err
}

// interactionOutput answers a slash command. Pending defers the response; later calls
// edit the deferred reply.
type interactionOutput struct {
	api         InteractionAPI
	interaction *discordgo.Interaction

	mu       sync.Mutex
	deferred bool
}

func newInteractionOutput(api InteractionAPI, i *discordgo.Interaction) *interactionOutput {
	return &interactionOutput{api: api, interaction: i}
}

func (o *interactionOutput) Pending(ctx context.Context, _ string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.deferred {
		return nil
	}
	err := o.api.InteractionRespond(o.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("defer reply: %w", err)
	}
	o.deferred = true
	return nil
}

func (o *interactionOutput) Render(ctx context.Context, v present.View) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.deferred {
		return o.api.InteractionRespond(o.interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    v.Content,
				Embeds:     v.Embeds,
				Components: v.Components,
			},
		}, discordgo.WithContext(ctx))
	}

	content, embeds, components := editParts(v)
	_, err := o.api.InteractionResponseEdit(o.interaction, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	return err
}

func (o *interactionOutput) Reply(ctx context.Context, text string) error {
	o.mu.Lock()
	deferred := o.deferred
	o.mu.Unlock()
	if deferred {
		return o.Render(ctx, present.View{Content: text})
	}
	return respondEphemeral(ctx, o.api, o.interaction, text)
}

func respondEphemeral(ctx context.Context, api InteractionAPI, i *discordgo.Interaction, text string) error {
	return api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: text,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
}

// editParts returns non-nil slices so an edit clears stale embeds and buttons.
func editParts(v present.View) (string, []*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embeds := v.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := v.Components
	if components == nil {
		components = []discordgo.MessageComponent{}
	}
	return v.Content, embeds, components
}
