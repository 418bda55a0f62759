package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/daiquydev/fedacn-sub001/internal/models"
	"github.com/daiquydev/fedacn-sub001/pkg/config"
	"go.uber.org/zap"
)

// discordSendInterval keeps us under Discord's per-channel rate limit
const discordSendInterval = 2 * time.Second

// DiscordMirror posts notifications to one Discord channel as embeds.
// Publish never blocks; a background loop drains the queue one message per
// tick.
type DiscordMirror struct {
	session     *discordgo.Session
	channelID   string
	queue       chan *models.Notification
	logger      *zap.Logger
	rateLimiter *time.Ticker
}

// NewDiscordMirror creates a Discord session for the configured bot token
func NewDiscordMirror(cfg *config.Config, log *zap.Logger) (*DiscordMirror, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	return &DiscordMirror{
		session:     session,
		channelID:   cfg.DiscordChannelID,
		queue:       make(chan *models.Notification, 256),
		logger:      log.Named("discord-mirror"),
		rateLimiter: time.NewTicker(discordSendInterval),
	}, nil
}

// Publish queues n. When the queue is full the notification is dropped.
func (m *DiscordMirror) Publish(n *models.Notification) {
	select {
	case m.queue <- n:
	default:
		m.logger.Warn("Discord queue full, dropping notification",
			zap.String("type", string(n.Type)))
	}
}

// Run sends queued notifications until ctx is cancelled
func (m *DiscordMirror) Run(ctx context.Context) {
	m.logger.Info("Starting Discord mirror", zap.String("channel_id", m.channelID))
	defer m.rateLimiter.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Discord mirror stopped")
			return
		case n := <-m.queue:
			select {
			case <-ctx.Done():
				return
			case <-m.rateLimiter.C:
			}

			if _, err := m.session.ChannelMessageSendEmbed(m.channelID, notificationEmbed(n)); err != nil {
				m.logger.Error("Failed to send Discord message",
					zap.Error(err),
					zap.String("channel_id", m.channelID))
				continue
			}
			m.logger.Debug("Mirrored notification", zap.String("id", n.ID.Hex()))
		}
	}
}

// Close closes the Discord session
func (m *DiscordMirror) Close() error {
	return m.session.Close()
}

var embedTitles = map[models.NotificationType]string{
	models.NotificationLike:         "New like",
	models.NotificationComment:      "New comment",
	models.NotificationRating:       "New rating",
	models.NotificationInvite:       "Meal plan invite",
	models.NotificationFollow:       "New follower",
	models.NotificationMealReminder: "Meal reminder",
}

// embedColors by notification type
var embedColors = map[models.NotificationType]int{
	models.NotificationLike:         0xE91E63,
	models.NotificationComment:      0x3498DB,
	models.NotificationRating:       0xF1C40F,
	models.NotificationInvite:       0x9B59B6,
	models.NotificationFollow:       0x1ABC9C,
	models.NotificationMealReminder: 0x2ECC71,
}

func notificationEmbed(n *models.Notification) *discordgo.MessageEmbed {
	title, ok := embedTitles[n.Type]
	if !ok {
		title = "Notification"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Receiver",
			Value:  n.ReceiverID.Hex(),
			Inline: true,
		},
	}
	if n.TargetID != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Target",
			Value:  n.TargetID.Hex(),
			Inline: true,
		})
	}

	return &discordgo.MessageEmbed{
		Title:       title,
		Description: n.Content,
		Color:       embedColors[n.Type],
		Fields:      fields,
		Timestamp:   n.CreatedAt.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: string(n.Type),
		},
	}
}
