package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lanwatch-dev/lanwatch/internal/config"
	"github.com/lanwatch-dev/lanwatch/internal/models"
)

type DiscordWebhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordEmbed struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Color       int                   `json:"color"`
	Fields      []DiscordWebhookField `json:"fields"`
	Footer      *DiscordFooter        `json:"footer,omitempty"`
	Timestamp   string                `json:"timestamp"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

type DiscordWebhookRequest struct {
	Username string         `json:"username"`
	Embeds   []DiscordEmbed `json:"embeds"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type SlackAttachment struct {
	Color     string       `json:"color"`
	Title     string       `json:"title"`
	Text      string       `json:"text"`
	Fields    []SlackField `json:"fields"`
	Footer    string       `json:"footer"`
	Timestamp int64        `json:"ts"`
}

type SlackWebhookRequest struct {
	Username    string            `json:"username"`
	IconEmoji   string            `json:"icon_emoji,omitempty"`
	Text        string            `json:"text"`
	Attachments []SlackAttachment `json:"attachments"`
}

const (
	ColorRed   = 16711680 // #FF0000 - Incident created
	ColorGreen = 65280    // #00FF00 - Incident resolved

	Username = "LANWatch Monitor"
)

// WebhookNotifier forwards incident lifecycle events to the configured
// Discord/Slack webhooks and records every attempt as a Notification row.
type WebhookNotifier struct {
	db  *gorm.DB
	cfg config.WebhooksConfig
}

func NewWebhookNotifier(db *gorm.DB, cfg config.WebhooksConfig) *WebhookNotifier {
	return &WebhookNotifier{db: db, cfg: cfg}
}

func (n *WebhookNotifier) IncidentCreated(incident models.Incident) {
	if n.cfg.Discord != "" {
		err := sendDiscordWebhook(n.cfg.Discord, discordIncidentCreated(incident))
		n.record(incident, "discord", "incident_created", err)
	}

	if n.cfg.Slack != "" {
		err := sendSlackWebhook(n.cfg.Slack, slackIncidentCreated(incident))
		n.record(incident, "slack", "incident_created", err)
	}
}

func (n *WebhookNotifier) IncidentResolved(incident models.Incident) {
	if n.cfg.Discord != "" {
		err := sendDiscordWebhook(n.cfg.Discord, discordIncidentResolved(incident))
		n.record(incident, "discord", "incident_resolved", err)
	}

	if n.cfg.Slack != "" {
		err := sendSlackWebhook(n.cfg.Slack, slackIncidentResolved(incident))
		n.record(incident, "slack", "incident_resolved", err)
	}
}

func (n *WebhookNotifier) record(incident models.Incident, channel, trigger string, sendErr error) {
	now := time.Now().UTC()

	notification := models.Notification{
		IncidentID: incident.ID,
		Channel:    channel,
		Trigger:    trigger,
		Status:     "sent",
		Message:    incident.Description,
		SentAt:     &now,
	}

	if sendErr != nil {
		notification.Status = "failed"
		notification.SentAt = nil
		log.Printf("Failed to send %s notification for incident %d: %v", channel, incident.ID, sendErr)
	}

	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Failed to record notification for incident %d: %v", incident.ID, err)
	}
}

func affectedTargets(incident models.Incident) string {
	var targets []string

	if err := json.Unmarshal(incident.AffectedTargets, &targets); err != nil || len(targets) == 0 {
		return "Unknown"
	}

	return strings.Join(targets, ", ")
}

func discordIncidentCreated(incident models.Incident) DiscordWebhookRequest {
	fields := []DiscordWebhookField{
		{Name: "Type", Value: incident.IncidentType, Inline: true},
		{Name: "Severity", Value: "**" + incident.Severity + "**", Inline: true},
		{Name: "Affected", Value: affectedTargets(incident), Inline: true},
		{Name: "Description", Value: incident.Description, Inline: false},
		{Name: "Started At", Value: incident.StartTime.Format("2006-01-02 15:04:05 UTC"), Inline: true},
	}

	if incident.ProbableCause != "" {
		fields = append(fields, DiscordWebhookField{Name: "Probable Cause", Value: incident.ProbableCause, Inline: false})
	}

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "🚨 **INCIDENT DETECTED**",
				Description: incident.Description,
				Color:       ColorRed,
				Fields:      fields,
				Footer:      &DiscordFooter{Text: "LANWatch Monitoring"},
				Timestamp:   time.Now().Format(time.RFC3339),
			},
		},
	}
}

func discordIncidentResolved(incident models.Incident) DiscordWebhookRequest {
	resolvedAt := "Unknown"
	duration := "Unknown"

	if incident.EndTime != nil {
		resolvedAt = incident.EndTime.Format("2006-01-02 15:04:05 UTC")
	}

	if incident.DurationSeconds != nil {
		duration = (time.Duration(*incident.DurationSeconds) * time.Second).String()
	}

	return DiscordWebhookRequest{
		Username: Username,
		Embeds: []DiscordEmbed{
			{
				Title:       "✅ **INCIDENT RESOLVED**",
				Description: incident.Description,
				Color:       ColorGreen,
				Fields: []DiscordWebhookField{
					{Name: "Type", Value: incident.IncidentType, Inline: true},
					{Name: "Affected", Value: affectedTargets(incident), Inline: true},
					{Name: "Started At", Value: incident.StartTime.Format("2006-01-02 15:04:05 UTC"), Inline: true},
					{Name: "Resolved At", Value: resolvedAt, Inline: true},
					{Name: "Duration", Value: duration, Inline: true},
				},
				Footer:    &DiscordFooter{Text: "LANWatch Monitoring"},
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
	}
}

func slackIncidentCreated(incident models.Incident) SlackWebhookRequest {
	fields := []SlackField{
		{Title: "Type", Value: incident.IncidentType, Short: true},
		{Title: "Severity", Value: incident.Severity, Short: true},
		{Title: "Affected", Value: affectedTargets(incident), Short: true},
		{Title: "Started At", Value: incident.StartTime.Format("2006-01-02 15:04:05 UTC"), Short: true},
	}

	if incident.ProbableCause != "" {
		fields = append(fields, SlackField{Title: "Probable Cause", Value: incident.ProbableCause, Short: false})
	}

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":rotating_light:",
		Text:      ":rotating_light: *INCIDENT DETECTED*",
		Attachments: []SlackAttachment{
			{
				Color:     "danger",
				Title:     incident.Description,
				Text:      incident.Description,
				Fields:    fields,
				Footer:    "LANWatch Monitoring",
				Timestamp: time.Now().Unix(),
			},
		},
	}
}

func slackIncidentResolved(incident models.Incident) SlackWebhookRequest {
	duration := "Unknown"

	if incident.DurationSeconds != nil {
		duration = (time.Duration(*incident.DurationSeconds) * time.Second).String()
	}

	return SlackWebhookRequest{
		Username:  Username,
		IconEmoji: ":white_check_mark:",
		Text:      ":white_check_mark: *INCIDENT RESOLVED*",
		Attachments: []SlackAttachment{
			{
				Color: "good",
				Title: incident.Description,
				Text:  "The incident has been resolved.",
				Fields: []SlackField{
					{Title: "Type", Value: incident.IncidentType, Short: true},
					{Title: "Affected", Value: affectedTargets(incident), Short: true},
					{Title: "Duration", Value: duration, Short: true},
				},
				Footer:    "LANWatch Monitoring",
				Timestamp: time.Now().Unix(),
			},
		},
	}
}

func sendDiscordWebhook(webhookURL string, payload DiscordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}

func sendSlackWebhook(webhookURL string, payload SlackWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Slack payload: %w", err)
	}

	resp, err := http.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Slack webhook returned status %d", resp.StatusCode)
	}

	return nil
}
