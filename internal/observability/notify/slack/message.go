package slack

import "github.com/target/seyren-notify/internal/observability/notify"

// webhookMessage is the incoming-webhook body. Field order is the wire order.
type webhookMessage struct {
	Channel     string       `json:"channel"`
	Username    string       `json:"username"`
	IconEmoji   string       `json:"icon_emoji"`
	Text        string       `json:"text,omitempty"`
	LinkNames   int          `json:"link_names,omitempty"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	Color     string  `json:"color"`
	Title     string  `json:"title"`
	TitleLink string  `json:"title_link"`
	Fields    []field `json:"fields"`
}

// field.Short is omitted for long fields.
type field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short,omitempty"`
}

func (n *Notifier) buildMessage(msg *notify.Message, channel, username string) webhookMessage {
	fields := make([]field, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, field{Title: f.Label, Value: f.Value, Short: f.Short})
	}

	out := webhookMessage{
		Channel:   "#" + channel,
		Username:  username,
		IconEmoji: n.iconEmoji,
		Attachments: []attachment{{
			Color:     msg.Color,
			Title:     msg.Title,
			TitleLink: msg.Link,
			Fields:    fields,
		}},
	}
	if msg.Mention {
		out.Text = mentionText
		out.LinkNames = 1
	}
	return out
}
