package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// MessageTemplates are the organizer-facing message bodies. Placeholders
// use Go template syntax and receive the fields of notification.TemplateData.
type MessageTemplates struct {
	InviteSubject string `mapstructure:"inviteSubject"`
	InviteText    string `mapstructure:"inviteText"`
	InviteHTML    string `mapstructure:"inviteHtml"`

	ConfirmSubject string `mapstructure:"confirmSubject"`
	ConfirmText    string `mapstructure:"confirmText"`
	ConfirmHTML    string `mapstructure:"confirmHtml"`
}

func DefaultMessageTemplates() MessageTemplates {
	return MessageTemplates{
		InviteSubject: "RSVP Request for {{.EventTitle}}",
		InviteText: "Dear {{.GuestName}},\n\n" +
			"You are cordially invited to celebrate the wedding of {{.CoupleNames}}.\n\n" +
			"When: {{.StartDate}} to {{.EndDate}}\nWhere: {{.Location}}\n\n" +
			"Please let us know if you'll be joining us by visiting:\n{{.RSVPLink}}\n\n" +
			"We look forward to celebrating with you!\n\n{{.CoupleNames}}",
		InviteHTML: "<div style=\"font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;\">" +
			"<h2>{{.EventTitle}}</h2>" +
			"<p>Dear {{.GuestName}},</p>" +
			"<p>You are cordially invited to celebrate the wedding of <strong>{{.CoupleNames}}</strong>.</p>" +
			"<p><strong>When:</strong> {{.StartDate}} to {{.EndDate}}<br><strong>Where:</strong> {{.Location}}</p>" +
			"<p style=\"text-align: center; margin: 30px 0;\"><a href=\"{{.RSVPLink}}\">RSVP Now</a></p>" +
			"<p>If the button doesn't work, copy this link into your browser:<br>" +
			"<a href=\"{{.RSVPLink}}\">{{.RSVPLink}}</a></p>" +
			"<p style=\"font-style: italic;\">{{.CoupleNames}}</p></div>",

		ConfirmSubject: "Your RSVP for {{.EventTitle}} - {{.RSVPStatus}}",
		ConfirmText: "Dear {{.GuestName}},\n\n" +
			"Thank you for your RSVP response for {{.EventTitle}}.\n\n" +
			"Your response: {{.RSVPStatus}}\n\nRegards,\n{{.CoupleNames}}",
		ConfirmHTML: "<p>Dear {{.GuestName}},</p>" +
			"<p>Thank you for your RSVP response for {{.EventTitle}}.</p>" +
			"<p><strong>Your response:</strong> {{.RSVPStatus}}</p>" +
			"<p>Regards,<br>{{.CoupleNames}}</p>",
	}
}

// TemplateHolder serves the current message templates and hot-reloads
// them when the templates file changes on disk.
type TemplateHolder struct {
	current atomic.Value // holds MessageTemplates
}

func NewTemplateHolder() (*TemplateHolder, error) {
	v := viper.New()

	v.SetConfigName("templates")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/vowsuite/config")
	v.AddConfigPath("/etc/vowsuite")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VOWSUITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	holder := &TemplateHolder{}
	holder.current.Store(merge(v))

	if v.ConfigFileUsed() != "" {
		v.OnConfigChange(func(_ fsnotify.Event) {
			holder.current.Store(merge(v))
			log.Printf("message templates reloaded from %s", v.ConfigFileUsed())
		})
		v.WatchConfig()
	}

	return holder, nil
}

// NewStaticTemplateHolder wraps fixed templates, without file watching.
func NewStaticTemplateHolder(tpl MessageTemplates) *TemplateHolder {
	holder := &TemplateHolder{}
	holder.current.Store(tpl)
	return holder
}

func (h *TemplateHolder) Current() MessageTemplates {
	return h.current.Load().(MessageTemplates)
}

// merge overlays file values on the compiled-in defaults so a partial
// templates file only overrides what it names.
func merge(v *viper.Viper) MessageTemplates {
	tpl := DefaultMessageTemplates()

	var overlay MessageTemplates
	if err := v.UnmarshalKey("messages", &overlay); err != nil {
		log.Printf("invalid message templates, keeping defaults: %v", err)
		return tpl
	}

	if strings.TrimSpace(overlay.InviteSubject) != "" {
		tpl.InviteSubject = overlay.InviteSubject
	}
	if strings.TrimSpace(overlay.InviteText) != "" {
		tpl.InviteText = overlay.InviteText
	}
	if strings.TrimSpace(overlay.InviteHTML) != "" {
		tpl.InviteHTML = overlay.InviteHTML
	}
	if strings.TrimSpace(overlay.ConfirmSubject) != "" {
		tpl.ConfirmSubject = overlay.ConfirmSubject
	}
	if strings.TrimSpace(overlay.ConfirmText) != "" {
		tpl.ConfirmText = overlay.ConfirmText
	}
	if strings.TrimSpace(overlay.ConfirmHTML) != "" {
		tpl.ConfirmHTML = overlay.ConfirmHTML
	}

	return tpl
}
