package services

import (
	"context"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// Mailer — то, куда Notifier складывает письма (EmailQueue).
type Mailer interface {
	Enqueue(job EmailJob) bool
}

// Notifier собирает письма администратору о событиях сайта.
type Notifier struct {
	mailer     Mailer
	adminEmail string
	baseURL    string
}

func NewNotifier(mailer Mailer, adminEmail, baseURL string) *Notifier {
	return &Notifier{
		mailer:     mailer,
		adminEmail: strings.TrimSpace(adminEmail),
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NotifyContactMessage уведомляет администратора о новом сообщении из формы.
// Без ADMIN_EMAIL уведомление молча пропускается.
func (n *Notifier) NotifyContactMessage(ctx context.Context, id string, msg models.ContactMessagePayload) {
	if n == nil || n.mailer == nil || n.adminEmail == "" {
		return
	}

	subject := "Новое сообщение с сайта"
	if s := strings.TrimSpace(msg.Subject); s != "" {
		subject += ": " + strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
	}

	link := ""
	if n.baseURL != "" {
		link = n.baseURL + "/admin/messages/" + id
	}
	body := helpers.BuildContactMessageHTML(msg.Name, msg.Email, msg.Message, link)

	if !n.mailer.Enqueue(EmailJob{To: []string{n.adminEmail}, Subject: subject, Body: body, IsHTML: true}) {
		logger.WithCtx(ctx).Warn("Уведомление о сообщении не поставлено в очередь", zap.String("id", id))
	}
}
