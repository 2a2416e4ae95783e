package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailer запоминает письма вместо отправки.
type fakeMailer struct {
	mu   sync.Mutex
	jobs []EmailJob
	full bool
}

func (m *fakeMailer) Enqueue(job EmailJob) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.full {
		return false
	}
	m.jobs = append(m.jobs, job)
	return true
}

func TestContactSubmitNotifiesAdmin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	mailer := &fakeMailer{}
	svc := NewContactService(store, NewNotifier(mailer, "admin@example.com", "https://site.dev/"))

	id, err := svc.Submit(ctx, models.ContactMessagePayload{
		Name:    "  Ann ",
		Email:   "ann@example.com",
		Subject: "Hello\r\nBcc: evil@example.com",
		Message: "<script>alert(1)</script>",
		Read:    true,
	})
	require.NoError(t, err)

	doc, err := store.Get(ctx, models.CollectionContactMessages, id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", doc.Payload.String("name"))
	assert.Equal(t, false, doc.Payload["read"], "новое сообщение всегда непрочитано")

	require.Len(t, mailer.jobs, 1)
	job := mailer.jobs[0]
	assert.Equal(t, []string{"admin@example.com"}, job.To)
	assert.True(t, job.IsHTML)
	assert.NotContains(t, job.Subject, "\n")
	assert.NotContains(t, job.Subject, "\r")
	assert.Contains(t, job.Body, "https://site.dev/admin/messages/"+id)
	assert.NotContains(t, job.Body, "<script>")
}

func TestContactSubmitValidation(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewContactService(newTestStore(), NewNotifier(mailer, "admin@example.com", ""))

	_, err := svc.Submit(context.Background(), models.ContactMessagePayload{Name: "Ann", Email: "nope", Message: "hi"})
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Empty(t, mailer.jobs)
}

func TestContactSubmitWithoutAdminEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewContactService(newTestStore(), NewNotifier(mailer, "", ""))

	_, err := svc.Submit(context.Background(), models.ContactMessagePayload{Name: "Ann", Email: "ann@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Empty(t, mailer.jobs)
}

func TestContactSubmitSurvivesFullQueue(t *testing.T) {
	mailer := &fakeMailer{full: true}
	svc := NewContactService(newTestStore(), NewNotifier(mailer, "admin@example.com", ""))

	_, err := svc.Submit(context.Background(), models.ContactMessagePayload{Name: "Ann", Email: "ann@example.com", Message: "hi"})
	assert.NoError(t, err, "сбой уведомления не отменяет сохранение")
}

func TestContactInboxAndMarkRead(t *testing.T) {
	ctx := context.Background()
	svc := NewContactService(newTestStore(), nil)

	first, err := svc.Submit(ctx, models.ContactMessagePayload{Name: "A", Email: "a@example.com", Message: "first"})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, models.ContactMessagePayload{Name: "B", Email: "b@example.com", Message: "second"})
	require.NoError(t, err)

	inbox, err := svc.Inbox(ctx)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, second, inbox[0].ID)
	assert.Equal(t, first, inbox[1].ID)

	require.NoError(t, svc.MarkRead(ctx, first, true))
	inbox, err = svc.Inbox(ctx)
	require.NoError(t, err)
	assert.Equal(t, true, inbox[1].Payload["read"])

	assert.True(t, errors.Is(svc.MarkRead(ctx, "missing", true), models.ErrNotFound))
}

// fakeSender — EmailSender для проверки очереди.
type fakeSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *fakeSender) Send(to []string, subject, body string) error {
	return s.record("text:" + subject)
}

func (s *fakeSender) SendHTML(to []string, subject, body string) error {
	return s.record("html:" + subject)
}

func (s *fakeSender) record(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("smtp down")
	}
	s.sent = append(s.sent, v)
	return nil
}

func TestEmailQueueDeliversBeforeStop(t *testing.T) {
	sender := &fakeSender{}
	q := NewEmailQueue(sender, 4)
	q.Start()

	assert.True(t, q.Enqueue(EmailJob{To: []string{"a@example.com"}, Subject: "one"}))
	assert.True(t, q.Enqueue(EmailJob{To: []string{"a@example.com"}, Subject: "two", IsHTML: true}))

	q.Stop(context.Background())
	assert.Equal(t, []string{"text:one", "html:two"}, sender.sent)

	assert.False(t, q.Enqueue(EmailJob{Subject: "late"}), "после остановки письма не принимаются")
	q.Stop(context.Background())
}

func TestEmailQueueDropsWhenFull(t *testing.T) {
	q := NewEmailQueue(&fakeSender{}, 1)
	assert.True(t, q.Enqueue(EmailJob{Subject: "a"}))
	assert.False(t, q.Enqueue(EmailJob{Subject: "b"}))
}

func TestEmailQueueSurvivesSendErrors(t *testing.T) {
	sender := &fakeSender{fail: true}
	q := NewEmailQueue(sender, 2)
	q.Start()
	q.Enqueue(EmailJob{Subject: "x"})
	q.Stop(context.Background())
	assert.Empty(t, sender.sent)
}

func TestEmailServiceRequiresHost(t *testing.T) {
	s := &EmailService{}
	err := s.Send([]string{"a@example.com"}, "s", "b")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "smtp"), err.Error())
}
