package services

import (
	"context"
	"sync"

	"portfolio/internal/logger"

	"go.uber.org/zap"
)

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// EmailQueue — буферизованная очередь писем с одним фоновым воркером.
// Отправка не блокирует HTTP-запрос: при переполнении письмо отбрасывается.
type EmailQueue struct {
	sender EmailSender
	jobs   chan EmailJob
	wg     sync.WaitGroup
	once   sync.Once
}

func NewEmailQueue(sender EmailSender, size int) *EmailQueue {
	if size <= 0 {
		size = 100
	}
	return &EmailQueue{sender: sender, jobs: make(chan EmailJob, size)}
}

// Enqueue ставит письмо в очередь; false — очередь переполнена или закрыта.
func (q *EmailQueue) Enqueue(job EmailJob) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case q.jobs <- job:
		return true
	default:
		logger.Log.Warn("Очередь писем переполнена, письмо отброшено", zap.String("subject", job.Subject))
		return false
	}
}

// Start запускает воркер. Он завершается после Stop, дослав уже принятые письма.
func (q *EmailQueue) Start() {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for job := range q.jobs {
			var err error
			if job.IsHTML {
				err = q.sender.SendHTML(job.To, job.Subject, job.Body)
			} else {
				err = q.sender.Send(job.To, job.Subject, job.Body)
			}
			if err != nil {
				logger.Log.Error("Не удалось отправить письмо", zap.Strings("to", job.To), zap.Error(err))
			}
		}
	}()
}

// Stop закрывает очередь и ждёт воркер, но не дольше ctx.
func (q *EmailQueue) Stop(ctx context.Context) {
	q.once.Do(func() { close(q.jobs) })
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logger.Log.Warn("Очередь писем не успела опустеть до остановки")
	}
}
