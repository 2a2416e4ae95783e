package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"portfolio/internal/models"
)

// DocumentRepo — долговременное хранилище документов по коллекциям.
// Порядок List — порядок вставки.
type DocumentRepo interface {
	List(ctx context.Context, collection string) ([]models.ContentDocument, error)
	First(ctx context.Context, collection string) (*models.ContentDocument, error)
	Get(ctx context.Context, collection, id string) (*models.ContentDocument, error)
	Insert(ctx context.Context, doc *models.ContentDocument) error
	// Update сливает patch в payload (верхний уровень) и ставит updated_at.
	Update(ctx context.Context, collection, id string, patch models.Payload, updatedAt time.Time) (*models.ContentDocument, error)
	Delete(ctx context.Context, collection, id string) error
	// WithLock выполняет fn под именованной блокировкой, общей для всех
	// экземпляров, работающих с этим хранилищем.
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

type pgDocumentRepo struct{ db *pgxpool.Pool }

func NewDocumentRepo(db *pgxpool.Pool) DocumentRepo { return &pgDocumentRepo{db: db} }

const documentColumns = `id, collection, payload, created_at, updated_at`

func (r *pgDocumentRepo) List(ctx context.Context, collection string) ([]models.ContentDocument, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+documentColumns+` FROM content_documents WHERE collection=$1 ORDER BY seq`,
		collection,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.ContentDocument{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *pgDocumentRepo) First(ctx context.Context, collection string) (*models.ContentDocument, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM content_documents WHERE collection=$1 ORDER BY seq LIMIT 1`,
		collection,
	)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (r *pgDocumentRepo) Get(ctx context.Context, collection, id string) (*models.ContentDocument, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM content_documents WHERE collection=$1 AND id=$2`,
		collection, id,
	)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return d, err
}

func (r *pgDocumentRepo) Insert(ctx context.Context, doc *models.ContentDocument) error {
	payloadJSON, err := json.Marshal(doc.Payload)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO content_documents (collection, id, payload, created_at, updated_at)
		 VALUES ($1,$2,$3::jsonb,$4,$5)`,
		doc.Collection, doc.ID, payloadJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	return err
}

func (r *pgDocumentRepo) Update(ctx context.Context, collection, id string, patch models.Payload, updatedAt time.Time) (*models.ContentDocument, error) {
	patchJSON, err := json.Marshal(patch)
	if err != nil {
		return nil, err
	}
	// jsonb || jsonb — ровно слияние верхнего уровня
	row := r.db.QueryRow(ctx,
		`UPDATE content_documents
		 SET payload = payload || $3::jsonb,
		     updated_at = $4
		 WHERE collection=$1 AND id=$2
		 RETURNING `+documentColumns,
		collection, id, patchJSON, updatedAt,
	)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return d, err
}

func (r *pgDocumentRepo) Delete(ctx context.Context, collection, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_documents WHERE collection=$1 AND id=$2`, collection, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// WithLock держит сессионный advisory lock на отдельном соединении пула,
// пока выполняется fn. Сама fn работает через пул как обычно.
func (r *pgDocumentRepo) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock(hashtext($1))`, name); err != nil {
		return err
	}
	defer func() {
		// контекст запроса мог уже истечь, а блокировку нужно снять
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock(hashtext($1))`, name); err != nil {
			// соединение с висящей блокировкой не должно вернуться в пул
			_ = conn.Conn().Close(unlockCtx)
		}
	}()
	return fn(ctx)
}

func scanDocument(row pgx.Row) (*models.ContentDocument, error) {
	var d models.ContentDocument
	var payloadRaw []byte
	if err := row.Scan(&d.ID, &d.Collection, &payloadRaw, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payloadRaw, &d.Payload); err != nil {
		return nil, err
	}
	if d.Payload == nil {
		d.Payload = models.Payload{}
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}
