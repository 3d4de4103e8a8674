package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mahek9015/community-learning-hub/internal/models"
)

type contentsRepo struct{ pool *pgxpool.Pool }

const contentCols = `id, title, description, source, source_url, author, author_url, thumbnail, category, is_premium, credit_point_price, created_at`

func scanContent(row pgx.Row) (models.Content, error) {
	var c models.Content
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.Source, &c.SourceURL,
		&c.Author, &c.AuthorURL, &c.Thumbnail, &c.Category,
		&c.IsPremium, &c.CreditPointPrice, &c.CreatedAt)
	return c, err
}

func (r *contentsRepo) Create(ctx context.Context, c models.Content) (models.Content, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contents(id, title, description, source, source_url, author, author_url, thumbnail, category, is_premium, credit_point_price)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING created_at`,
		c.ID, c.Title, c.Description, c.Source, c.SourceURL, c.Author,
		c.AuthorURL, c.Thumbnail, c.Category, c.IsPremium, c.CreditPointPrice,
	).Scan(&c.CreatedAt)
	if err != nil {
		return models.Content{}, storageErr(err)
	}
	return c, nil
}

func (r *contentsRepo) GetByID(ctx context.Context, id string) (models.Content, error) {
	c, err := scanContent(r.pool.QueryRow(ctx,
		`SELECT `+contentCols+` FROM contents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Content{}, models.ErrNotFound
	}
	if err != nil {
		return models.Content{}, storageErr(err)
	}
	return c, nil
}

func (r *contentsRepo) ExistsBySourceURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM contents WHERE source_url = $1)`, url,
	).Scan(&exists)
	if err != nil {
		return false, storageErr(err)
	}
	return exists, nil
}

// filterClause builds the WHERE part for feed listing/search.
func filterClause(f models.ContentFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Source != "" {
		args = append(args, f.Source)
		conds = append(conds, fmt.Sprintf("source = $%d", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *contentsRepo) List(ctx context.Context, f models.ContentFilter, limit, offset int) ([]models.Content, error) {
	where, args := filterClause(f)
	args = append(args, limit, offset)
	q := fmt.Sprintf(`SELECT `+contentCols+` FROM contents%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()
	return collectContents(rows)
}

func (r *contentsRepo) Count(ctx context.Context, f models.ContentFilter) (int64, error) {
	where, args := filterClause(f)
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM contents`+where, args...).Scan(&n)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}

func (r *contentsRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *contentsRepo) Save(ctx context.Context, userID, contentID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO saved_contents(user_id, content_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, content_id) DO NOTHING`,
		userID, contentID,
	)
	if err != nil {
		return false, storageErr(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *contentsRepo) SavedByUser(ctx context.Context, userID string) ([]models.Content, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedContentCols("c")+`
		  FROM contents c
		  JOIN saved_contents s ON s.content_id = c.id
		 WHERE s.user_id = $1
		 ORDER BY s.created_at`,
		userID,
	)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()
	return collectContents(rows)
}

func (r *contentsRepo) Report(ctx context.Context, contentID, userID, reason string) error {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO content_reports(id, content_id, user_id, reason)
		SELECT $1, $2, $3, $4 WHERE EXISTS(SELECT 1 FROM contents WHERE id = $2)`,
		uuid.NewString(), contentID, userID, reason,
	)
	if err != nil {
		return storageErr(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *contentsRepo) Reported(ctx context.Context, limit, offset int) ([]models.Content, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedContentCols("c")+`, count(rep.id) AS report_count
		  FROM contents c
		  JOIN content_reports rep ON rep.content_id = c.id
		 GROUP BY c.id
		 ORDER BY max(rep.created_at) DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, storageErr(err)
	}
	defer rows.Close()

	var out []models.Content
	for rows.Next() {
		var c models.Content
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Source, &c.SourceURL,
			&c.Author, &c.AuthorURL, &c.Thumbnail, &c.Category,
			&c.IsPremium, &c.CreditPointPrice, &c.CreatedAt, &c.ReportCount); err != nil {
			return nil, storageErr(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

func (r *contentsRepo) CountReported(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(DISTINCT content_id) FROM content_reports`,
	).Scan(&n)
	if err != nil {
		return 0, storageErr(err)
	}
	return n, nil
}

func (r *contentsRepo) ClearReports(ctx context.Context, contentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM content_reports WHERE content_id = $1`, contentID)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *contentsRepo) MarkUnlocked(ctx context.Context, userID, contentID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO unlocked_contents(user_id, content_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, content_id) DO NOTHING`,
		userID, contentID,
	)
	if err != nil {
		return storageErr(err)
	}
	return nil
}

func (r *contentsRepo) IsUnlocked(ctx context.Context, userID, contentID string) (bool, error) {
	var unlocked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM unlocked_contents WHERE user_id = $1 AND content_id = $2)`,
		userID, contentID,
	).Scan(&unlocked)
	if err != nil {
		return false, storageErr(err)
	}
	return unlocked, nil
}

func prefixedContentCols(alias string) string {
	cols := strings.Split(contentCols, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func collectContents(rows pgx.Rows) ([]models.Content, error) {
	var out []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, storageErr(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}
