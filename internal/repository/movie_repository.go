package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movies-api/internal/database"
	"github.com/iliyamo/movies-api/internal/metrics"
	"github.com/iliyamo/movies-api/internal/model"
)

// Movies is the persistence contract for movie records.
type Movies interface {
	FindAll(ctx context.Context) ([]model.Movie, error)
	FindByID(ctx context.Context, id int64) (*model.Movie, error)
	Create(ctx context.Context, f model.MovieFields) (*model.Movie, error)
	Update(ctx context.Context, id int64, f model.MovieFields) (*model.Movie, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// MovieStore is Movies plus transactional scoping.  fn receives a
// repository bound to the transaction; the transaction commits when fn
// returns nil and rolls back otherwise.
type MovieStore interface {
	Movies
	InTx(ctx context.Context, fn func(Movies) error) error
}

// MovieRepo encapsulates all database queries related to movies.  A repo
// built with NewMovieRepo runs against the pool; the one handed to InTx
// callbacks runs against the open transaction.
type MovieRepo struct {
	db  *database.DB
	q   sqlx.ExtContext
	tx  bool
	now func() time.Time
}

// NewMovieRepo constructs a MovieRepo with the provided DB handle.
func NewMovieRepo(db *database.DB) *MovieRepo {
	return &MovieRepo{
		db:  db,
		q:   db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

const movieColumns = "id, title, description, rating, image, created_at, updated_at"

type movieRow struct {
	ID          int64           `db:"id"`
	Title       string          `db:"title"`
	Description sql.NullString  `db:"description"`
	Rating      sql.NullFloat64 `db:"rating"`
	Image       sql.NullString  `db:"image"`
	CreatedAt   dbTime          `db:"created_at"`
	UpdatedAt   dbTime          `db:"updated_at"`
}

func (r *movieRow) toModel() model.Movie {
	m := model.Movie{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: time.Time(r.CreatedAt),
		UpdatedAt: time.Time(r.UpdatedAt),
	}
	if r.Description.Valid {
		m.Description = &r.Description.String
	}
	if r.Rating.Valid {
		m.Rating = &r.Rating.Float64
	}
	if r.Image.Valid {
		m.Image = &r.Image.String
	}
	return m
}

func observe(op string, start time.Time) {
	metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// FindAll returns every movie ordered by id.
func (r *MovieRepo) FindAll(ctx context.Context) ([]model.Movie, error) {
	defer observe("find_all", time.Now())

	var rows []movieRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, "SELECT "+movieColumns+" FROM movies ORDER BY id"); err != nil {
		return nil, translate(err)
	}
	out := make([]model.Movie, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toModel())
	}
	return out, nil
}

// FindByID fetches a movie by its ID.  It returns nil, nil when no row matches.
func (r *MovieRepo) FindByID(ctx context.Context, id int64) (*model.Movie, error) {
	defer observe("find_by_id", time.Now())

	var row movieRow
	err := sqlx.GetContext(ctx, r.q, &row, r.q.Rebind("SELECT "+movieColumns+" FROM movies WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	m := row.toModel()
	return &m, nil
}

// Create validates and inserts a new movie.  Both timestamps are set to the
// same instant; after the insert the row is read back so callers receive a
// fully populated record.
func (r *MovieRepo) Create(ctx context.Context, f model.MovieFields) (*model.Movie, error) {
	if err := f.ValidateCreate(); err != nil {
		return nil, err
	}
	defer observe("create", time.Now())

	now := r.stamp(r.now())
	const qInsert = "INSERT INTO movies (title, description, rating, image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"
	args := []any{f.Title.SQLValue(), f.Description.SQLValue(), f.Rating.SQLValue(), f.Image.SQLValue(), now, now}

	var id int64
	if r.db.Dialect == database.Postgres {
		if err := r.q.QueryRowxContext(ctx, r.q.Rebind(qInsert+" RETURNING id"), args...).Scan(&id); err != nil {
			return nil, translate(err)
		}
	} else {
		res, err := r.q.ExecContext(ctx, r.q.Rebind(qInsert), args...)
		if err != nil {
			return nil, translate(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return nil, translate(err)
		}
	}

	m, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("movie %d not readable after insert", id)
	}
	return m, nil
}

// Update applies the provided fields to the movie and refreshes updated_at.
// A field provided as null clears its column.  Existence must be checked by
// the caller; for a missing id it returns nil, nil.
func (r *MovieRepo) Update(ctx context.Context, id int64, f model.MovieFields) (*model.Movie, error) {
	if err := f.ValidateUpdate(); err != nil {
		return nil, err
	}
	defer observe("update", time.Now())

	var (
		sets []string
		args []any
	)
	for _, col := range []struct {
		name string
		set  bool
		val  any
	}{
		{"title", f.Title.Set, f.Title.SQLValue()},
		{"description", f.Description.Set, f.Description.SQLValue()},
		{"rating", f.Rating.Set, f.Rating.SQLValue()},
		{"image", f.Image.Set, f.Image.SQLValue()},
	} {
		if col.set {
			sets = append(sets, col.name+" = ?")
			args = append(args, col.val)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, r.stamp(r.now()), id)

	q := "UPDATE movies SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(q), args...); err != nil {
		return nil, translate(err)
	}
	return r.FindByID(ctx, id)
}

// Delete removes the movie permanently and returns the number of rows removed.
func (r *MovieRepo) Delete(ctx context.Context, id int64) (int64, error) {
	defer observe("delete", time.Now())

	res, err := r.q.ExecContext(ctx, r.q.Rebind("DELETE FROM movies WHERE id = ?"), id)
	if err != nil {
		return 0, translate(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err)
	}
	return n, nil
}

// InTx runs fn with a repository bound to a new transaction.  Calling InTx
// on a repository that is already transactional reuses the open
// transaction.
func (r *MovieRepo) InTx(ctx context.Context, fn func(Movies) error) error {
	if r.tx {
		return fn(r)
	}
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&MovieRepo{db: r.db, q: tx, tx: true, now: r.now})
	})
	return translate(err)
}

// stamp converts t to the value bound for timestamp columns.  SQLite keeps
// them as RFC 3339 text.
func (r *MovieRepo) stamp(t time.Time) any {
	if r.db.Dialect == database.SQLite {
		return t.Format(time.RFC3339)
	}
	return t
}
