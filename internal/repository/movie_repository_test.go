package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movies-api/internal/failure"
	"github.com/iliyamo/movies-api/internal/model"
	"github.com/iliyamo/movies-api/internal/testsupport"
)

var (
	t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 = t0.Add(90 * time.Minute)
)

func newRepo(t *testing.T) *MovieRepo {
	t.Helper()
	repo := NewMovieRepo(testsupport.NewDB(t))
	repo.now = func() time.Time { return t0 }
	return repo
}

func TestCreateAndFind(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{
		Title:       model.Some("Alien"),
		Description: model.Some("In space no one can hear you scream."),
		Rating:      model.Some(8.5),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Alien", created.Title)
	require.Equal(t, 8.5, *created.Rating)
	require.Nil(t, created.Image)
	require.True(t, created.CreatedAt.Equal(t0))
	require.True(t, created.UpdatedAt.Equal(t0))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	missing, err := repo.FindByID(ctx, created.ID+100)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestFindAllOrdersByID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.NotNil(t, all)
	require.Empty(t, all)

	for _, title := range []string{"C", "A", "B"} {
		_, err := repo.Create(ctx, model.MovieFields{Title: model.Some(title)})
		require.NoError(t, err)
	}

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, []string{"C", "A", "B"}, []string{all[0].Title, all[1].Title, all[2].Title})
	require.Less(t, all[0].ID, all[1].ID)
	require.Less(t, all[1].ID, all[2].ID)
}

func TestCreateRejectsInvalidTitle(t *testing.T) {
	tests := []struct {
		name  string
		title model.Field[string]
		msg   string
	}{
		{name: "missing", msg: "Title must not be null"},
		{name: "null", title: model.Null[string](), msg: "Title must not be null"},
		{name: "empty", title: model.Some(""), msg: "Title must not be empty"},
		{name: "blank", title: model.Some("   "), msg: "Title must not be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			_, err := repo.Create(ctx, model.MovieFields{Title: tc.title, Rating: model.Some(5.0)})
			var fe *failure.Error
			require.ErrorAs(t, err, &fe)
			require.Equal(t, failure.KindValidation, fe.Kind)
			require.Len(t, fe.Fields, 1)
			require.Equal(t, tc.msg, fe.Fields[0].Message)

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Empty(t, all)
		})
	}
}

func TestUpdateAppliesProvidedFields(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{
		Title:  model.Some("Heat"),
		Rating: model.Some(7.0),
		Image:  model.Some("heat.jpg"),
	})
	require.NoError(t, err)

	repo.now = func() time.Time { return t1 }
	updated, err := repo.Update(ctx, created.ID, model.MovieFields{Rating: model.Some(9.0)})
	require.NoError(t, err)
	require.Equal(t, "Heat", updated.Title)
	require.Equal(t, 9.0, *updated.Rating)
	require.Equal(t, "heat.jpg", *updated.Image)
	require.True(t, updated.CreatedAt.Equal(t0))
	require.True(t, updated.UpdatedAt.Equal(t1))
}

func TestUpdateWithNoFieldsRefreshesUpdatedAt(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{Title: model.Some("Ran")})
	require.NoError(t, err)

	repo.now = func() time.Time { return t1 }
	updated, err := repo.Update(ctx, created.ID, model.MovieFields{})
	require.NoError(t, err)
	require.Equal(t, "Ran", updated.Title)
	require.True(t, updated.UpdatedAt.Equal(t1))
}

func TestUpdateClearsNullFields(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{
		Title:       model.Some("Heat"),
		Description: model.Some("crime"),
		Rating:      model.Some(7.0),
		Image:       model.Some("heat.jpg"),
	})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, model.MovieFields{
		Description: model.Null[string](),
		Rating:      model.Null[float64](),
	})
	require.NoError(t, err)
	require.Equal(t, "Heat", updated.Title)
	require.Nil(t, updated.Description)
	require.Nil(t, updated.Rating)
	require.Equal(t, "heat.jpg", *updated.Image)
}

func TestUpdateRejectsNullTitle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{Title: model.Some("Ran")})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, model.MovieFields{Title: model.Null[string]()})
	require.Equal(t, failure.KindValidation, failure.KindOf(err))
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{Title: model.Some("Ran")})
	require.NoError(t, err)

	_, err = repo.Update(ctx, created.ID, model.MovieFields{Title: model.Some(" ")})
	require.Equal(t, failure.KindValidation, failure.KindOf(err))

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ran", got.Title)
}

func TestUpdateMissingReturnsNil(t *testing.T) {
	repo := newRepo(t)

	got, err := repo.Update(context.Background(), 42, model.MovieFields{Title: model.Some("x")})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestDeleteReportsRowsRemoved(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, model.MovieFields{Title: model.Some("Up")})
	require.NoError(t, err)

	n, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	got, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInTxRollsBackOnError(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.InTx(ctx, func(m Movies) error {
		if _, err := m.Create(ctx, model.MovieFields{Title: model.Some("Gone")}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestInTxCommitsAndNests(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	var id int64
	err := repo.InTx(ctx, func(m Movies) error {
		created, err := m.Create(ctx, model.MovieFields{Title: model.Some("Kept")})
		if err != nil {
			return err
		}
		id = created.ID
		return m.(MovieStore).InTx(ctx, func(inner Movies) error {
			_, err := inner.Update(ctx, id, model.MovieFields{Rating: model.Some(6.5)})
			return err
		})
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, 6.5, *got.Rating)
}

func TestTranslate(t *testing.T) {
	plain := errors.New("connection reset")
	notFound := failure.NotFound()

	tests := []struct {
		name string
		err  error
		want failure.Kind
	}{
		{name: "mysql fk", err: &mysql.MySQLError{Number: 1452, Message: "cannot add"}, want: failure.KindForeignKey},
		{name: "mysql referenced", err: &mysql.MySQLError{Number: 1451}, want: failure.KindForeignKey},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1064}, want: failure.KindStorage},
		{name: "pg fk", err: &pgconn.PgError{Code: "23503"}, want: failure.KindForeignKey},
		{name: "pg other", err: &pgconn.PgError{Code: "42P01"}, want: failure.KindStorage},
		{name: "failure passes", err: notFound, want: failure.KindNotFound},
		{name: "plain", err: plain, want: failure.KindUnclassified},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, failure.KindOf(translate(tc.err)))
		})
	}

	require.Same(t, plain, translate(plain))
	require.NoError(t, translate(nil))
}

func TestTranslateSQLiteError(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.db.Exec("INSERT INTO no_such_table (x) VALUES (1)")
	require.Error(t, err)
	require.Equal(t, failure.KindStorage, failure.KindOf(translate(err)))
}
