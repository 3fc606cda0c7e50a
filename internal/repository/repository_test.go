package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newMockRepos(t *testing.T) (*repository.Repositories, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.New(database.Wrap(db, zerolog.Nop())), mock
}

var userCols = []string{"id", "username", "email", "password", "role", "created_at", "updated_at", "deleted_at"}

func TestUserRepo_Create(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, email, password, role)`)).
		WithArgs("alice", "alice@example.com", "hash", models.RoleUser).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, repos.User.Create(context.Background(), user))
	require.Equal(t, int64(7), user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_UniqueViolation(t *testing.T) {
	repos, mock := newMockRepos(t)

	tests := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", common.ErrDuplicateEmail},
		{"users_username_key", common.ErrDuplicateUsername},
	}

	for _, tt := range tests {
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

		err := repos.User.Create(context.Background(), &models.User{Username: "alice", Email: "a@b.com"})
		require.ErrorIs(t, err, tt.want)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	user, err := repos.User.GetByID(context.Background(), 99)
	require.NoError(t, err)
	require.Nil(t, user)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByIDUnscoped_ReturnsDeleted(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(3, "carol", "carol@example.com", "hash", "user", now, now, now))

	user, err := repos.User.GetByIDUnscoped(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, user)
	require.True(t, user.IsDeleted())
	require.Equal(t, models.RoleUser, user.Role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_EmailTaken_IncludesDeleted(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`)).
		WithArgs("gone@example.com", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repos.User.EmailTaken(context.Background(), "gone@example.com", 0)
	require.NoError(t, err)
	require.True(t, taken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_SoftDelete(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET deleted_at = NOW()`)).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repos.User.SoftDelete(context.Background(), 5))
	require.ErrorIs(t, repos.User.SoftDelete(context.Background(), 5), common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_ListPublished(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	cols := []string{"id", "title", "content", "excerpt", "status", "user_id",
		"created_at", "updated_at", "u.id", "username", "email"}
	mock.ExpectQuery(`WHERE a.deleted_at IS NULL AND a.status = 'published'\s+ORDER BY a.created_at DESC`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(2, "Second", "body", "short", "published", 1, now, now, 1, "alice", "alice@example.com").
			AddRow(1, "First", "body", nil, "published", 1, now.Add(-time.Hour), now, 1, "alice", "alice@example.com"))

	articles, err := repos.Article.ListPublished(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)
	require.Equal(t, int64(2), articles[0].ID)
	require.Equal(t, "alice", articles[0].Author.Username)
	require.Equal(t, "short", *articles[0].Excerpt)
	require.Nil(t, articles[1].Excerpt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepo_Update_Missing(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE articles`)).
		WillReturnError(sql.ErrNoRows)

	err := repos.Article.Update(context.Background(), &models.Article{ID: 4, Title: "t", Status: models.StatusPublished})
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_Create_Duplicate(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tags (name) VALUES ($1)`)).
		WithArgs("go").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tags_name_key"})

	err := repos.Tag.Create(context.Background(), &models.Tag{Name: "go"})
	require.ErrorIs(t, err, common.ErrDuplicateTag)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_List_OrderedByName(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, created_at, updated_at FROM tags ORDER BY name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at", "updated_at"}).
			AddRow(2, "backend", now, now).
			AddRow(1, "golang", now, now))

	tags, err := repos.Tag.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	require.Equal(t, "backend", tags[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTagRepo_GetByIDs_Empty(t *testing.T) {
	repos, mock := newMockRepos(t)

	tags, err := repos.Tag.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleTagRepo_TagsByArticleIDs(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE at.article_id = ANY($1)`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"article_id", "id", "name", "created_at", "updated_at"}).
			AddRow(1, 10, "go", now, now).
			AddRow(2, 10, "go", now, now).
			AddRow(1, 11, "sql", now, now))

	byArticle, err := repos.ArticleTag.TagsByArticleIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, byArticle[1], 2)
	require.Len(t, byArticle[2], 1)
	require.Equal(t, "sql", byArticle[1][1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleTagRepo_Create_Duplicate(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO article_tags (article_id, tag_id)`)).
		WithArgs(int64(1), int64(2)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "article_tags_article_id_tag_id_key"})

	err := repos.ArticleTag.Create(context.Background(), &models.ArticleTag{ArticleID: 1, TagID: 2})
	require.ErrorIs(t, err, common.ErrDuplicateRelation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleTagRepo_DeletePairs_Empty(t *testing.T) {
	repos, mock := newMockRepos(t)

	require.NoError(t, repos.ArticleTag.DeletePairs(context.Background(), 1, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO profiles`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))
	mock.ExpectCommit()

	err := repos.Tx.WithinTx(context.Background(), func(ctx context.Context, tx *repository.Repositories) error {
		user := &models.User{Username: "alice", Email: "a@b.com", Password: "h", Role: models.RoleUser}
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return tx.Profile.Create(ctx, &models.Profile{UserID: user.ID, FirstName: "Alice", LastName: "Smith"})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	repos, mock := newMockRepos(t)
	now := time.Now()
	boom := errors.New("profile insert failed")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO profiles`)).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := repos.Tx.WithinTx(context.Background(), func(ctx context.Context, tx *repository.Repositories) error {
		user := &models.User{Username: "alice", Email: "a@b.com", Password: "h", Role: models.RoleUser}
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		return tx.Profile.Create(ctx, &models.Profile{UserID: user.ID, FirstName: "Alice", LastName: "Smith"})
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_NestedJoinsOuter(t *testing.T) {
	repos, mock := newMockRepos(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tags WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repos.Tx.WithinTx(context.Background(), func(ctx context.Context, tx *repository.Repositories) error {
		return tx.Tx.WithinTx(ctx, func(ctx context.Context, inner *repository.Repositories) error {
			return inner.Tag.Delete(ctx, 1)
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
