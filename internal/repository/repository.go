package repository

import (
	"context"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

// Getters return (nil, nil) when no row matches.

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetByID excludes soft-deleted users
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByIDUnscoped includes soft-deleted users
	GetByIDUnscoped(ctx context.Context, id int64) (*models.User, error)
	// GetByEmail excludes soft-deleted users
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListUnscoped returns every user, soft-deleted ones included
	ListUnscoped(ctx context.Context) ([]*models.User, error)
	// EmailTaken and UsernameTaken consider soft-deleted users; excludeID skips one user
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	Update(ctx context.Context, user *models.User) error
	SoftDelete(ctx context.Context, id int64) error
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// ArticleRepository defines the interface for article data operations.
// Soft-deleted articles are never returned.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	ListPublished(ctx context.Context) ([]*models.Article, error)
	ListPublishedByUser(ctx context.Context, userID int64) ([]*models.Article, error)
	ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*models.Article, error)
	ListByTag(ctx context.Context, tagID int64) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	SoftDelete(ctx context.Context, id int64) error
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id int64) error
}

// ArticleTagRepository defines the interface for article/tag link operations
type ArticleTagRepository interface {
	Create(ctx context.Context, rel *models.ArticleTag) error
	GetByID(ctx context.Context, id int64) (*models.ArticleTag, error)
	Exists(ctx context.Context, articleID, tagID int64) (bool, error)
	TagIDs(ctx context.Context, articleID int64) ([]int64, error)
	TagsByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]*models.Tag, error)
	Delete(ctx context.Context, id int64) error
	DeletePairs(ctx context.Context, articleID int64, tagIDs []int64) error
}

// Transactor runs fn against repositories bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User       UserRepository
	Profile    ProfileRepository
	Article    ArticleRepository
	Tag        TagRepository
	ArticleTag ArticleTagRepository
	Tx         Transactor
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	repos := bind(db)
	repos.Tx = &txRunner{db: db}
	return repos
}

func bind(q database.DBTX) *Repositories {
	return &Repositories{
		User:       NewUserRepo(q),
		Profile:    NewProfileRepo(q),
		Article:    NewArticleRepo(q),
		Tag:        NewTagRepo(q),
		ArticleTag: NewArticleTagRepo(q),
	}
}

type txRunner struct {
	db *database.DB
}

func (t *txRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return t.db.WithTx(ctx, func(ctx context.Context, q database.DBTX) error {
		repos := bind(q)
		repos.Tx = joinedTx{repos: repos}
		return fn(ctx, repos)
	})
}

// joinedTx runs nested units of work in the enclosing transaction
type joinedTx struct {
	repos *Repositories
}

func (j joinedTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return fn(ctx, j.repos)
}
