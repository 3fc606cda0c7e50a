package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
)

// Store is an in-memory database shared by the mock repositories. It enforces
// the same unique constraints as the SQL schema and supports rollback.
type Store struct {
	mu          sync.Mutex
	Users       map[int64]*models.User
	Profiles    map[int64]*models.Profile
	Articles    map[int64]*models.Article
	Tags        map[int64]*models.Tag
	ArticleTags map[int64]*models.ArticleTag

	// Failures injects an error for an operation, keyed like "Profile.Create"
	Failures map[string]error

	seq   int64
	clock time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		Users:       make(map[int64]*models.User),
		Profiles:    make(map[int64]*models.Profile),
		Articles:    make(map[int64]*models.Article),
		Tags:        make(map[int64]*models.Tag),
		ArticleTags: make(map[int64]*models.ArticleTag),
		Failures:    make(map[string]error),
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Repositories returns repositories backed by the store
func (s *Store) Repositories() *repository.Repositories {
	repos := s.bind()
	repos.Tx = &MockTransactor{store: s}
	return repos
}

func (s *Store) bind() *repository.Repositories {
	return &repository.Repositories{
		User:       &MockUserRepository{s},
		Profile:    &MockProfileRepository{s},
		Article:    &MockArticleRepository{s},
		Tag:        &MockTagRepository{s},
		ArticleTag: &MockArticleTagRepository{s},
	}
}

// nextID and now must be called with mu held
func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// now advances one second per call so creation order is observable
func (s *Store) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) fail(op string) error {
	return s.Failures[op]
}

type snapshot struct {
	users       map[int64]*models.User
	profiles    map[int64]*models.Profile
	articles    map[int64]*models.Article
	tags        map[int64]*models.Tag
	articleTags map[int64]*models.ArticleTag
	seq         int64
}

func cloneMap[V any](m map[int64]*V) map[int64]*V {
	out := make(map[int64]*V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Stored values are replaced, never mutated, so shallow map copies suffice.
func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:       cloneMap(s.Users),
		profiles:    cloneMap(s.Profiles),
		articles:    cloneMap(s.Articles),
		tags:        cloneMap(s.Tags),
		articleTags: cloneMap(s.ArticleTags),
		seq:         s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users = snap.users
	s.Profiles = snap.profiles
	s.Articles = snap.articles
	s.Tags = snap.tags
	s.ArticleTags = snap.articleTags
	s.seq = snap.seq
}

// MockTransactor emulates a transaction by restoring a snapshot on error
type MockTransactor struct {
	store *Store
	// Calls counts top-level transactions
	Calls int
}

var _ repository.Transactor = (*MockTransactor)(nil)

func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *repository.Repositories) error) (err error) {
	m.Calls++
	snap := m.store.snapshot()

	repos := m.store.bind()
	repos.Tx = joined{repos: repos}

	defer func() {
		if p := recover(); p != nil {
			m.store.restore(snap)
			panic(p)
		}
		if err != nil {
			m.store.restore(snap)
		}
	}()
	return fn(ctx, repos)
}

type joined struct {
	repos *repository.Repositories
}

func (j joined) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *repository.Repositories) error) error {
	return fn(ctx, j.repos)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	s *Store
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.Profile = nil
	cp.Articles = nil
	return &cp
}

func (m *MockUserRepository) conflict(u *models.User) error {
	for _, other := range m.s.Users {
		if other.ID == u.ID {
			continue
		}
		if other.Email == u.Email {
			return common.ErrDuplicateEmail
		}
		if other.Username == u.Username {
			return common.ErrDuplicateUsername
		}
	}
	return nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("User.Create"); err != nil {
		return err
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	user.ID = m.s.nextID()
	user.CreatedAt = m.s.now()
	user.UpdatedAt = user.CreatedAt
	m.s.Users[user.ID] = copyUser(user)
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.Users[id]; ok && u.DeletedAt == nil {
		return copyUser(u), nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByIDUnscoped(ctx context.Context, id int64) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.Users[id]; ok {
		return copyUser(u), nil
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.Users {
		if u.Email == email && u.DeletedAt == nil {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *MockUserRepository) ListUnscoped(ctx context.Context) ([]*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	users := make([]*models.User, 0, len(m.s.Users))
	for _, u := range m.s.Users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockUserRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.Users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.Users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.Users[user.ID]
	if !ok {
		return common.NotFound("user")
	}
	if err := m.conflict(user); err != nil {
		return err
	}
	cp := copyUser(user)
	cp.CreatedAt = stored.CreatedAt
	cp.DeletedAt = stored.DeletedAt
	cp.UpdatedAt = m.s.now()
	user.UpdatedAt = cp.UpdatedAt
	m.s.Users[user.ID] = cp
	return nil
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.Users[id]
	if !ok || stored.DeletedAt != nil {
		return common.NotFound("user")
	}
	cp := copyUser(stored)
	deletedAt := m.s.now()
	cp.DeletedAt = &deletedAt
	m.s.Users[id] = cp
	return nil
}

// MockProfileRepository is a mock implementation of ProfileRepository
type MockProfileRepository struct {
	s *Store
}

var _ repository.ProfileRepository = (*MockProfileRepository)(nil)

func copyProfile(p *models.Profile) *models.Profile {
	cp := *p
	return &cp
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("Profile.Create"); err != nil {
		return err
	}
	if _, ok := m.s.Users[profile.UserID]; !ok {
		return common.NotFound("user")
	}
	for _, p := range m.s.Profiles {
		if p.UserID == profile.UserID {
			return common.Errorf(common.ErrValidation, "profile already exists")
		}
	}
	profile.ID = m.s.nextID()
	profile.CreatedAt = m.s.now()
	profile.UpdatedAt = profile.CreatedAt
	m.s.Profiles[profile.ID] = copyProfile(profile)
	return nil
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.Profiles {
		if p.UserID == userID {
			return copyProfile(p), nil
		}
	}
	return nil, nil
}

func (m *MockProfileRepository) GetByUserIDs(ctx context.Context, userIDs []int64) (map[int64]*models.Profile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	wanted := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	out := make(map[int64]*models.Profile)
	for _, p := range m.s.Profiles {
		if wanted[p.UserID] {
			out[p.UserID] = copyProfile(p)
		}
	}
	return out, nil
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Profiles[profile.ID]; !ok {
		return common.NotFound("profile")
	}
	profile.UpdatedAt = m.s.now()
	m.s.Profiles[profile.ID] = copyProfile(profile)
	return nil
}

// MockArticleRepository is a mock implementation of ArticleRepository
type MockArticleRepository struct {
	s *Store
}

var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

// view must be called with mu held; it copies a and joins its author
func (m *MockArticleRepository) view(a *models.Article) *models.Article {
	cp := *a
	cp.Tags = nil
	cp.Author = nil
	if u, ok := m.s.Users[a.UserID]; ok {
		cp.Author = &models.UserSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return &cp
}

func (m *MockArticleRepository) filter(keep func(a *models.Article) bool) []*models.Article {
	out := []*models.Article{}
	for _, a := range m.s.Articles {
		if a.DeletedAt == nil && keep(a) {
			out = append(out, m.view(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("Article.Create"); err != nil {
		return err
	}
	article.ID = m.s.nextID()
	article.CreatedAt = m.s.now()
	article.UpdatedAt = article.CreatedAt
	cp := *article
	cp.Tags = nil
	cp.Author = nil
	m.s.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a, ok := m.s.Articles[id]; ok && a.DeletedAt == nil {
		return m.view(a), nil
	}
	return nil, nil
}

func (m *MockArticleRepository) ListPublished(ctx context.Context) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(a *models.Article) bool {
		return a.Status == models.StatusPublished
	}), nil
}

func (m *MockArticleRepository) ListPublishedByUser(ctx context.Context, userID int64) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.filter(func(a *models.Article) bool {
		return a.Status == models.StatusPublished && a.UserID == userID
	}), nil
}

func (m *MockArticleRepository) ListByUserIDs(ctx context.Context, userIDs []int64) (map[int64][]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	wanted := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = true
	}
	out := make(map[int64][]*models.Article)
	for _, a := range m.filter(func(a *models.Article) bool { return wanted[a.UserID] }) {
		out[a.UserID] = append(out[a.UserID], a)
	}
	return out, nil
}

func (m *MockArticleRepository) ListByTag(ctx context.Context, tagID int64) ([]*models.Article, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	tagged := make(map[int64]bool)
	for _, rel := range m.s.ArticleTags {
		if rel.TagID == tagID {
			tagged[rel.ArticleID] = true
		}
	}
	return m.filter(func(a *models.Article) bool { return tagged[a.ID] }), nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("Article.Update"); err != nil {
		return err
	}
	stored, ok := m.s.Articles[article.ID]
	if !ok || stored.DeletedAt != nil {
		return common.NotFound("article")
	}
	cp := *stored
	cp.Title = article.Title
	cp.Content = article.Content
	cp.Excerpt = article.Excerpt
	cp.Status = article.Status
	cp.UpdatedAt = m.s.now()
	article.UpdatedAt = cp.UpdatedAt
	m.s.Articles[article.ID] = &cp
	return nil
}

func (m *MockArticleRepository) SoftDelete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.Articles[id]
	if !ok || stored.DeletedAt != nil {
		return common.NotFound("article")
	}
	cp := *stored
	deletedAt := m.s.now()
	cp.DeletedAt = &deletedAt
	m.s.Articles[id] = &cp
	return nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	s *Store
}

var _ repository.TagRepository = (*MockTagRepository)(nil)

func copyTag(t *models.Tag) *models.Tag {
	cp := *t
	cp.Articles = nil
	return &cp
}

func sortTagsByName(tags []*models.Tag) {
	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
}

func (m *MockTagRepository) nameTaken(name string, excludeID int64) bool {
	for _, t := range m.s.Tags {
		if t.Name == name && t.ID != excludeID {
			return true
		}
	}
	return false
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("Tag.Create"); err != nil {
		return err
	}
	if m.nameTaken(tag.Name, 0) {
		return common.ErrDuplicateTag
	}
	tag.ID = m.s.nextID()
	tag.CreatedAt = m.s.now()
	tag.UpdatedAt = tag.CreatedAt
	m.s.Tags[tag.ID] = copyTag(tag)
	return nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if t, ok := m.s.Tags[id]; ok {
		return copyTag(t), nil
	}
	return nil, nil
}

func (m *MockTagRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	tags := []*models.Tag{}
	for _, id := range ids {
		if t, ok := m.s.Tags[id]; ok {
			tags = append(tags, copyTag(t))
		}
	}
	sortTagsByName(tags)
	return tags, nil
}

func (m *MockTagRepository) List(ctx context.Context) ([]*models.Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	tags := make([]*models.Tag, 0, len(m.s.Tags))
	for _, t := range m.s.Tags {
		tags = append(tags, copyTag(t))
	}
	sortTagsByName(tags)
	return tags, nil
}

func (m *MockTagRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.nameTaken(name, excludeID), nil
}

func (m *MockTagRepository) Update(ctx context.Context, tag *models.Tag) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stored, ok := m.s.Tags[tag.ID]
	if !ok {
		return common.NotFound("tag")
	}
	if m.nameTaken(tag.Name, tag.ID) {
		return common.ErrDuplicateTag
	}
	cp := copyTag(stored)
	cp.Name = tag.Name
	cp.UpdatedAt = m.s.now()
	tag.UpdatedAt = cp.UpdatedAt
	m.s.Tags[tag.ID] = cp
	return nil
}

func (m *MockTagRepository) Delete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.Tags[id]; !ok {
		return common.NotFound("tag")
	}
	delete(m.s.Tags, id)
	for relID, rel := range m.s.ArticleTags {
		if rel.TagID == id {
			delete(m.s.ArticleTags, relID)
		}
	}
	return nil
}

// MockArticleTagRepository is a mock implementation of ArticleTagRepository
type MockArticleTagRepository struct {
	s *Store
}

var _ repository.ArticleTagRepository = (*MockArticleTagRepository)(nil)

func (m *MockArticleTagRepository) Create(ctx context.Context, rel *models.ArticleTag) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("ArticleTag.Create"); err != nil {
		return err
	}
	for _, existing := range m.s.ArticleTags {
		if existing.ArticleID == rel.ArticleID && existing.TagID == rel.TagID {
			return common.ErrDuplicateRelation
		}
	}
	rel.ID = m.s.nextID()
	rel.CreatedAt = m.s.now()
	cp := *rel
	m.s.ArticleTags[rel.ID] = &cp
	return nil
}

func (m *MockArticleTagRepository) GetByID(ctx context.Context, id int64) (*models.ArticleTag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if rel, ok := m.s.ArticleTags[id]; ok {
		cp := *rel
		return &cp, nil
	}
	return nil, nil
}

func (m *MockArticleTagRepository) Exists(ctx context.Context, articleID, tagID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, rel := range m.s.ArticleTags {
		if rel.ArticleID == articleID && rel.TagID == tagID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockArticleTagRepository) TagIDs(ctx context.Context, articleID int64) ([]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []int64
	for _, rel := range m.s.ArticleTags {
		if rel.ArticleID == articleID {
			ids = append(ids, rel.TagID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockArticleTagRepository) TagsByArticleIDs(ctx context.Context, articleIDs []int64) (map[int64][]*models.Tag, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	wanted := make(map[int64]bool, len(articleIDs))
	for _, id := range articleIDs {
		wanted[id] = true
	}
	out := make(map[int64][]*models.Tag)
	for _, rel := range m.s.ArticleTags {
		if !wanted[rel.ArticleID] {
			continue
		}
		if t, ok := m.s.Tags[rel.TagID]; ok {
			out[rel.ArticleID] = append(out[rel.ArticleID], copyTag(t))
		}
	}
	for _, tags := range out {
		sortTagsByName(tags)
	}
	return out, nil
}

func (m *MockArticleTagRepository) Delete(ctx context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.ArticleTags[id]; !ok {
		return common.NotFound("relation")
	}
	delete(m.s.ArticleTags, id)
	return nil
}

func (m *MockArticleTagRepository) DeletePairs(ctx context.Context, articleID int64, tagIDs []int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if err := m.s.fail("ArticleTag.DeletePairs"); err != nil {
		return err
	}
	remove := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		remove[id] = true
	}
	for relID, rel := range m.s.ArticleTags {
		if rel.ArticleID == articleID && remove[rel.TagID] {
			delete(m.s.ArticleTags, relID)
		}
	}
	return nil
}
