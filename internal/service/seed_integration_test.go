package service_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/validation"
)

// testdataPath returns the absolute path to a file in the testdata directory.
func testdataPath(t testing.TB, filename string) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
	path := filepath.Join(projectRoot, "testdata", filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("testdata file not found: %s", path)
	}
	return path
}

type seedArticle struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Status  string   `json:"status"`
	Tags    []string `json:"tags"`
}

type seedUser struct {
	models.RegisterRequest
	Articles []seedArticle `json:"articles"`
}

type seedFile struct {
	Tags  []string   `json:"tags"`
	Users []seedUser `json:"users"`
}

func loadSeed(t *testing.T) *seedFile {
	t.Helper()
	raw, err := os.ReadFile(testdataPath(t, "blog_seed.json"))
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		t.Fatalf("decode seed: %v", err)
	}
	return &seed
}

// seeded loads the seed file through the services, validating every request
// the way the HTTP layer does.
func seeded(t *testing.T) (*fixture, *seedFile, map[string]context.Context) {
	t.Helper()
	f := newFixture(t)
	seed := loadSeed(t)
	v := validation.NewValidator()
	adminCtx := f.admin(t)

	tagIDs := make(map[string]int64)
	for _, name := range seed.Tags {
		req := &models.TagRequest{Name: name}
		if errs := v.Validate(req); len(errs) > 0 {
			t.Fatalf("seed tag %q invalid: %v", name, errs)
		}
		tagIDs[name] = f.tag(t, adminCtx, name).ID
	}

	sessions := make(map[string]context.Context)
	for _, u := range seed.Users {
		req := u.RegisterRequest
		if errs := v.Validate(&req); len(errs) > 0 {
			t.Fatalf("seed user %q invalid: %v", u.Username, errs)
		}
		user, _, err := f.services.Auth.Register(context.Background(), &req)
		if err != nil {
			t.Fatalf("register %s: %v", u.Username, err)
		}
		ctx := asUser(user)
		sessions[u.Username] = ctx

		for _, a := range u.Articles {
			areq := &models.CreateArticleRequest{Title: a.Title, Content: a.Content, Status: a.Status}
			for _, name := range a.Tags {
				areq.TagIDs = append(areq.TagIDs, tagIDs[name])
			}
			if errs := v.Validate(areq); len(errs) > 0 {
				t.Fatalf("seed article %q invalid: %v", a.Title, errs)
			}
			if _, err := f.services.Article.Create(ctx, areq); err != nil {
				t.Fatalf("create %q: %v", a.Title, err)
			}
		}
	}
	sessions["admin"] = adminCtx
	return f, seed, sessions
}

func TestSeed_PublishedFeed(t *testing.T) {
	f, seed, sessions := seeded(t)

	want := 0
	for _, u := range seed.Users {
		for _, a := range u.Articles {
			if a.Status != string(models.StatusArchived) {
				want++
			}
		}
	}

	feed, err := f.services.Article.ListPublished(sessions["carol"])
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if len(feed) != want {
		t.Fatalf("Expected %d published articles, got %d", want, len(feed))
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].CreatedAt.After(feed[i-1].CreatedAt) {
			t.Errorf("Feed not ordered newest first at %d", i)
		}
	}
	for _, a := range feed {
		if a.Author == nil || a.Author.Username == "" {
			t.Errorf("Article %d missing author", a.ID)
		}
		if a.Tags == nil {
			t.Errorf("Article %d has nil tags", a.ID)
		}
	}
}

func TestSeed_TagListsArticles(t *testing.T) {
	f, _, sessions := seeded(t)

	tags, err := f.services.Tag.List(sessions["bob"])
	if err != nil {
		t.Fatal(err)
	}

	counts := map[string]int{"golang": 2, "backend": 2, "postgres": 1, "testing": 1}
	for _, tag := range tags {
		full, err := f.services.Tag.Get(sessions["bob"], tag.ID)
		if err != nil {
			t.Fatalf("Get tag %s: %v", tag.Name, err)
		}
		if len(full.Articles) != counts[tag.Name] {
			t.Errorf("Tag %s: expected %d articles, got %d", tag.Name, counts[tag.Name], len(full.Articles))
		}
	}
}

func TestSeed_AdminSeesEverything(t *testing.T) {
	f, seed, sessions := seeded(t)

	users, err := f.services.User.List(sessions["admin"])
	if err != nil {
		t.Fatal(err)
	}
	// seeded users plus the admin
	if len(users) != len(seed.Users)+1 {
		t.Fatalf("Expected %d users, got %d", len(seed.Users)+1, len(users))
	}
	for _, u := range users {
		if u.Username != "alice" {
			continue
		}
		if len(u.Articles) != 3 {
			t.Errorf("Expected alice to have 3 articles including archived, got %d", len(u.Articles))
		}
		if u.Profile == nil || u.Profile.FirstName != "Alice" {
			t.Errorf("Unexpected profile %+v", u.Profile)
		}
	}

	_, err = f.services.User.List(sessions["alice"])
	if err == nil {
		t.Error("Expected regular users to be refused")
	}
}
