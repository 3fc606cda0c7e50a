package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/blog-platform-api/internal/common"
	"github.com/blog-platform-api/internal/models"
	"github.com/blog-platform-api/internal/repository"
)

// tagLoader attaches tags to articles with a single query per batch
type tagLoader struct {
	repos *repository.Repositories
}

func newTagLoader(repos *repository.Repositories) *tagLoader {
	return &tagLoader{repos: repos}
}

// populate sets Tags on every article; articles without tags get an empty list
func (l *tagLoader) populate(ctx context.Context, articles []*models.Article) error {
	if len(articles) == 0 {
		return nil
	}

	ids := make([]int64, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}

	byArticle, err := l.repos.ArticleTag.TagsByArticleIDs(ctx, ids)
	if err != nil {
		return err
	}

	for _, a := range articles {
		a.Tags = byArticle[a.ID]
		if a.Tags == nil {
			a.Tags = []*models.Tag{}
		}
	}
	return nil
}

// dedupeIDs returns ids without duplicates, preserving first occurrence
func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// resolveTags fails with a not found error naming every id that has no tag
func resolveTags(ctx context.Context, repo repository.TagRepository, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	found, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}

	present := make(map[int64]bool, len(found))
	for _, t := range found {
		present[t.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !present[id] {
			missing = append(missing, strconv.FormatInt(id, 10))
		}
	}
	return common.Errorf(common.ErrNotFound, "tags not found: %s", strings.Join(missing, ", "))
}

// reconcileTags computes the links to add and remove to turn current into desired
func reconcileTags(current, desired []int64) (added, removed []int64) {
	have := make(map[int64]bool, len(current))
	for _, id := range current {
		have[id] = true
	}
	want := make(map[int64]bool, len(desired))
	for _, id := range desired {
		want[id] = true
		if !have[id] {
			added = append(added, id)
		}
	}
	for _, id := range current {
		if !want[id] {
			removed = append(removed, id)
		}
	}

	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return added, removed
}
