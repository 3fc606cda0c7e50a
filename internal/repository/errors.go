package repository

import (
	"errors"

	"github.com/blog-platform-api/internal/common"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// constraintErrors maps unique constraint names from the migrations to domain errors
var constraintErrors = map[string]error{
	"users_email_key":                    common.ErrDuplicateEmail,
	"users_username_key":                 common.ErrDuplicateUsername,
	"tags_name_key":                      common.ErrDuplicateTag,
	"article_tags_article_id_tag_id_key": common.ErrDuplicateRelation,
}

// translateError converts unique violations into duplicate errors and passes
// everything else through unchanged.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
			return mapped
		}
	}
	return err
}
