package models

// Request payloads. Field rules are enforced by the validation package
// through the `validate` tags; gin only decodes the JSON.

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=20,alphanum"`
	Email     string `json:"email" validate:"required,email,max=100"`
	Password  string `json:"password" validate:"required,min=8,max=72,bcryptmax"`
	FirstName string `json:"first_name" validate:"required,min=2,max=50,alpha"`
	LastName  string `json:"last_name" validate:"required,min=2,max=50,alpha"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest is the body of PUT /auth/profile.
// Nil fields are left unchanged; an empty biography, avatar_url or
// birth_date clears the stored value.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2,max=50,alpha"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2,max=50,alpha"`
	Biography *string `json:"biography" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=255,url|len=0"`
	BirthDate *string `json:"birth_date" validate:"omitempty,iso8601|len=0"`
}

// AvatarUploadRequest is the body of POST /auth/profile/avatar
type AvatarUploadRequest struct {
	ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// UpdateUserRequest is the body of PUT /users/:id
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=20,alphanum"`
	Email    *string `json:"email" validate:"omitempty,email,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
}

// CreateArticleRequest is the body of POST /articles
type CreateArticleRequest struct {
	Title   string  `json:"title" validate:"required,min=3,max=200"`
	Content string  `json:"content" validate:"required,min=50,max=10000"`
	Excerpt *string `json:"excerpt" validate:"omitempty,max=500"`
	Status  string  `json:"status" validate:"omitempty,oneof=published archived"`
	TagIDs  []int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// UpdateArticleRequest is the body of PUT /articles/:id.
// A non-nil TagIDs replaces the full tag set; an empty list removes every tag.
type UpdateArticleRequest struct {
	Title   *string  `json:"title" validate:"omitempty,min=3,max=200"`
	Content *string  `json:"content" validate:"omitempty,min=50,max=10000"`
	Excerpt *string  `json:"excerpt" validate:"omitempty,max=500"`
	Status  *string  `json:"status" validate:"omitempty,oneof=published archived"`
	TagIDs  *[]int64 `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// TagRequest is the body of POST /tags
type TagRequest struct {
	Name string `json:"name" validate:"required,min=2,max=30,nowhitespace"`
}

// UpdateTagRequest is the body of PUT /tags/:id
type UpdateTagRequest struct {
	Name *string `json:"name" validate:"omitempty,min=2,max=30,nowhitespace"`
}

// ArticleTagRequest is the body of POST /articles-tags
type ArticleTagRequest struct {
	ArticleID int64 `json:"article_id" validate:"required,gt=0"`
	TagID     int64 `json:"tag_id" validate:"required,gt=0"`
}
