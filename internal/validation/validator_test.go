package validation

import (
	"strings"
	"testing"

	"github.com/blog-platform-api/internal/models"
)

func strPtr(s string) *string { return &s }

func hasField(errors []ValidationError, field string) bool {
	for _, err := range errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

func TestValidateRegisterRequest(t *testing.T) {
	validator := NewValidator()

	valid := func() models.RegisterRequest {
		return models.RegisterRequest{
			Username:  "alice01",
			Email:     "alice@example.com",
			Password:  "supersecret",
			FirstName: "Alice",
			LastName:  "Smith",
		}
	}

	tests := []struct {
		name       string
		mutate     func(r *models.RegisterRequest)
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid registration",
			mutate:     func(r *models.RegisterRequest) {},
			wantErrors: 0,
		},
		{
			name:       "username too short",
			mutate:     func(r *models.RegisterRequest) { r.Username = "ab" },
			wantErrors: 1,
			wantFields: []string{"username"},
		},
		{
			name:       "username with symbols",
			mutate:     func(r *models.RegisterRequest) { r.Username = "alice_01" },
			wantErrors: 1,
			wantFields: []string{"username"},
		},
		{
			name:       "invalid email format",
			mutate:     func(r *models.RegisterRequest) { r.Email = "not-an-email" },
			wantErrors: 1,
			wantFields: []string{"email"},
		},
		{
			name:       "password too short",
			mutate:     func(r *models.RegisterRequest) { r.Password = "short" },
			wantErrors: 1,
			wantFields: []string{"password"},
		},
		{
			name:       "multibyte password over 72 bytes",
			mutate:     func(r *models.RegisterRequest) { r.Password = strings.Repeat("é", 40) },
			wantErrors: 1,
			wantFields: []string{"password"},
		},
		{
			name:       "multibyte password at 72 bytes",
			mutate:     func(r *models.RegisterRequest) { r.Password = strings.Repeat("é", 36) },
			wantErrors: 0,
		},
		{
			name:       "first name with digits",
			mutate:     func(r *models.RegisterRequest) { r.FirstName = "Al1ce" },
			wantErrors: 1,
			wantFields: []string{"first_name"},
		},
		{
			name: "multiple validation errors",
			mutate: func(r *models.RegisterRequest) {
				*r = models.RegisterRequest{Email: "invalid"}
			},
			wantErrors: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			errors := validator.Validate(&req)
			if len(errors) != tt.wantErrors {
				t.Errorf("Validate() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidate_PasswordNeverEchoed(t *testing.T) {
	validator := NewValidator()

	errors := validator.Validate(&models.RegisterRequest{
		Username:  "alice01",
		Email:     "alice@example.com",
		Password:  "short",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	if len(errors) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errors), errors)
	}
	if errors[0].Value != nil {
		t.Errorf("Expected password value to be omitted, got %v", errors[0].Value)
	}
}

func TestValidate_EchoesOffendingValue(t *testing.T) {
	validator := NewValidator()

	errors := validator.Validate(&models.LoginRequest{Email: "nope", Password: "x"})
	if len(errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(errors))
	}
	if errors[0].Field != "email" || errors[0].Value != "nope" {
		t.Errorf("Expected email error echoing value, got %+v", errors[0])
	}
	if errors[0].Message != "invalid email format" {
		t.Errorf("Unexpected message: %s", errors[0].Message)
	}
}

func TestValidateArticleRequests(t *testing.T) {
	validator := NewValidator()
	content := strings.Repeat("a", 60)

	tests := []struct {
		name       string
		req        interface{}
		wantErrors int
		wantFields []string
	}{
		{
			name:       "valid create with tags",
			req:        &models.CreateArticleRequest{Title: "Hello", Content: content, TagIDs: []int64{1, 2}},
			wantErrors: 0,
		},
		{
			name:       "content too short",
			req:        &models.CreateArticleRequest{Title: "Hello", Content: "short"},
			wantErrors: 1,
			wantFields: []string{"content"},
		},
		{
			name:       "unknown status",
			req:        &models.CreateArticleRequest{Title: "Hello", Content: content, Status: "draft"},
			wantErrors: 1,
			wantFields: []string{"status"},
		},
		{
			name:       "non-positive tag id",
			req:        &models.CreateArticleRequest{Title: "Hello", Content: content, TagIDs: []int64{3, 0}},
			wantErrors: 1,
			wantFields: []string{"tag_ids[1]"},
		},
		{
			name:       "empty update is valid",
			req:        &models.UpdateArticleRequest{},
			wantErrors: 0,
		},
		{
			name:       "update with empty tag list is valid",
			req:        &models.UpdateArticleRequest{TagIDs: &[]int64{}},
			wantErrors: 0,
		},
		{
			name:       "update with empty title",
			req:        &models.UpdateArticleRequest{Title: strPtr("")},
			wantErrors: 1,
			wantFields: []string{"title"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.Validate(tt.req)
			if len(errors) != tt.wantErrors {
				t.Errorf("Validate() got %d errors, want %d. Errors: %v", len(errors), tt.wantErrors, errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateTagRequest(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name      string
		tagName   string
		wantValid bool
	}{
		{"simple name", "golang", true},
		{"minimum length", "go", true},
		{"too short", "g", false},
		{"contains space", "web dev", false},
		{"contains tab", "web\tdev", false},
		{"too long", strings.Repeat("x", 31), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.Validate(&models.TagRequest{Name: tt.tagName})
			if (len(errors) == 0) != tt.wantValid {
				t.Errorf("Validate(%q) valid = %v, want %v (%v)", tt.tagName, len(errors) == 0, tt.wantValid, errors)
			}
		})
	}
}

func TestValidateProfileRequest(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name       string
		req        models.UpdateProfileRequest
		wantFields []string
	}{
		{"plain date", models.UpdateProfileRequest{BirthDate: strPtr("1990-05-17")}, nil},
		{"timestamp", models.UpdateProfileRequest{BirthDate: strPtr("1990-05-17T00:00:00Z")}, nil},
		{"non iso date", models.UpdateProfileRequest{BirthDate: strPtr("17/05/1990")}, []string{"birth_date"}},
		{"bad avatar url", models.UpdateProfileRequest{AvatarURL: strPtr("not a url")}, []string{"avatar_url"}},
		{"empty avatar url clears", models.UpdateProfileRequest{AvatarURL: strPtr("")}, nil},
		{"empty birth date clears", models.UpdateProfileRequest{BirthDate: strPtr("")}, nil},
		{"empty biography clears", models.UpdateProfileRequest{Biography: strPtr("")}, nil},
		{"biography too long", models.UpdateProfileRequest{Biography: strPtr(strings.Repeat("b", 501))}, []string{"biography"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := validator.Validate(&tt.req)
			if len(errors) != len(tt.wantFields) {
				t.Fatalf("Validate() got %d errors, want %d: %v", len(errors), len(tt.wantFields), errors)
			}
			for _, wantField := range tt.wantFields {
				if !hasField(errors, wantField) {
					t.Errorf("Expected error for field '%s' but not found", wantField)
				}
			}
		})
	}
}

func TestValidateUpdateUserRequest_Role(t *testing.T) {
	validator := NewValidator()

	if errors := validator.Validate(&models.UpdateUserRequest{Role: strPtr("admin")}); len(errors) != 0 {
		t.Errorf("Expected admin role to be valid, got %v", errors)
	}
	errors := validator.Validate(&models.UpdateUserRequest{Role: strPtr("owner")})
	if !hasField(errors, "role") {
		t.Errorf("Expected role error, got %v", errors)
	}
}

func TestValidateArticleTagRequest(t *testing.T) {
	validator := NewValidator()

	errors := validator.Validate(&models.ArticleTagRequest{ArticleID: 1})
	if !hasField(errors, "tag_id") {
		t.Errorf("Expected tag_id error, got %v", errors)
	}
	if hasField(errors, "article_id") {
		t.Errorf("Unexpected article_id error: %v", errors)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2001-02-03")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got.Year() != 2001 || got.Month() != 2 || got.Day() != 3 {
		t.Errorf("ParseDate() = %v", got)
	}
	if _, err := ParseDate("yesterday"); err == nil {
		t.Error("Expected error for non-date input")
	}
}
