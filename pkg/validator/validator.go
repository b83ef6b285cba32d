package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

// ValidUsername reports whether candidate satisfies the username rule:
// 3-20 characters from letters, digits, underscore and hyphen.
func ValidUsername(candidate string) bool {
	return usernameRegex.MatchString(candidate)
}

func ValidateUsername(candidate string) ValidationErrors {
	errs := make(ValidationErrors)

	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		errs.Add("username", "Username is required")
	} else if !ValidUsername(candidate) {
		errs.Add("username", "Username must be 3-20 characters of letters, numbers, _ and -")
	}

	return errs
}

func ValidatePost(title, content, status string, tags []string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(title) == "" {
		errs.Add("title", "Title is required")
	} else if len(title) > 200 {
		errs.Add("title", "Title is too long")
	}

	if strings.TrimSpace(content) == "" {
		errs.Add("content", "Content is required")
	}

	if status != "" && status != "draft" && status != "scheduled" && status != "published" {
		errs.Add("status", "Status must be draft, scheduled, or published")
	}

	if len(tags) > 10 {
		errs.Add("tags", "At most 10 tags are allowed")
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			errs.Add("tags", "Tags must not be empty")
			break
		}
	}

	return errs
}

func ValidateComment(authorName, authorEmail, content string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(content) == "" {
		errs.Add("content", "Comment content is required")
	} else if len(content) > 5000 {
		errs.Add("content", "Comment is too long")
	}

	if len(authorName) > 100 {
		errs.Add("author_name", "Name is too long")
	}

	if authorEmail != "" {
		if _, err := mail.ParseAddress(authorEmail); err != nil {
			errs.Add("author_email", "Invalid email address")
		}
	}

	return errs
}
