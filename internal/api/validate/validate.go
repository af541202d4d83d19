package validate

import (
	"fmt"
	"regexp"

	"github.com/searchrail/searchrail/internal/model"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserID must be lowercase letters, digits, underscore or hyphen, 1-40 chars.
var userIdRx = regexp.MustCompile(`^[a-z0-9_-]{1,40}$`)

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// -------- Request specific helpers ----------

func CreateUser(userId, email string) error {
	if userId == "" {
		return fmt.Errorf("userId is required")
	}
	if !userIdRx.MatchString(userId) {
		return fmt.Errorf("userId must match %s", userIdRx.String())
	}
	return Email(email)
}

// CreateSearch validates input for a new saved search. The query payload is
// opaque; only presence and a size cap are enforced.
func CreateSearch(name, query string) error {
	if err := NonEmpty("name", name); err != nil {
		return err
	}
	if err := MaxLen("name", name, 255); err != nil {
		return err
	}
	if err := NonEmpty("query", query); err != nil {
		return err
	}
	return MaxLen("query", query, 4000)
}

// UpdateSearch validates a partial update. Nil means "leave unchanged";
// present-but-empty name/query is rejected. Range checking of position is the
// engine's job because it depends on the owner's current record count.
func UpdateSearch(name, query *string, position *int) error {
	if name == nil && query == nil && position == nil {
		return fmt.Errorf("at least one of name, query, position is required")
	}
	if name != nil {
		if err := NonEmpty("name", *name); err != nil {
			return err
		}
		if err := MaxLen("name", *name, 255); err != nil {
			return err
		}
	}
	if query != nil {
		if err := NonEmpty("query", *query); err != nil {
			return err
		}
		if err := MaxLen("query", *query, 4000); err != nil {
			return err
		}
	}
	if position != nil && *position < 0 {
		// Same sentinel the engine uses for >= n, so clients parsing the
		// error body see one taxonomy for both range failures.
		return fmt.Errorf("%w: position must be non-negative", model.ErrInvalidPosition)
	}
	return nil
}
