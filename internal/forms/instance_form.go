package forms

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"rds-portal/internal/models"
)

// Errors maps field names to the first validation message for that field.
type Errors map[string]string

// NameChecker answers whether a database name is already taken, ignoring case.
type NameChecker interface {
	NameExists(ctx context.Context, name string) (bool, error)
}

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// InstanceForm carries the creation form fields. AllocatedStorage is bound as
// a string so a non-numeric submission produces a field message instead of a
// bind failure; Validate re-checks the bounds server-side regardless of any
// client-side constraints.
type InstanceForm struct {
	DatabaseName     string `form:"database_name"`
	ExpectedSize     string `form:"expected_size"`
	Engine           string `form:"engine"`
	InstanceClass    string `form:"instance_class"`
	AllocatedStorage string `form:"allocated_storage"`

	storageGB int
}

// StorageGB returns the parsed storage size. Only meaningful after Validate
// reported no error for allocated_storage.
func (f *InstanceForm) StorageGB() int {
	return f.storageGB
}

// Validate checks every field and returns all violations keyed by field name.
// ExpectedSize is normalized to upper case as a side effect.
func (f *InstanceForm) Validate(ctx context.Context, names NameChecker) (Errors, error) {
	errs := Errors{}

	f.DatabaseName = strings.TrimSpace(f.DatabaseName)
	switch {
	case f.DatabaseName == "":
		errs["database_name"] = "Database name is required."
	case !databaseNamePattern.MatchString(f.DatabaseName):
		errs["database_name"] = "Database name can only contain letters, numbers, hyphens, and underscores."
	case len(f.DatabaseName) < 3:
		errs["database_name"] = "Database name must be at least 3 characters long."
	case len(f.DatabaseName) > 50:
		errs["database_name"] = "Database name cannot be more than 50 characters long."
	default:
		exists, err := names.NameExists(ctx, f.DatabaseName)
		if err != nil {
			return nil, fmt.Errorf("failed to check database name uniqueness: %w", err)
		}
		if exists {
			errs["database_name"] = "A database with this name already exists."
		}
	}

	f.ExpectedSize = strings.ToUpper(strings.TrimSpace(f.ExpectedSize))
	if f.ExpectedSize == "" {
		errs["expected_size"] = "Expected size is required."
	} else if !containsAny(f.ExpectedSize, "GB", "TB", "MB") {
		errs["expected_size"] = "Expected size should include units (GB, TB, or MB). Example: 50GB"
	}

	if !models.ValidEngine(f.Engine) {
		errs["engine"] = "Select a valid database engine."
	}

	if !models.ValidInstanceClass(f.InstanceClass) {
		errs["instance_class"] = "Select a valid instance class."
	}

	storage, err := strconv.Atoi(strings.TrimSpace(f.AllocatedStorage))
	switch {
	case err != nil:
		errs["allocated_storage"] = "Storage must be a whole number of GB."
	case storage < 20:
		errs["allocated_storage"] = "Minimum storage allocation is 20GB."
	case storage > 1000:
		errs["allocated_storage"] = "Maximum storage allocation is 1000GB."
	default:
		f.storageGB = storage
	}

	return errs, nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
