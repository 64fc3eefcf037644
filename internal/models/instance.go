package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Instance lifecycle statuses.
const (
	StatusCreating  = "creating"
	StatusAvailable = "available"
	StatusModifying = "modifying"
	StatusDeleting  = "deleting"
	StatusDeleted   = "deleted"
	StatusFailed    = "failed"
)

var StatusChoices = []string{
	StatusCreating,
	StatusAvailable,
	StatusModifying,
	StatusDeleting,
	StatusDeleted,
	StatusFailed,
}

var EngineChoices = []string{"mysql", "postgres", "mariadb", "oracle", "sqlserver"}

// InstanceClassChoices is the authoritative set of size tiers offered on the
// creation form.
var InstanceClassChoices = []string{
	"db.t3.micro",
	"db.t3.small",
	"db.t3.medium",
	"db.t3.large",
	"db.m5.large",
	"db.m5.xlarge",
	"db.r5.large",
}

// Instance maps to the rds_instances table. It represents one simulated
// managed database owned by the user who created it.
type Instance struct {
	ID                     uuid.UUID `json:"id"`
	DatabaseName           string    `json:"database_name"`
	ExpectedSize           string    `json:"expected_size"`
	Engine                 string    `json:"engine"`
	InstanceClass          string    `json:"instance_class"`
	AllocatedStorage       int       `json:"allocated_storage"`
	AWSInstanceIdentifier  string    `json:"aws_instance_identifier,omitempty"`
	Endpoint               string    `json:"endpoint,omitempty"` // empty until provisioning succeeds
	Port                   int       `json:"port"`
	DatabaseUsername       string    `json:"database_username"`
	DatabasePassword       string    `json:"-"` // never exposed
	ServiceAccountUsername string    `json:"service_account_username,omitempty"`
	AppUsername            string    `json:"app_username,omitempty"`
	Status                 string    `json:"status"`
	CreatedBy              string    `json:"created_by"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (i *Instance) Prepare() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Status == "" {
		i.Status = StatusCreating
	}
	if i.DatabaseUsername == "" {
		i.DatabaseUsername = "admin"
	}
}

// ConnectionString renders the client connection string with the password
// masked. Returns a placeholder while the instance has no endpoint.
func (i *Instance) ConnectionString() string {
	if i.Endpoint == "" || i.DatabaseUsername == "" {
		return "Not available yet"
	}
	return fmt.Sprintf("%s://%s:[PASSWORD]@%s:%d/%s",
		i.Engine, i.DatabaseUsername, i.Endpoint, i.Port, i.DatabaseName)
}

func (i *Instance) IsAvailable() bool {
	return i.Status == StatusAvailable
}

func ValidEngine(engine string) bool {
	for _, e := range EngineChoices {
		if e == engine {
			return true
		}
	}
	return false
}

func ValidInstanceClass(class string) bool {
	for _, c := range InstanceClassChoices {
		if c == class {
			return true
		}
	}
	return false
}

func ValidStatus(status string) bool {
	for _, s := range StatusChoices {
		if s == status {
			return true
		}
	}
	return false
}
