package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"rds-portal/internal/models"
)

// Provisioner is the upstream provisioning API as the lifecycle service sees
// it. A real cloud integration would implement the same two calls.
type Provisioner interface {
	// Provision makes the instance network-reachable. On success it fills in
	// Endpoint and Port; on failure it returns ErrProvisionFailed and leaves
	// the instance untouched.
	Provision(ctx context.Context, instance *models.Instance) error

	// Deprovision tears the instance down upstream. Returns
	// ErrDeprovisionFailed when the upstream call fails.
	Deprovision(ctx context.Context, instance *models.Instance) error
}

const (
	provisionDelay   = 1 * time.Second
	deprovisionDelay = 500 * time.Millisecond

	provisionSuccessRate   = 0.9
	deprovisionSuccessRate = 0.95
)

// SimulatedProvisioner stands in for the AWS RDS API: it sleeps for a bit and
// then succeeds or fails probabilistically.
type SimulatedProvisioner struct {
	mockDomain string
	sleep      func(time.Duration)
	chance     func() float64
}

func NewSimulatedProvisioner(mockDomain string) *SimulatedProvisioner {
	return &SimulatedProvisioner{
		mockDomain: mockDomain,
		sleep:      time.Sleep,
		chance:     rand.Float64,
	}
}

// NewScriptedProvisioner builds a simulator with injected delay and outcome
// functions. Tests use it to force either branch without sleeping.
func NewScriptedProvisioner(mockDomain string, sleep func(time.Duration), chance func() float64) *SimulatedProvisioner {
	return &SimulatedProvisioner{mockDomain: mockDomain, sleep: sleep, chance: chance}
}

func (p *SimulatedProvisioner) Provision(ctx context.Context, instance *models.Instance) error {
	p.sleep(provisionDelay)

	if p.chance() >= provisionSuccessRate {
		log.Printf("Provisioning failed for instance %s", instance.DatabaseName)
		return ErrProvisionFailed
	}

	instance.Endpoint = fmt.Sprintf("%s.%s", instance.AWSInstanceIdentifier, p.mockDomain)
	instance.Port = defaultPort(instance.Engine)
	log.Printf("Provisioned instance %s at %s:%d", instance.DatabaseName, instance.Endpoint, instance.Port)
	return nil
}

func (p *SimulatedProvisioner) Deprovision(ctx context.Context, instance *models.Instance) error {
	p.sleep(deprovisionDelay)

	if p.chance() >= deprovisionSuccessRate {
		log.Printf("Deprovisioning failed for instance %s", instance.DatabaseName)
		return ErrDeprovisionFailed
	}

	log.Printf("Deprovisioned instance %s", instance.DatabaseName)
	return nil
}

// defaultPort only distinguishes mysql from everything else; mariadb, oracle
// and sqlserver all inherit the postgres default. Known simplification.
func defaultPort(engine string) int {
	if engine == "mysql" {
		return 3306
	}
	return 5432
}
