package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rds-portal/internal/models"
)

const testMockDomain = "c123456789.us-east-1.rds.amazonaws.com"

func noSleep(time.Duration) {}

func alwaysSucceed() float64 { return 0.0 }
func alwaysFail() float64    { return 0.999 }

func TestProvisionSuccessAssignsEndpointAndEnginePort(t *testing.T) {
	p := NewScriptedProvisioner(testMockDomain, noSleep, alwaysSucceed)

	tests := []struct {
		engine string
		port   int
	}{
		{"mysql", 3306},
		{"postgres", 5432},
		{"mariadb", 5432},
		{"oracle", 5432},
		{"sqlserver", 5432},
	}

	for _, tt := range tests {
		t.Run(tt.engine, func(t *testing.T) {
			instance := &models.Instance{
				DatabaseName:          "orders-db",
				Engine:                tt.engine,
				AWSInstanceIdentifier: "rds-orders-db-abcd1234",
			}

			require.NoError(t, p.Provision(context.Background(), instance))
			assert.Equal(t, "rds-orders-db-abcd1234."+testMockDomain, instance.Endpoint)
			assert.Equal(t, tt.port, instance.Port)
		})
	}
}

func TestProvisionFailureLeavesInstanceUntouched(t *testing.T) {
	p := NewScriptedProvisioner(testMockDomain, noSleep, alwaysFail)

	instance := &models.Instance{
		DatabaseName:          "orders-db",
		Engine:                "mysql",
		AWSInstanceIdentifier: "rds-orders-db-abcd1234",
	}

	err := p.Provision(context.Background(), instance)
	assert.ErrorIs(t, err, ErrProvisionFailed)
	assert.Empty(t, instance.Endpoint)
	assert.Zero(t, instance.Port)
}

func TestDeprovisionOutcomes(t *testing.T) {
	instance := &models.Instance{DatabaseName: "orders-db"}

	ok := NewScriptedProvisioner(testMockDomain, noSleep, alwaysSucceed)
	assert.NoError(t, ok.Deprovision(context.Background(), instance))

	bad := NewScriptedProvisioner(testMockDomain, noSleep, alwaysFail)
	assert.ErrorIs(t, bad.Deprovision(context.Background(), instance), ErrDeprovisionFailed)
}

func TestSimulatedProvisionerSleeps(t *testing.T) {
	var slept []time.Duration
	record := func(d time.Duration) { slept = append(slept, d) }

	p := NewScriptedProvisioner(testMockDomain, record, alwaysSucceed)
	instance := &models.Instance{Engine: "mysql", AWSInstanceIdentifier: "rds-x-1"}

	require.NoError(t, p.Provision(context.Background(), instance))
	require.NoError(t, p.Deprovision(context.Background(), instance))

	require.Len(t, slept, 2)
	assert.Equal(t, provisionDelay, slept[0])
	assert.Equal(t, deprovisionDelay, slept[1])
}
