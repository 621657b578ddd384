package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/clusterform/internal/bootstrap"
)

func TestOracle_ExistsAndZoneOf(t *testing.T) {
	founder := bootstrap.NodeIdentity{Stack: "prod", Group: "other", Ordinal: 1}
	second := bootstrap.NodeIdentity{Stack: "prod", Group: "other", Ordinal: 2}
	third := bootstrap.NodeIdentity{Stack: "prod", Group: "other", Ordinal: 3}

	api := &fakeEC2{instances: []types.Instance{
		instance("i-1", founder.Tag(), "prod", "eu-west-1b", types.InstanceStateNameRunning),
		instance("i-2", second.Tag(), "prod", "eu-west-1a", types.InstanceStateNameTerminated),
		instance("i-3", third.Tag(), "staging", "eu-west-1c", types.InstanceStateNameRunning),
	}}
	oracle := NewOracle(testClient(api), nil)
	ctx := context.Background()

	exists, err := oracle.Exists(ctx, founder)
	require.NoError(t, err)
	assert.True(t, exists)

	zone, err := oracle.ZoneOf(ctx, founder)
	require.NoError(t, err)
	assert.Equal(t, bootstrap.Zone("eu-west-1b"), zone)
	assert.Equal(t, 1, api.describeInstancesCalls, "lookups are cached per node")

	exists, err = oracle.Exists(ctx, second)
	require.NoError(t, err)
	assert.False(t, exists, "terminated instances free their identity")

	exists, err = oracle.Exists(ctx, third)
	require.NoError(t, err)
	assert.False(t, exists, "instances of another stack are ignored")

	_, err = oracle.ZoneOf(ctx, second)
	assert.Error(t, err)
}

func TestOracle_RetriesThrottling(t *testing.T) {
	id := bootstrap.NodeIdentity{Stack: "prod", Group: "other", Ordinal: 1}
	api := &fakeEC2{
		instances: []types.Instance{instance("i-1", id.Tag(), "prod", "eu-west-1a", types.InstanceStateNameRunning)},
		failures: []error{
			&smithy.GenericAPIError{Code: "RequestLimitExceeded", Message: "slow down"},
			&smithy.GenericAPIError{Code: "Throttling", Message: "slow down"},
		},
	}

	exists, err := NewOracle(testClient(api), nil).Exists(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, 3, api.describeInstancesCalls)
}

func TestOracle_FailsOnAuthErrors(t *testing.T) {
	id := bootstrap.NodeIdentity{Stack: "prod", Group: "other", Ordinal: 1}
	api := &fakeEC2{failures: []error{&smithy.GenericAPIError{Code: "UnauthorizedOperation", Message: "denied"}}}

	_, err := NewOracle(testClient(api), nil).Exists(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, 1, api.describeInstancesCalls)
	assert.Contains(t, err.Error(), "describe instance prod-other-node-1")
}

func TestOracle_AvailableZones(t *testing.T) {
	api := &fakeEC2{zones: []string{"eu-west-1a", "eu-west-1b", "eu-west-1c"}}

	zones, err := NewOracle(testClient(api), nil).AvailableZones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bootstrap.Zone{"eu-west-1a", "eu-west-1b", "eu-west-1c"}, zones)

	zones, err = NewOracle(testClient(api), []string{"eu-west-1c", "eu-west-1a"}).AvailableZones(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []bootstrap.Zone{"eu-west-1a", "eu-west-1c"}, zones)
}

func TestIsThrottle(t *testing.T) {
	assert.True(t, isThrottle(&smithy.GenericAPIError{Code: "ThrottlingException"}))
	assert.False(t, isThrottle(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isThrottle(assert.AnError))
	assert.False(t, isThrottle(nil))
	assert.True(t, IsNotFound(&smithy.GenericAPIError{Code: "InvalidVpcID.NotFound"}))
}
