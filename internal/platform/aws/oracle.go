package aws

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/clusterform/internal/bootstrap"
)

// Instance tag keys written by the CloudFormation target.
const (
	TagName  = "Name"
	TagStack = "stack"
)

// liveStates are the instance states that still occupy an identity.
var liveStates = []string{"pending", "running", "stopping", "stopped"}

// Oracle implements bootstrap.PlacementOracle on EC2.
type Oracle struct {
	client *Client
	// zones narrows AvailableZones to the zones the VPC has subnets in.
	zones []string

	mu        sync.Mutex
	instances map[string]*types.Instance
}

var _ bootstrap.PlacementOracle = (*Oracle)(nil)

// NewOracle creates an oracle. zones may be empty to allow every available
// zone of the region.
func NewOracle(client *Client, zones []string) *Oracle {
	return &Oracle{client: client, zones: zones, instances: make(map[string]*types.Instance)}
}

// Exists reports whether a live instance carries the identity's Name and
// stack tags.
func (o *Oracle) Exists(ctx context.Context, id bootstrap.NodeIdentity) (bool, error) {
	inst, err := o.instance(ctx, id)
	if err != nil {
		return false, err
	}
	return inst != nil, nil
}

// ZoneOf returns the instance's availability zone.
func (o *Oracle) ZoneOf(ctx context.Context, id bootstrap.NodeIdentity) (bootstrap.Zone, error) {
	inst, err := o.instance(ctx, id)
	if err != nil {
		return "", err
	}
	if inst == nil {
		return "", fmt.Errorf("instance %s does not exist", id.Tag())
	}
	if inst.Placement == nil {
		return "", nil
	}
	return bootstrap.Zone(aws.ToString(inst.Placement.AvailabilityZone)), nil
}

// AvailableZones lists the region's available zones, restricted to the
// oracle's zones when set.
func (o *Oracle) AvailableZones(ctx context.Context) ([]bootstrap.Zone, error) {
	var out *ec2.DescribeAvailabilityZonesOutput
	err := o.client.do(ctx, "describe availability zones", func() error {
		var err error
		out, err = o.client.ec2.DescribeAvailabilityZones(ctx, &ec2.DescribeAvailabilityZonesInput{
			Filters: []types.Filter{{Name: aws.String("state"), Values: []string{"available"}}},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	zones := make([]bootstrap.Zone, 0, len(out.AvailabilityZones))
	for _, az := range out.AvailabilityZones {
		name := aws.ToString(az.ZoneName)
		if len(o.zones) > 0 && !slices.Contains(o.zones, name) {
			continue
		}
		zones = append(zones, bootstrap.Zone(name))
	}
	return zones, nil
}

// instance looks a node up once per run; Exists and ZoneOf share the result.
func (o *Oracle) instance(ctx context.Context, id bootstrap.NodeIdentity) (*types.Instance, error) {
	tag := id.Tag()

	o.mu.Lock()
	cached, ok := o.instances[tag]
	o.mu.Unlock()
	if ok {
		return cached, nil
	}

	input := &ec2.DescribeInstancesInput{
		Filters: []types.Filter{
			{Name: aws.String("tag:" + TagName), Values: []string{tag}},
			{Name: aws.String("tag:" + TagStack), Values: []string{id.Stack}},
			{Name: aws.String("instance-state-name"), Values: liveStates},
		},
	}
	var found *types.Instance
	err := o.client.do(ctx, "describe instance "+tag, func() error {
		found = nil
		paginator := ec2.NewDescribeInstancesPaginator(o.client.ec2, input)
		for paginator.HasMorePages() && found == nil {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return err
			}
			for _, r := range page.Reservations {
				if len(r.Instances) > 0 {
					found = &r.Instances[0]
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.instances[tag] = found
	o.mu.Unlock()
	return found, nil
}
