package aws

import (
	"context"
	"slices"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	appconfig "github.com/imamik/clusterform/internal/config"
)

// fakeEC2 serves canned EC2 answers and records calls.
type fakeEC2 struct {
	instances []types.Instance
	zones     []string
	subnets   []types.Subnet

	// failures are returned, in order, before any successful answer.
	failures []error

	describeInstancesCalls int
	lastInstancesInput     *ec2.DescribeInstancesInput
}

func (f *fakeEC2) fail() error {
	if len(f.failures) == 0 {
		return nil
	}
	err := f.failures[0]
	f.failures = f.failures[1:]
	return err
}

func (f *fakeEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	f.describeInstancesCalls++
	f.lastInstancesInput = in
	if err := f.fail(); err != nil {
		return nil, err
	}

	var matched []types.Instance
	for _, inst := range f.instances {
		if matches(inst, in) {
			matched = append(matched, inst)
		}
	}
	out := &ec2.DescribeInstancesOutput{}
	if len(matched) > 0 {
		out.Reservations = []types.Reservation{{Instances: matched}}
	}
	return out, nil
}

func (f *fakeEC2) DescribeAvailabilityZones(_ context.Context, _ *ec2.DescribeAvailabilityZonesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAvailabilityZonesOutput, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	out := &ec2.DescribeAvailabilityZonesOutput{}
	for _, z := range f.zones {
		out.AvailabilityZones = append(out.AvailabilityZones, types.AvailabilityZone{
			ZoneName: aws.String(z),
			State:    types.AvailabilityZoneStateAvailable,
		})
	}
	return out, nil
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, _ *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return &ec2.DescribeSubnetsOutput{Subnets: f.subnets}, nil
}

// matches applies instance-id and tag filters the way EC2 does.
func matches(inst types.Instance, in *ec2.DescribeInstancesInput) bool {
	if len(in.InstanceIds) > 0 && !slices.Contains(in.InstanceIds, aws.ToString(inst.InstanceId)) {
		return false
	}
	for _, f := range in.Filters {
		name := aws.ToString(f.Name)
		switch {
		case name == "instance-state-name":
			if inst.State == nil || !slices.Contains(f.Values, string(inst.State.Name)) {
				return false
			}
		case len(name) > 4 && name[:4] == "tag:":
			if !slices.Contains(f.Values, tagValue(inst.Tags, name[4:])) {
				return false
			}
		}
	}
	return true
}

func tagValue(tags []types.Tag, key string) string {
	for _, t := range tags {
		if aws.ToString(t.Key) == key {
			return aws.ToString(t.Value)
		}
	}
	return ""
}

func instance(id, name, stack, zone string, state types.InstanceStateName) types.Instance {
	return types.Instance{
		InstanceId: aws.String(id),
		Placement:  &types.Placement{AvailabilityZone: aws.String(zone)},
		State:      &types.InstanceState{Name: state},
		Tags: []types.Tag{
			{Key: aws.String(TagName), Value: aws.String(name)},
			{Key: aws.String(TagStack), Value: aws.String(stack)},
		},
	}
}

func testClient(api EC2API) *Client {
	return NewClientWithAPI(api, "eu-west-1", WithTimeouts(&appconfig.Timeouts{
		Discovery:         10 * time.Second,
		RetryMaxAttempts:  3,
		RetryInitialDelay: time.Millisecond,
	}))
}
