package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/imamik/clusterform/internal/template"
)

// TagSubnetTier marks a subnet public or private. Subnets without it are
// classified by MapPublicIpOnLaunch.
const TagSubnetTier = "tier"

// NetworkOverrides are user-supplied zones and subnets. Zones, Subnets and
// PrivateSubnets are parallel lists.
type NetworkOverrides struct {
	Zones          []string
	Subnets        []string
	PrivateSubnets []string
}

// DiscoverNetwork describes the VPC's subnets and pairs one public and one
// private subnet per availability zone. Overrides replace the discovered
// values they set.
func (c *Client) DiscoverNetwork(ctx context.Context, vpcID string, overrides NetworkOverrides) (template.Network, error) {
	input := &ec2.DescribeSubnetsInput{
		Filters: []types.Filter{{Name: aws.String("vpc-id"), Values: []string{vpcID}}},
	}
	var subnets []types.Subnet
	err := c.do(ctx, "describe subnets of "+vpcID, func() error {
		subnets = nil
		paginator := ec2.NewDescribeSubnetsPaginator(c.ec2, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return err
			}
			subnets = append(subnets, page.Subnets...)
		}
		return nil
	})
	if err != nil {
		return template.Network{}, err
	}
	if len(subnets) == 0 {
		return template.Network{}, fmt.Errorf("VPC %s has no subnets", vpcID)
	}

	pairs := make(map[string]template.SubnetPair)
	for _, s := range subnets {
		zone := aws.ToString(s.AvailabilityZone)
		pair := pairs[zone]
		if isPublic(s) {
			if pair.Public == "" {
				pair.Public = aws.ToString(s.SubnetId)
			}
		} else if pair.Private == "" {
			pair.Private = aws.ToString(s.SubnetId)
		}
		pairs[zone] = pair
	}

	zones := make([]string, 0, len(pairs))
	for zone, pair := range pairs {
		if pair.Public != "" && pair.Private != "" {
			zones = append(zones, zone)
		}
	}
	sort.Strings(zones)

	net := template.Network{VPCID: vpcID, Zones: zones, Subnets: make(map[string]template.SubnetPair)}
	for _, zone := range zones {
		net.Subnets[zone] = pairs[zone]
		net.PublicSubnets = append(net.PublicSubnets, pairs[zone].Public)
		net.PrivateSubnets = append(net.PrivateSubnets, pairs[zone].Private)
	}

	if err := applyOverrides(&net, overrides); err != nil {
		return template.Network{}, err
	}
	if len(net.Zones) == 0 {
		return template.Network{}, fmt.Errorf("VPC %s has no zone with both a public and a private subnet", vpcID)
	}
	return net, nil
}

func applyOverrides(net *template.Network, o NetworkOverrides) error {
	if len(o.Zones) == 0 {
		return nil
	}
	if len(o.Subnets) > 0 && len(o.Subnets) != len(o.Zones) {
		return fmt.Errorf("%d subnets for %d zones", len(o.Subnets), len(o.Zones))
	}
	if len(o.PrivateSubnets) > 0 && len(o.PrivateSubnets) != len(o.Zones) {
		return fmt.Errorf("%d private subnets for %d zones", len(o.PrivateSubnets), len(o.Zones))
	}

	subnets := make(map[string]template.SubnetPair, len(o.Zones))
	net.PublicSubnets = nil
	net.PrivateSubnets = nil
	for i, zone := range o.Zones {
		pair := net.Subnets[zone]
		if len(o.Subnets) > 0 {
			pair.Public = o.Subnets[i]
		}
		if len(o.PrivateSubnets) > 0 {
			pair.Private = o.PrivateSubnets[i]
		}
		if pair.Public == "" || pair.Private == "" {
			return fmt.Errorf("zone %s has no discovered subnets; list them explicitly", zone)
		}
		subnets[zone] = pair
		net.PublicSubnets = append(net.PublicSubnets, pair.Public)
		net.PrivateSubnets = append(net.PrivateSubnets, pair.Private)
	}
	net.Zones = o.Zones
	net.Subnets = subnets
	return nil
}

func isPublic(s types.Subnet) bool {
	for _, t := range s.Tags {
		if aws.ToString(t.Key) == TagSubnetTier {
			return aws.ToString(t.Value) == "public"
		}
	}
	return aws.ToBool(s.MapPublicIpOnLaunch)
}

// DiscoverBastion returns the bastion's first security group and its VPC.
func (c *Client) DiscoverBastion(ctx context.Context, instanceID string) (*template.Bastion, error) {
	var out *ec2.DescribeInstancesOutput
	err := c.do(ctx, "describe bastion "+instanceID, func() error {
		var err error
		out, err = c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: []string{instanceID}})
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, r := range out.Reservations {
		for _, inst := range r.Instances {
			if len(inst.SecurityGroups) == 0 {
				return nil, fmt.Errorf("bastion %s has no security group", instanceID)
			}
			return &template.Bastion{
				InstanceID:      instanceID,
				SecurityGroupID: aws.ToString(inst.SecurityGroups[0].GroupId),
				VPCID:           aws.ToString(inst.VpcId),
			}, nil
		}
	}
	return nil, fmt.Errorf("bastion %s does not exist", instanceID)
}
