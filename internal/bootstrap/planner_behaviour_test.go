package bootstrap_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/imamik/clusterform/internal/bootstrap"
	testutil "github.com/imamik/clusterform/internal/testing"
	"github.com/imamik/clusterform/internal/topology"
)

const stack = "prod"

var zones = []bootstrap.Zone{"eu-west-1a", "eu-west-1b", "eu-west-1c"}

func quorumHost(members int) topology.Group {
	return topology.Group{
		Owner:       topology.RoleOther,
		Roles:       topology.NewRoleSet(topology.RoleControl, topology.RoleCoordination, topology.RoleOther),
		QuorumHost:  true,
		MemberCount: members,
		MaxCount:    9,
	}
}

func node(ordinal int) bootstrap.NodeIdentity {
	return bootstrap.NodeIdentity{Stack: stack, Group: "other", Ordinal: ordinal}
}

func states(plans []bootstrap.NodePlan) []bootstrap.JoinState {
	out := make([]bootstrap.JoinState, len(plans))
	for i, p := range plans {
		out[i] = p.JoinState
	}
	return out
}

func planZones(plans []bootstrap.NodePlan) []bootstrap.Zone {
	out := make([]bootstrap.Zone, len(plans))
	for i, p := range plans {
		out[i] = p.Zone
	}
	return out
}

var _ = Describe("Planner", func() {
	var (
		ctx   context.Context
		fleet *testutil.FakeFleet
	)

	BeforeEach(func() {
		ctx = context.Background()
		fleet = testutil.NewFakeFleet(zones...)
	})

	plan := func(members int) ([]bootstrap.NodePlan, error) {
		planner := bootstrap.NewPlanner(fleet, stack, zones, bootstrap.WithRand(&testutil.SequenceRand{Values: []int{2, 0, 1}}))
		return planner.Plan(ctx, quorumHost(members))
	}

	Context("on a fresh deployment", func() {
		It("founds a new quorum with every member", func() {
			plans, err := plan(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(states(plans)).To(Equal([]bootstrap.JoinState{bootstrap.JoinNew, bootstrap.JoinNew, bootstrap.JoinNew}))
			Expect(plans[0].Provisioned).To(BeFalse())
		})

		It("places new members with the random source", func() {
			plans, err := plan(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(planZones(plans)).To(Equal([]bootstrap.Zone{"eu-west-1c", "eu-west-1a", "eu-west-1b"}))
		})

		It("emits member endpoints and the shared cluster token", func() {
			plans, err := plan(3)
			Expect(err).NotTo(HaveOccurred())

			second := plans[1]
			Expect(second.Identity.Tag()).To(Equal("prod-other-node-2"))
			Expect(second.PeerURL).To(Equal("http://node-2.coordination-prod.internal:2380"))
			Expect(second.ClientURL).To(Equal("http://node-2.coordination-prod.internal:2379"))
			Expect(second.Config.Name).To(Equal("node-2"))
			Expect(second.Config.InitialClusterToken).To(Equal(stack))
			Expect(second.Config.DiscoverySRV).To(Equal("coordination-prod.internal"))
			Expect(second.Config.IsProxy()).To(BeFalse())
		})
	})

	Context("when the founding node exists and the quorum is scaled up", func() {
		BeforeEach(func() {
			fleet.WithQuorum(stack, "other", 3, "eu-west-1b")
		})

		It("joins only the new ordinals to the live quorum", func() {
			plans, err := plan(5)
			Expect(err).NotTo(HaveOccurred())
			Expect(states(plans)).To(Equal([]bootstrap.JoinState{
				bootstrap.JoinNew, bootstrap.JoinNew, bootstrap.JoinNew,
				bootstrap.JoinExisting, bootstrap.JoinExisting,
			}))
			Expect(plans[3].Config.InitialClusterState).To(Equal("existing"))
		})

		It("keeps provisioned members in their current zone", func() {
			plans, err := plan(5)
			Expect(err).NotTo(HaveOccurred())
			for _, p := range plans[:3] {
				Expect(p.Zone).To(Equal(bootstrap.Zone("eu-west-1b")))
				Expect(p.Provisioned).To(BeTrue())
			}
		})
	})

	Context("when the quorum is fully formed", func() {
		BeforeEach(func() {
			fleet.WithNode(node(1), "eu-west-1c").
				WithNode(node(2), "eu-west-1a").
				WithNode(node(3), "eu-west-1b")
		})

		It("reproduces the same plan on every run", func() {
			first, err := plan(3)
			Expect(err).NotTo(HaveOccurred())
			second, err := plan(3)
			Expect(err).NotTo(HaveOccurred())

			Expect(first).To(Equal(second))
			Expect(planZones(first)).To(Equal([]bootstrap.Zone{"eu-west-1c", "eu-west-1a", "eu-west-1b"}))
			Expect(states(first)).To(HaveEach(bootstrap.JoinNew))
		})
	})

	Context("when a member exists but the founder is gone", func() {
		BeforeEach(func() {
			fleet.WithNode(node(2), "eu-west-1a")
		})

		It("does not claim any member is joining", func() {
			plans, err := plan(3)
			Expect(err).NotTo(HaveOccurred())
			Expect(states(plans)).To(HaveEach(bootstrap.JoinNew))
			Expect(plans[1].Zone).To(Equal(bootstrap.Zone("eu-west-1a")))
		})
	})

	Context("when the oracle fails", func() {
		BeforeEach(func() {
			fleet.Err = errors.New("throttled")
		})

		It("aborts with a discovery error and no partial plan", func() {
			plans, err := plan(3)
			Expect(plans).To(BeNil())

			var discovery *bootstrap.DiscoveryError
			Expect(errors.As(err, &discovery)).To(BeTrue())
			Expect(discovery.Identity).To(Equal(node(1)))
			Expect(err).To(MatchError(ContainSubstring("throttled")))
		})
	})
})
