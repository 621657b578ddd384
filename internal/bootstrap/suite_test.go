package bootstrap_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TestBootstrapPlanner is the entry point for Ginkgo tests.
func TestBootstrapPlanner(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bootstrap Planner Suite")
}
