// Package aws provides the read-only AWS lookups used when generating a
// CloudFormation document: the EC2 placement oracle for quorum nodes, VPC
// and bastion discovery, and the Flatcar image catalog.
package aws
