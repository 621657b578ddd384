// Package template assembles the infrastructure document.
//
// The Assembler owns only the merge policy: which groups become elastic node
// groups, which become addressable nodes with DNS records, and which single
// group receives the ingress attachment. Resource shapes come from fragments
// loaded through a FragmentStore, and a provider Target writes them into the
// document.
package template
