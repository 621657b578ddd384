// Package s3 serves template fragments from an S3 (or S3-compatible) bucket.
//
// A fragments location of the form s3://bucket/prefix replaces the fragments
// compiled into the binary. Objects use the same names as the built-in set:
// base, elastic_group, static_node and node_record with a .json or .yaml
// extension, plus user-data.yaml.
package s3
