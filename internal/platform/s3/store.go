package s3

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/imamik/clusterform/internal/template"
)

// Location is a bucket and key prefix.
type Location struct {
	Bucket string
	Prefix string
}

// String returns the location in s3://bucket/prefix form.
func (l Location) String() string {
	if l.Prefix == "" {
		return "s3://" + l.Bucket
	}
	return "s3://" + l.Bucket + "/" + l.Prefix
}

func (l Location) key(name string) string {
	if l.Prefix == "" {
		return name
	}
	return path.Join(l.Prefix, name)
}

// IsLocation reports whether s uses the s3:// scheme.
func IsLocation(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// ParseLocation parses s3://bucket[/prefix].
func ParseLocation(s string) (Location, error) {
	rest, ok := strings.CutPrefix(s, "s3://")
	if !ok {
		return Location{}, fmt.Errorf("%q is not an s3:// location", s)
	}
	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%q has no bucket", s)
	}
	return Location{Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

// ObjectGetter is the part of Client the fragment store needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, bucketName, key string) ([]byte, error)
}

// FragmentStore implements template.FragmentStore on top of a bucket.
type FragmentStore struct {
	client ObjectGetter
	loc    Location
}

var _ template.FragmentStore = (*FragmentStore)(nil)

// NewFragmentStore reads fragments below loc.
func NewFragmentStore(client ObjectGetter, loc Location) *FragmentStore {
	return &FragmentStore{client: client, loc: loc}
}

func (s *FragmentStore) LoadBase(ctx context.Context) (template.Document, error) {
	return s.load(ctx, template.BaseFragment)
}

func (s *FragmentStore) LoadNodeFragment(ctx context.Context, kind template.FragmentKind) (template.Document, error) {
	return s.load(ctx, string(kind))
}

func (s *FragmentStore) LoadUserData(ctx context.Context) ([]byte, error) {
	key := s.loc.key(template.UserDataFragment)
	data, err := s.client.GetObject(ctx, s.loc.Bucket, key)
	if err != nil {
		return nil, &template.AssemblyError{Resource: s.loc.String() + "/" + template.UserDataFragment, Err: err}
	}
	return data, nil
}

func (s *FragmentStore) load(ctx context.Context, name string) (template.Document, error) {
	for _, ext := range template.FragmentExtensions {
		data, err := s.client.GetObject(ctx, s.loc.Bucket, s.loc.key(name+ext))
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, &template.AssemblyError{Resource: s.loc.String() + "/" + name + ext, Err: err}
		}
		return template.DecodeFragment(name+ext, data)
	}
	return nil, &template.AssemblyError{Resource: s.loc.String() + "/" + name, Err: ErrNotFound}
}
