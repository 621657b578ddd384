package template

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"sigs.k8s.io/yaml"
)

// FragmentKind names a per-resource fragment.
type FragmentKind string

const (
	FragmentElasticGroup FragmentKind = "elastic_group"
	FragmentStaticNode   FragmentKind = "static_node"
	FragmentNodeRecord   FragmentKind = "node_record"
)

// Fragment names shared by every store. Document fragments are looked up
// with a .json extension first, then .yaml.
const (
	BaseFragment     = "base"
	UserDataFragment = "user-data.yaml"
)

// FragmentExtensions are tried in order when loading a document fragment.
var FragmentExtensions = []string{".json", ".yaml"}

// FragmentStore supplies the static resource shapes of one provider.
type FragmentStore interface {
	LoadBase(ctx context.Context) (Document, error)
	LoadNodeFragment(ctx context.Context, kind FragmentKind) (Document, error)
	LoadUserData(ctx context.Context) ([]byte, error)
}

//go:embed fragments
var embedded embed.FS

// NewEmbeddedStore returns the fragments compiled into the binary for provider.
func NewEmbeddedStore(provider string) (FragmentStore, error) {
	sub, err := fs.Sub(embedded, path.Join("fragments", provider))
	if err != nil {
		return nil, err
	}
	if _, err := fs.Stat(sub, UserDataFragment); err != nil {
		return nil, fmt.Errorf("no built-in fragments for provider %q", provider)
	}
	return &fsStore{fsys: sub, origin: "embedded:" + provider}, nil
}

// NewDirStore reads fragments from a local directory with the same layout
// as the built-in ones.
func NewDirStore(dir string) FragmentStore {
	return &fsStore{fsys: os.DirFS(dir), origin: dir}
}

type fsStore struct {
	fsys   fs.FS
	origin string
}

func (s *fsStore) LoadBase(_ context.Context) (Document, error) {
	return s.load(BaseFragment)
}

func (s *fsStore) LoadNodeFragment(_ context.Context, kind FragmentKind) (Document, error) {
	return s.load(string(kind))
}

func (s *fsStore) LoadUserData(_ context.Context) ([]byte, error) {
	data, err := fs.ReadFile(s.fsys, UserDataFragment)
	if err != nil {
		return nil, &AssemblyError{Resource: s.origin + "/" + UserDataFragment, Err: err}
	}
	return data, nil
}

func (s *fsStore) load(name string) (Document, error) {
	for _, ext := range FragmentExtensions {
		data, err := fs.ReadFile(s.fsys, name+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, &AssemblyError{Resource: s.origin + "/" + name + ext, Err: err}
		}
		return DecodeFragment(name+ext, data)
	}
	return nil, &AssemblyError{Resource: s.origin + "/" + name, Err: fs.ErrNotExist}
}

// DecodeFragment parses a JSON or YAML fragment into a Document.
func DecodeFragment(name string, data []byte) (Document, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &AssemblyError{Resource: name, Err: err}
	}
	if doc == nil {
		return nil, &AssemblyError{Resource: name, Err: errors.New("fragment is empty")}
	}
	return Document(doc), nil
}
