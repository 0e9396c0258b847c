// Package category bundles named objects and morphisms and checks their
// structural well-formedness: every morphism's endpoints must be registered
// objects, and a verified category has an identity on every object.
//
// The registry is backed by go-memdb, giving indexed lookup by name, by
// endpoint, and by endpoint pair. Registration is non-owning: the category
// indexes dynamic morphism handles for lookup and validation but never
// releases them; lifecycle stays with the caller.
package category

import (
	"errors"
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/morphlab/morphic/logging"
	"github.com/morphlab/morphic/morphism"
	"github.com/morphlab/morphic/object"
)

// Sentinel errors for category construction and verification.
var (
	// ErrDuplicateObject indicates two registered objects sharing a name.
	ErrDuplicateObject = errors.New("category: duplicate object")

	// ErrDuplicateMorphism indicates two registrations sharing a name.
	ErrDuplicateMorphism = errors.New("category: duplicate morphism name")

	// ErrUnknownEndpoint indicates a morphism whose source or target is
	// not a registered object.
	ErrUnknownEndpoint = errors.New("category: morphism endpoint not in object set")

	// ErrMissingIdentity indicates an object with no identity-marked
	// morphism on it; Verify aggregates one per offending object.
	ErrMissingIdentity = errors.New("category: object lacks an identity morphism")

	// ErrNilMorphism indicates a registration without a morphism handle.
	ErrNilMorphism = errors.New("category: nil morphism in entry")
)

const (
	tableObjects   = "objects"
	tableMorphisms = "morphisms"
	indexID        = "id"
	indexSource    = "source"
	indexTarget    = "target"
	indexEndpoints = "endpoints"
)

// Entry binds a registration name to a dynamic morphism.
type Entry struct {
	Name     string
	Morphism morphism.Dyn
}

type objectRow struct {
	Name string
}

type morphismRow struct {
	Name   string
	Source string
	Target string
	Seq    int
	M      morphism.Dyn
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableObjects: {
				Name: tableObjects,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
				},
			},
			tableMorphisms: {
				Name: tableMorphisms,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: {
						Name:    indexID,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Name"},
					},
					indexSource: {
						Name:    indexSource,
						Indexer: &memdb.StringFieldIndex{Field: "Source"},
					},
					indexTarget: {
						Name:    indexTarget,
						Indexer: &memdb.StringFieldIndex{Field: "Target"},
					},
					indexEndpoints: {
						Name: indexEndpoints,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "Source"},
								&memdb.StringFieldIndex{Field: "Target"},
							},
						},
					},
				},
			},
		},
	}
}

// Category is a named, validated collection of objects and morphisms.
type Category struct {
	name    string
	db      *memdb.MemDB
	objects []object.Object
}

// New builds a category from a name, an object set, and morphism entries.
// Construction rejects duplicate names and any morphism whose source or
// target is not in the object set.
func New(name string, objects []object.Object, entries []Entry) (*Category, error) {
	registered := make(map[string]struct{}, len(objects))
	for _, o := range objects {
		if _, dup := registered[o.Name()]; dup {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateObject, o.Name(), name)
		}
		registered[o.Name()] = struct{}{}
	}

	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("category %s: %w", name, err)
	}

	txn := db.Txn(true)
	defer txn.Abort()

	for _, o := range objects {
		if err := txn.Insert(tableObjects, objectRow{Name: o.Name()}); err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}
	}

	names := make(map[string]struct{}, len(entries))
	for seq, e := range entries {
		if e.Morphism == nil {
			return nil, fmt.Errorf("%w: entry %s in %s", ErrNilMorphism, e.Name, name)
		}
		if _, dup := names[e.Name]; dup {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateMorphism, e.Name, name)
		}
		names[e.Name] = struct{}{}
		src, dst := e.Morphism.Source(), e.Morphism.Target()
		if _, ok := registered[src.Name()]; !ok {
			return nil, fmt.Errorf("%w: %s has source %s", ErrUnknownEndpoint, e.Name, src)
		}
		if _, ok := registered[dst.Name()]; !ok {
			return nil, fmt.Errorf("%w: %s has target %s", ErrUnknownEndpoint, e.Name, dst)
		}
		row := &morphismRow{
			Name:   e.Name,
			Source: src.Name(),
			Target: dst.Name(),
			Seq:    seq,
			M:      e.Morphism,
		}
		if err := txn.Insert(tableMorphisms, row); err != nil {
			return nil, fmt.Errorf("category %s: %w", name, err)
		}
	}
	txn.Commit()

	logging.L().Info("category constructed",
		zap.String("category", name),
		zap.Int("objects", len(objects)),
		zap.Int("morphisms", len(entries)),
	)
	return &Category{
		name:    name,
		db:      db,
		objects: append([]object.Object(nil), objects...),
	}, nil
}

// Name returns the category's name.
func (c *Category) Name() string {
	return c.name
}

// Objects returns the registered objects in registration order.
func (c *Category) Objects() []object.Object {
	return append([]object.Object(nil), c.objects...)
}

// Verify confirms every registered object has at least one identity-marked
// morphism with both endpoints on it. All violations are reported together,
// each wrapping ErrMissingIdentity.
func (c *Category) Verify() error {
	txn := c.db.Txn(false)
	defer txn.Abort()

	var err error
	for _, o := range c.objects {
		it, lookupErr := txn.Get(tableMorphisms, indexEndpoints, o.Name(), o.Name())
		if lookupErr != nil {
			return fmt.Errorf("category %s: %w", c.name, lookupErr)
		}
		found := false
		for raw := it.Next(); raw != nil; raw = it.Next() {
			if raw.(*morphismRow).M.IsIdentity() {
				found = true
				break
			}
		}
		if !found {
			err = multierr.Append(err, fmt.Errorf("%w: %s in %s", ErrMissingIdentity, o.Name(), c.name))
		}
	}
	if err != nil {
		logging.L().Warn("category verification failed",
			zap.String("category", c.name),
			zap.Error(err),
		)
	}
	return err
}

// FindObject looks an object up by name. Absence is a normal outcome.
func (c *Category) FindObject(name string) (object.Object, bool) {
	txn := c.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableObjects, indexID, name)
	if err != nil || raw == nil {
		return object.Object{}, false
	}
	return object.Of(raw.(objectRow).Name), true
}

// FindMorphism looks a morphism up by registration name. Absence is a
// normal outcome.
func (c *Category) FindMorphism(name string) (morphism.Dyn, bool) {
	txn := c.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(tableMorphisms, indexID, name)
	if err != nil || raw == nil {
		return nil, false
	}
	return raw.(*morphismRow).M, true
}

// MorphismsBetween returns every registered morphism from src to dst, in
// registration order.
func (c *Category) MorphismsBetween(src, dst object.Object) []morphism.Dyn {
	txn := c.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tableMorphisms, indexEndpoints, src.Name(), dst.Name())
	if err != nil {
		return nil
	}
	var rows []*morphismRow
	for raw := it.Next(); raw != nil; raw = it.Next() {
		rows = append(rows, raw.(*morphismRow))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })
	out := make([]morphism.Dyn, len(rows))
	for i, r := range rows {
		out[i] = r.M
	}
	return out
}
