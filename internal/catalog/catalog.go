package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	SortByID    = "id"
	SortByName  = "name"
	SortByValue = "value"
)

// Catalog owns every Record keyed by id, plus a secondary index from
// normalized name to the ids sharing it.
//
// The index always mirrors the primary map: each stored id sits in exactly
// the bucket for its current normalized name, and empty buckets are removed.
// Catalog is not safe for concurrent use.
type Catalog struct {
	items  map[string]*Record
	byName map[string]map[string]struct{}
}

// Patch holds the optional fields of an Update. Nil means unchanged.
type Patch struct {
	Name     *string
	Quantity *int64
	Price    *decimal.Decimal
}

// Summary aggregates the whole catalog. Units is a decimal so the sum of
// many large quantities cannot wrap.
type Summary struct {
	Items int
	Units decimal.Decimal
	Value decimal.Decimal
}

func New() *Catalog {
	return &Catalog{
		items:  map[string]*Record{},
		byName: map[string]map[string]struct{}{},
	}
}

func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) Add(r Record) error {
	if r.id == "" {
		return invalid("id", "must not be empty")
	}
	if _, ok := c.items[r.id]; ok {
		return &DuplicateIDError{ID: r.id}
	}
	rec := r
	c.items[rec.id] = &rec
	c.index(&rec)
	return nil
}

func (c *Catalog) Remove(id string) (Record, error) {
	rec, ok := c.items[id]
	if !ok {
		return Record{}, &NotFoundError{ID: id}
	}
	delete(c.items, id)
	c.unindex(rec)
	return *rec, nil
}

// Update applies p all-or-nothing: every provided field is validated before
// anything is written.
func (c *Catalog) Update(id string, p Patch) (Record, error) {
	rec, ok := c.items[id]
	if !ok {
		return Record{}, &NotFoundError{ID: id}
	}

	next := *rec
	if p.Name != nil {
		if err := next.SetName(*p.Name); err != nil {
			return Record{}, err
		}
	}
	if p.Quantity != nil {
		if err := next.SetQuantity(*p.Quantity); err != nil {
			return Record{}, err
		}
	}
	if p.Price != nil {
		if err := next.SetPrice(*p.Price); err != nil {
			return Record{}, err
		}
	}

	if next.name != rec.name {
		c.unindex(rec)
		rec.name = next.name
		c.index(rec)
	}
	rec.quantity = next.quantity
	rec.price = next.price
	return *rec, nil
}

// Get returns a copy of the stored record; later catalog mutations are not
// visible through it.
func (c *Catalog) Get(id string) (Record, error) {
	rec, ok := c.items[id]
	if !ok {
		return Record{}, &NotFoundError{ID: id}
	}
	return *rec, nil
}

// FindByName returns every record whose normalized name contains the
// normalized search text, ordered by lowercased name then id.
func (c *Catalog) FindByName(text string) []Record {
	t := normalize(text)
	if t == "" {
		return []Record{}
	}

	seen := map[string]struct{}{}
	for key, ids := range c.byName {
		if !strings.Contains(key, t) {
			continue
		}
		for id := range ids {
			seen[id] = struct{}{}
		}
	}

	out := make([]Record, 0, len(seen))
	for id := range seen {
		out = append(out, *c.items[id])
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].name), strings.ToLower(out[j].name)
		if ni != nj {
			return ni < nj
		}
		return out[i].id < out[j].id
	})
	return out
}

// ListAll returns every record ordered by key. Unknown keys sort by name.
// Ties keep id order.
func (c *Catalog) ListAll(key string) []Record {
	out := c.sortedByID()
	switch key {
	case SortByID:
	case SortByValue:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalValue().GreaterThan(out[j].TotalValue())
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].name) < strings.ToLower(out[j].name)
		})
	}
	return out
}

func (c *Catalog) Summary() Summary {
	s := Summary{Items: len(c.items), Units: decimal.Zero, Value: decimal.Zero}
	for _, rec := range c.items {
		s.Units = s.Units.Add(decimal.NewFromInt(rec.quantity))
		s.Value = s.Value.Add(rec.TotalValue())
	}
	s.Value = s.Value.Round(priceScale)
	return s
}

// LoadFromSnapshot replaces the catalog contents with fields. State is
// cleared first; a validation or duplicate id error stops the load and
// leaves the entries read so far in place.
func (c *Catalog) LoadFromSnapshot(fields []Fields) error {
	c.items = make(map[string]*Record, len(fields))
	defer c.reindex()

	for _, f := range fields {
		rec, err := FromFields(f)
		if err != nil {
			return err
		}
		if _, dup := c.items[rec.id]; dup {
			return &DuplicateIDError{ID: rec.id}
		}
		c.items[rec.id] = &rec
	}
	return nil
}

// ExportSnapshot returns every record's fields ordered by id.
func (c *Catalog) ExportSnapshot() []Fields {
	recs := c.sortedByID()
	out := make([]Fields, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Fields())
	}
	return out
}

func (c *Catalog) sortedByID() []Record {
	out := make([]Record, 0, len(c.items))
	for _, rec := range c.items {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

func (c *Catalog) index(rec *Record) {
	key := rec.NormalizedName()
	ids, ok := c.byName[key]
	if !ok {
		ids = map[string]struct{}{}
		c.byName[key] = ids
	}
	ids[rec.id] = struct{}{}
}

func (c *Catalog) unindex(rec *Record) {
	key := rec.NormalizedName()
	ids, ok := c.byName[key]
	if !ok {
		return
	}
	delete(ids, rec.id)
	if len(ids) == 0 {
		delete(c.byName, key)
	}
}

func (c *Catalog) reindex() {
	c.byName = make(map[string]map[string]struct{}, len(c.items))
	for _, rec := range c.items {
		c.index(rec)
	}
}

