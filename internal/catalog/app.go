package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Inventory/pkg/kit"
)

// Service couples a Catalog with the Store that persists it. It is what the
// command line drives; every operation is logged and measured.
type Service struct {
	Catalog *Catalog
	Store   Store
	Log     *zap.Logger
	Metrics *kit.Metrics
}

func NewService(store Store, log *zap.Logger, metrics *kit.Metrics) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Catalog: New(), Store: store, Log: log, Metrics: metrics}
}

// Load replaces the catalog with the stored snapshot. On failure the current
// catalog is kept as it was.
func (s *Service) Load(ctx context.Context) error {
	return s.observe("load", func() error {
		fields, err := s.Store.Load(ctx)
		if err != nil {
			return fmt.Errorf("load %s: %w", s.Store.Location(), err)
		}

		fresh := New()
		if err := fresh.LoadFromSnapshot(fields); err != nil {
			return fmt.Errorf("load %s: %w", s.Store.Location(), err)
		}
		*s.Catalog = *fresh

		s.Log.Info("catalog loaded", zap.String("from", s.Store.Location()), zap.Int("items", fresh.Len()))
		return nil
	})
}

func (s *Service) Save(ctx context.Context) error {
	return s.observe("save", func() error {
		fields := s.Catalog.ExportSnapshot()
		if err := s.Store.Save(ctx, fields); err != nil {
			return fmt.Errorf("save %s: %w", s.Store.Location(), err)
		}
		s.Log.Info("catalog saved", zap.String("to", s.Store.Location()), zap.Int("items", len(fields)))
		return nil
	})
}

func (s *Service) ExportCSV(path string) error {
	return s.observe("export_csv", func() error {
		fields := s.Catalog.ExportSnapshot()
		if err := ExportCSV(path, fields); err != nil {
			return err
		}
		s.Log.Info("csv exported", zap.String("to", path), zap.Int("items", len(fields)))
		return nil
	})
}

func (s *Service) Add(r Record) error {
	return s.observe("add", func() error {
		return s.Catalog.Add(r)
	})
}

func (s *Service) Remove(id string) (Record, error) {
	var rec Record
	err := s.observe("remove", func() error {
		var err error
		rec, err = s.Catalog.Remove(id)
		return err
	})
	return rec, err
}

func (s *Service) Update(id string, p Patch) (Record, error) {
	var rec Record
	err := s.observe("update", func() error {
		var err error
		rec, err = s.Catalog.Update(id, p)
		return err
	})
	return rec, err
}

func (s *Service) Get(id string) (Record, error) {
	var rec Record
	err := s.observe("get", func() error {
		var err error
		rec, err = s.Catalog.Get(id)
		return err
	})
	return rec, err
}

func (s *Service) FindByName(text string) []Record {
	var out []Record
	_ = s.observe("find", func() error {
		out = s.Catalog.FindByName(text)
		return nil
	})
	return out
}

func (s *Service) ListAll(key string) []Record {
	var out []Record
	_ = s.observe("list", func() error {
		out = s.Catalog.ListAll(key)
		return nil
	})
	return out
}

func (s *Service) Summary() Summary {
	return s.Catalog.Summary()
}

// Flush writes the metrics textfile, if one is configured, with the current
// catalog totals.
func (s *Service) Flush(path string) error {
	if s.Metrics == nil || path == "" {
		return nil
	}
	sum := s.Catalog.Summary()
	units, _ := sum.Units.Float64()
	value, _ := sum.Value.Float64()
	s.Metrics.SetTotals(sum.Items, units, value)
	return s.Metrics.WriteTextfile(path)
}

func (s *Service) observe(op string, fn func() error) error {
	err := s.Metrics.Observe(op, fn)
	if err != nil {
		s.Log.Warn("operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}
