package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// fileRecord is the on-disk shape of one product.
type fileRecord struct {
	ID       looseString `json:"id"`
	Name     looseString `json:"nombre"`
	Quantity json.Number `json:"cantidad"`
	Price    json.Number `json:"precio"`
}

// looseString accepts a JSON string or any scalar, keeping the scalar's
// literal text, so hand-edited files with numeric ids still load.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case len(b) > 0 && (b[0] == '{' || b[0] == '['):
		return &json.UnmarshalTypeError{Value: "object or array", Type: reflect.TypeOf("")}
	default:
		*s = looseString(b)
	}
	return nil
}

// JSONStore keeps the catalog as a JSON array in a single file.
// A missing file is created empty and a file that is not valid JSON loads
// as empty. Valid JSON of the wrong shape is a load error, so it is never
// overwritten by an empty save.
type JSONStore struct {
	path string
	log  *zap.Logger
}

func NewJSONStore(path string, log *zap.Logger) *JSONStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &JSONStore{path: path, log: log}
}

func (s *JSONStore) Location() string { return s.path }

func (s *JSONStore) Ping(ctx context.Context) error {
	return ensureDir(s.path)
}

func (s *JSONStore) Load(ctx context.Context) ([]Fields, error) {
	if err := ensureDir(s.path); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeFileAtomic(s.path, []byte("[]\n")); err != nil {
			return nil, fmt.Errorf("create %s: %w", s.path, err)
		}
		return []Fields{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var recs []fileRecord
	if err := json.Unmarshal(raw, &recs); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || len(bytes.TrimSpace(raw)) == 0 {
			s.log.Warn("malformed catalog file, loading empty", zap.String("path", s.path), zap.Error(err))
			return []Fields{}, nil
		}
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}

	out := make([]Fields, 0, len(recs))
	for _, r := range recs {
		q, err := quantityFromJSON(r.Quantity)
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", r.ID, err)
		}
		p, err := ParsePrice(r.Price.String())
		if err != nil {
			return nil, fmt.Errorf("product %q: %w", r.ID, err)
		}
		out = append(out, Fields{ID: string(r.ID), Name: string(r.Name), Quantity: q, Price: p})
	}
	return out, nil
}

func (s *JSONStore) Save(ctx context.Context, fields []Fields) error {
	if err := ensureDir(s.path); err != nil {
		return err
	}

	recs := make([]fileRecord, 0, len(fields))
	for _, f := range fields {
		recs = append(recs, fileRecord{
			ID:       looseString(f.ID),
			Name:     looseString(f.Name),
			Quantity: json.Number(strconv.FormatInt(f.Quantity, 10)),
			Price:    json.Number(f.Price.String()),
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return err
	}

	if err := writeFileAtomic(s.path, buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// quantityFromJSON accepts integral numbers written with a fraction or
// exponent, such as 5.0, and rejects anything with a real fractional part.
func quantityFromJSON(n json.Number) (int64, error) {
	if q, err := ParseQuantity(n.String()); err == nil {
		return q, nil
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() || !d.Equal(decimal.NewFromInt(d.IntPart())) {
		return 0, invalid("quantity", "must be an integer")
	}
	q := d.IntPart()
	if err := validateQuantity(q); err != nil {
		return 0, err
	}
	return q, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
