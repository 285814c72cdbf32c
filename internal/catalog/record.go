package catalog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const priceScale = 2

// Fields is the plain serialized shape of a Record, used by snapshots and
// every Store implementation.
type Fields struct {
	ID       string
	Name     string
	Quantity int64
	Price    decimal.Decimal
}

// Record is one validated inventory line. The zero value is not a valid
// record; build one with NewRecord or FromFields.
type Record struct {
	id       string
	name     string
	quantity int64
	price    decimal.Decimal
}

func NewRecord(id, name string, quantity int64, price decimal.Decimal) (Record, error) {
	id, err := validateID(id)
	if err != nil {
		return Record{}, err
	}
	name, err = validateName(name)
	if err != nil {
		return Record{}, err
	}
	if err := validateQuantity(quantity); err != nil {
		return Record{}, err
	}
	price, err = validatePrice(price)
	if err != nil {
		return Record{}, err
	}
	return Record{id: id, name: name, quantity: quantity, price: price}, nil
}

// FromFields rebuilds a Record from its serialized shape.
func FromFields(f Fields) (Record, error) {
	return NewRecord(f.ID, f.Name, f.Quantity, f.Price)
}

func (r Record) ID() string             { return r.id }
func (r Record) Name() string           { return r.name }
func (r Record) Quantity() int64        { return r.quantity }
func (r Record) Price() decimal.Decimal { return r.price }

func (r Record) Fields() Fields {
	return Fields{ID: r.id, Name: r.name, Quantity: r.quantity, Price: r.price}
}

// TotalValue is quantity * price rounded to two fractional digits.
func (r Record) TotalValue() decimal.Decimal {
	return r.price.Mul(decimal.NewFromInt(r.quantity)).Round(priceScale)
}

// NormalizedName is the index key for the record.
func (r Record) NormalizedName() string {
	return normalize(r.name)
}

func (r Record) Equal(o Record) bool {
	return r.id == o.id && r.name == o.name && r.quantity == o.quantity && r.price.Equal(o.price)
}

func (r *Record) SetName(v string) error {
	name, err := validateName(v)
	if err != nil {
		return err
	}
	r.name = name
	return nil
}

func (r *Record) SetQuantity(v int64) error {
	if err := validateQuantity(v); err != nil {
		return err
	}
	r.quantity = v
	return nil
}

func (r *Record) SetPrice(v decimal.Decimal) error {
	price, err := validatePrice(v)
	if err != nil {
		return err
	}
	r.price = price
	return nil
}

// ParseQuantity parses user or file input into a quantity.
func ParseQuantity(s string) (int64, error) {
	q, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, invalid("quantity", "must be an integer")
	}
	if err := validateQuantity(q); err != nil {
		return 0, err
	}
	return q, nil
}

// ParsePrice parses user or file input into a price rounded to cents.
func ParsePrice(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, invalid("price", "must be numeric")
	}
	return validatePrice(p)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validateID(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("id", "must not be empty")
	}
	return v, nil
}

func validateName(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid("name", "must not be empty")
	}
	return v, nil
}

func validateQuantity(v int64) error {
	if v < 0 {
		return invalid("quantity", "must not be negative")
	}
	return nil
}

func validatePrice(v decimal.Decimal) (decimal.Decimal, error) {
	if v.IsNegative() {
		return decimal.Decimal{}, invalid("price", "must not be negative")
	}
	return v.Round(priceScale), nil
}
