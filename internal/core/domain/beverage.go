// Package domain holds the coffee-shop entities: beverages, customers and
// orders. It is pure data and state transitions — persistence, payments and
// notifications live behind the ports package.
package domain

import (
	"fmt"
	"strings"
)

// Size is the cup size of a beverage.
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
)

// Multiplier returns the price factor applied on top of a beverage's base
// price. Unknown sizes price as Medium; ParseSize rejects them at the edge.
func (s Size) Multiplier() float64 {
	switch s {
	case SizeSmall:
		return 0.8
	case SizeLarge:
		return 1.2
	default:
		return 1.0
	}
}

// Valid reports whether s is one of the three known sizes.
func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	}
	return false
}

// Label returns the size formatted for receipts, e.g. "Medium".
func (s Size) Label() string {
	if len(s) == 0 {
		return ""
	}
	return string(s[0]) + strings.ToLower(string(s[1:]))
}

// ParseSize converts external input ("small", "MEDIUM", ...) into a Size.
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToUpper(strings.TrimSpace(s)))
	if !size.Valid() {
		return "", fmt.Errorf("domain: unknown size %q", s)
	}
	return size, nil
}

// Beverage is anything the shop can put on an order. Each implementation
// owns its own pricing rule: base price adjusted by size, plus whatever
// extras the variant supports. New beverages are added by implementing this
// interface; nothing downstream switches over concrete types.
type Beverage interface {
	// Name identifies the beverage on a receipt, e.g. "Green Tea".
	Name() string
	// Description is the long receipt form, e.g. "Medium Coffee (+2 shots)".
	Description() string
	// Size is the cup size the beverage was ordered in.
	Size() Size
	// Price is the final price for this beverage, size and extras included.
	Price() float64
}

// Coffee is an espresso-based drink with optional extra shots.
type Coffee struct {
	size       Size
	extraShots int
}

// NewCoffee builds a coffee in the given size. Negative shot counts are
// clamped to zero.
func NewCoffee(size Size, extraShots int) Coffee {
	if extraShots < 0 {
		extraShots = 0
	}
	return Coffee{size: size, extraShots: extraShots}
}

func (c Coffee) Name() string {
	if c.extraShots == 1 {
		return "Coffee (+1 shot)"
	}
	if c.extraShots > 1 {
		return fmt.Sprintf("Coffee (+%d shots)", c.extraShots)
	}
	return "Coffee"
}

func (c Coffee) Description() string {
	return fmt.Sprintf("%s %s", c.size.Label(), c.Name())
}

func (c Coffee) Size() Size { return c.size }

// Price is the 3.50 base plus 0.75 per extra shot, scaled by size.
func (c Coffee) Price() float64 {
	base := 3.50 + float64(c.extraShots)*0.75
	return base * c.size.Multiplier()
}

// Tea is a brewed tea of a named variety ("Green", "Earl Grey", ...).
type Tea struct {
	size    Size
	variety string
}

// NewTea builds a tea of the given variety. An empty variety falls back to
// plain "Tea" naming.
func NewTea(size Size, variety string) Tea {
	return Tea{size: size, variety: strings.TrimSpace(variety)}
}

func (t Tea) Name() string {
	if t.variety == "" {
		return "Tea"
	}
	return t.variety + " Tea"
}

func (t Tea) Description() string {
	return fmt.Sprintf("%s %s", t.size.Label(), t.Name())
}

func (t Tea) Size() Size { return t.size }

// Price is the flat 2.50 base scaled by size.
func (t Tea) Price() float64 {
	return 2.50 * t.size.Multiplier()
}

// Smoothie is a blended fruit drink. The first fruit is included in the
// base price; every additional fruit costs extra.
type Smoothie struct {
	size   Size
	fruits []string
}

// NewSmoothie builds a smoothie from the given fruits. The fruit list is
// copied so later mutation by the caller cannot change the price.
func NewSmoothie(size Size, fruits []string) Smoothie {
	clean := make([]string, 0, len(fruits))
	for _, f := range fruits {
		if f = strings.TrimSpace(f); f != "" {
			clean = append(clean, f)
		}
	}
	return Smoothie{size: size, fruits: clean}
}

func (s Smoothie) Name() string {
	if len(s.fruits) == 0 {
		return "Smoothie"
	}
	return fmt.Sprintf("Smoothie (%s)", strings.Join(s.fruits, ", "))
}

func (s Smoothie) Description() string {
	return fmt.Sprintf("%s %s", s.size.Label(), s.Name())
}

func (s Smoothie) Size() Size { return s.size }

// Price is the 5.00 base plus 0.50 per fruit beyond the first, scaled by
// size.
func (s Smoothie) Price() float64 {
	extra := 0
	if len(s.fruits) > 1 {
		extra = len(s.fruits) - 1
	}
	base := 5.00 + float64(extra)*0.50
	return base * s.size.Multiplier()
}
