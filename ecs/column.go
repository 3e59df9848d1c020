package ecs

import (
	"iter"
	"math/bits"
)

const pageSize = 64

// page holds pageSize values and a bit per slot marking it occupied.
type page[T any] struct {
	values [pageSize]T
	used   uint64
}

// column stores every component of type T for one archetype. Rows are
// stable while occupied. Freed rows are reused last-freed first, which keeps
// the columns of an archetype aligned on the same row.
type column[T any] struct {
	pages []*page[T]
	free  []int
	next  int
	count int
}

func (c *column[T]) locate(row int) (*page[T], uint64) {
	if row < 0 || row >= c.next {
		return nil, 0
	}
	return c.pages[row/pageSize], 1 << (row % pageSize)
}

func (c *column[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var row int
	if n := len(c.free); n > 0 {
		row = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		row = c.next
		c.next++
		if row/pageSize >= len(c.pages) {
			c.pages = append(c.pages, &page[T]{})
		}
	}

	p, bit := c.locate(row)
	p.values[row%pageSize] = value
	p.used |= bit
	c.count++
	return row
}

func (c *column[T]) Get(row int) any {
	p, bit := c.locate(row)
	if p == nil || p.used&bit == 0 {
		return nil
	}
	return &p.values[row%pageSize]
}

// Delete zeroes the row so the column does not pin what it pointed to.
func (c *column[T]) Delete(row int) {
	p, bit := c.locate(row)
	if p == nil || p.used&bit == 0 {
		return
	}
	var zero T
	p.values[row%pageSize] = zero
	p.used &^= bit
	c.free = append(c.free, row)
	c.count--
}

func (c *column[T]) Has(row int) bool {
	p, bit := c.locate(row)
	return p != nil && p.used&bit != 0
}

func (c *column[T]) Len() int {
	return c.count
}

// Iter yields occupied rows in ascending order.
func (c *column[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, p := range c.pages {
			for used := p.used; used != 0; used &= used - 1 {
				if !yield(i*pageSize + bits.TrailingZeros64(used)) {
					return
				}
			}
		}
	}
}
