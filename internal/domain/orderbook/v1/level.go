package orderbookv1

// PriceLevel is the FIFO queue of orders resting at a single price on a
// single side. Orders are linked intrusively so that unlinking an
// arbitrary order is O(1); the order index stores the order pointer
// itself as the position handle.
type PriceLevel struct {
	Price Price

	head  *Order
	tail  *Order
	count int
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price Price) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Enqueue appends an order at the tail of the queue (time priority).
func (l *PriceLevel) Enqueue(o *Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.RemainingQuantity == 0 {
		return ErrInvalidQuantity
	}

	o.level = l
	if l.head == nil {
		l.head = o
		l.tail = o
	} else {
		l.tail.next = o
		o.prev = l.tail
		l.tail = o
	}
	l.count++
	return nil
}

// PopHead removes and returns the first order in the queue, nil when
// the queue is empty.
func (l *PriceLevel) PopHead() *Order {
	o := l.head
	if o == nil {
		return nil
	}

	l.head = o.next
	if l.head != nil {
		l.head.prev = nil
	} else {
		l.tail = nil
	}

	o.next = nil
	o.prev = nil
	o.level = nil
	l.count--
	return o
}

// Unlink removes an order from anywhere in the queue in O(1) using its
// intrusive links.
func (l *PriceLevel) Unlink(o *Order) error {
	if o == nil {
		return ErrNilOrder
	}
	if o.level != l {
		return ErrOrderNotFound
	}

	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}

	o.next = nil
	o.prev = nil
	o.level = nil
	l.count--
	return nil
}

// Head returns the first order in the queue without removing it.
func (l *PriceLevel) Head() *Order {
	return l.head
}

// IsEmpty reports whether the queue holds no orders.
func (l *PriceLevel) IsEmpty() bool {
	return l.head == nil
}

// OrderCount returns the number of resting orders at this level.
func (l *PriceLevel) OrderCount() int {
	return l.count
}

// TotalQuantity recomputes the aggregate remaining quantity across the
// level's live orders. No running sum is cached; every call walks the
// queue.
func (l *PriceLevel) TotalQuantity() Quantity {
	var total Quantity
	for o := l.head; o != nil; o = o.next {
		total += o.RemainingQuantity
	}
	return total
}
