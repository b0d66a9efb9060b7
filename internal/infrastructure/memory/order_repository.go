package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes en memoria.
type OrderRepo struct{ s view }

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *o
		cp.Items = nil
		d.orders[o.ID] = &cp
		d.track(o.ID)
		return nil
	})
}

func (r *OrderRepo) AddItem(_ context.Context, it *entity.OrderItem) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.orders[it.OrderID]; !ok {
			return domain.ErrNotFound
		}
		cp := *it
		d.items[it.ID] = &cp
		d.track(it.ID)
		return nil
	})
}

func (r *OrderRepo) UpdateItem(_ context.Context, it *entity.OrderItem) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.items[it.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *it
		d.items[it.ID] = &cp
		return nil
	})
}

// Update persiste estado y updated_at; total_amount queda como se creó.
func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.s.write(func(d *state) error {
		cur, ok := d.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = o.Status
		cur.UpdatedAt = o.UpdatedAt
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	r.s.read(func(d *state) {
		if o, ok := d.orders[id]; ok {
			out = withItems(d, o)
		}
	})
	return out, nil
}

// List ordena del más reciente al más antiguo.
func (r *OrderRepo) List(_ context.Context, userID string) ([]*entity.Order, error) {
	var out []*entity.Order
	var seq map[string]int64
	r.s.read(func(d *state) {
		seq = make(map[string]int64, len(d.orders))
		for id, o := range d.orders {
			if userID == "" || o.UserID == userID {
				out = append(out, withItems(d, o))
				seq[id] = d.order[id]
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return seq[out[i].ID] > seq[out[j].ID] })
	return out, nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *state) error {
		delete(d.orders, id)
		for itemID, it := range d.items {
			if it.OrderID == id {
				delete(d.items, itemID)
			}
		}
		return nil
	})
}

func withItems(d *state, o *entity.Order) *entity.Order {
	cp := *o
	cp.Items = nil
	for _, it := range d.items {
		if it.OrderID == o.ID {
			item := *it
			cp.Items = append(cp.Items, &item)
		}
	}
	sort.Slice(cp.Items, func(i, j int) bool { return d.order[cp.Items[i].ID] < d.order[cp.Items[j].ID] })
	return &cp
}
