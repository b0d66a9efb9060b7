package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
	_ repository.ProductRepository  = (*ProductRepo)(nil)
)

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ s view }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.s.write(func(d *state) error {
		for _, other := range d.categories {
			if strings.EqualFold(other.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		cp := *c
		d.categories[c.ID] = &cp
		d.track(c.ID)
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	r.s.read(func(d *state) {
		if c, ok := d.categories[id]; ok {
			cp := *c
			out = &cp
		}
	})
	return out, nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	var out *entity.Category
	r.s.read(func(d *state) {
		for _, c := range d.categories {
			if strings.EqualFold(c.Name, name) {
				cp := *c
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		for id, other := range d.categories {
			if id != c.ID && strings.EqualFold(other.Name, c.Name) {
				return domain.ErrDuplicate
			}
		}
		cp := *c
		d.categories[c.ID] = &cp
		return nil
	})
}

// List ordena por nombre.
func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	r.s.read(func(d *state) {
		for _, c := range d.categories {
			cp := *c
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete elimina la categoría y deja sin categoría a sus productos.
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *state) error {
		delete(d.categories, id)
		for _, p := range d.products {
			if p.CategoryID != nil && *p.CategoryID == id {
				p.CategoryID = nil
			}
		}
		return nil
	})
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s view }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	return r.s.write(func(d *state) error {
		cp := *sp
		d.suppliers[sp.ID] = &cp
		d.track(sp.ID)
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.s.read(func(d *state) {
		if sp, ok := d.suppliers[id]; ok {
			cp := *sp
			out = &cp
		}
	})
	return out, nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.suppliers[sp.ID]; !ok {
			return domain.ErrNotFound
		}
		cp := *sp
		d.suppliers[sp.ID] = &cp
		return nil
	})
}

// List ordena por nombre.
func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.s.read(func(d *state) {
		for _, sp := range d.suppliers {
			cp := *sp
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *state) error {
		delete(d.suppliers, id)
		return nil
	})
}

// ProductRepo productos en memoria.
type ProductRepo struct{ s view }

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		d.products[p.ID] = cloneProduct(p)
		d.track(p.ID)
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func(d *state) {
		if p, ok := d.products[id]; ok {
			out = cloneProduct(p)
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: las transacciones en memoria ya están serializadas.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(func(d *state) error {
		if _, ok := d.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		d.products[p.ID] = cloneProduct(p)
		return nil
	})
}

// List ordena del más reciente al más antiguo.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	return r.list(func(*entity.Product) bool { return true }), nil
}

func (r *ProductRepo) ListBelowThreshold(_ context.Context) ([]*entity.Product, error) {
	return r.list((*entity.Product).IsBelowThreshold), nil
}

func (r *ProductRepo) list(keep func(*entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	var seq map[string]int64
	r.s.read(func(d *state) {
		seq = make(map[string]int64, len(d.products))
		for id, p := range d.products {
			if keep(p) {
				out = append(out, cloneProduct(p))
				seq[id] = d.order[id]
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return seq[out[i].ID] > seq[out[j].ID]
	})
	return out
}

// Delete elimina el producto junto con su historial y los ítems de orden que lo referencian.
func (r *ProductRepo) Delete(_ context.Context, id string) error {
	return r.s.write(func(d *state) error {
		delete(d.products, id)
		kept := d.history[:0]
		for _, h := range d.history {
			if h.ProductID != id {
				kept = append(kept, h)
			}
		}
		d.history = kept
		for itemID, it := range d.items {
			if it.ProductID == id {
				delete(d.items, itemID)
			}
		}
		return nil
	})
}
