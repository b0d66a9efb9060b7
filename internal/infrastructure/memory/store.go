// Package memory implementa los puertos de persistencia en memoria.
// Se usa en desarrollo (STORE_DRIVER=memory) y en los tests de casos de uso.
// Cada transacción trabaja sobre una copia privada del estado que reemplaza al estado confirmado
// solo en el Commit; las lecturas externas nunca ven cambios sin confirmar.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/orders"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner   = (*Store)(nil)
	_ orders.OrderTxRunner = (*Store)(nil)
	_ view                 = (*Store)(nil)
	_ view                 = (*txState)(nil)
)

type state struct {
	seq        int64
	order      map[string]int64 // id -> secuencia de inserción (orden estable)
	categories map[string]*entity.Category
	suppliers  map[string]*entity.Supplier
	products   map[string]*entity.Product
	history    []*entity.InventoryHistory
	orders     map[string]*entity.Order // solo cabeceras; Items siempre nil
	items      map[string]*entity.OrderItem
	users      map[string]*entity.User
	tokens     map[string]*entity.UserToken
}

func newState() *state {
	return &state{
		order:      make(map[string]int64),
		categories: make(map[string]*entity.Category),
		suppliers:  make(map[string]*entity.Supplier),
		products:   make(map[string]*entity.Product),
		orders:     make(map[string]*entity.Order),
		items:      make(map[string]*entity.OrderItem),
		users:      make(map[string]*entity.User),
		tokens:     make(map[string]*entity.UserToken),
	}
}

func (s *state) track(id string) {
	s.seq++
	s.order[id] = s.seq
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.order {
		c.order[k] = v
	}
	for k, v := range s.categories {
		cp := *v
		c.categories[k] = &cp
	}
	for k, v := range s.suppliers {
		cp := *v
		c.suppliers[k] = &cp
	}
	for k, v := range s.products {
		c.products[k] = cloneProduct(v)
	}
	c.history = make([]*entity.InventoryHistory, 0, len(s.history))
	for _, h := range s.history {
		c.history = append(c.history, cloneHistory(h))
	}
	for k, v := range s.orders {
		cp := *v
		c.orders[k] = &cp
	}
	for k, v := range s.items {
		cp := *v
		c.items[k] = &cp
	}
	for k, v := range s.users {
		cp := *v
		c.users[k] = &cp
	}
	for k, v := range s.tokens {
		cp := *v
		c.tokens[k] = &cp
	}
	return c
}

// view acceso al estado: el confirmado del Store o la copia de una transacción en curso.
type view interface {
	read(fn func(d *state))
	write(fn func(d *state) error) error
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu   sync.Mutex // protege data
	txMu sync.Mutex // serializa escrituras: transacciones y escrituras sueltas
	data *state
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{data: newState()}
}

// Categories devuelve el repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Suppliers devuelve el repositorio de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// Products devuelve el repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// History devuelve el repositorio del historial de inventario.
func (s *Store) History() *HistoryRepo { return &HistoryRepo{s: s} }

// Orders devuelve el repositorio de órdenes.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }

// Users devuelve el repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Tokens devuelve el repositorio de tokens.
func (s *Store) Tokens() *TokenRepo { return &TokenRepo{s: s} }

// Reports devuelve el repositorio de reportes.
func (s *Store) Reports() *ReportRepo { return &ReportRepo{s: s} }

// Run ejecuta fn en una transacción; si fn falla la copia se descarta y nada queda aplicado.
// Los repositorios que recibe fn solo son válidos dentro de fn.
func (s *Store) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.InventoryHistoryRepository,
) error) error {
	return s.transact(ctx, func(tx *txState) error {
		return fn(&ProductRepo{s: tx}, &HistoryRepo{s: tx})
	})
}

// RunOrder como Run, incluyendo el repositorio de órdenes.
func (s *Store) RunOrder(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	historyRepo repository.InventoryHistoryRepository,
	orderRepo repository.OrderRepository,
) error) error {
	return s.transact(ctx, func(tx *txState) error {
		return fn(&ProductRepo{s: tx}, &HistoryRepo{s: tx}, &OrderRepo{s: tx})
	})
}

func (s *Store) transact(ctx context.Context, fn func(tx *txState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	tx := &txState{data: s.data.clone()}
	s.mu.Unlock()

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = tx.data
	s.mu.Unlock()
	return nil
}

func (s *Store) read(fn func(d *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// write espera a que termine cualquier transacción en curso: el Commit reemplaza el estado completo.
func (s *Store) write(fn func(d *state) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

// txState copia privada de una transacción.
type txState struct {
	mu   sync.Mutex
	data *state
}

func (t *txState) read(fn func(d *state)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.data)
}

func (t *txState) write(fn func(d *state) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(t.data)
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		cp.CategoryID = &id
	}
	return &cp
}

func cloneHistory(h *entity.InventoryHistory) *entity.InventoryHistory {
	cp := *h
	if h.UserID != nil {
		id := *h.UserID
		cp.UserID = &id
	}
	return &cp
}
