// Package storage selecciona el backend de persistencia (PostgreSQL o memoria) según la configuración.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/application/orders"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger-api/pkg/config"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// TxRunner transacciones de inventario y de órdenes sobre el mismo backend.
type TxRunner interface {
	inventory.TxRunner
	orders.OrderTxRunner
}

// Backend repositorios listos para inyectar en los casos de uso.
type Backend struct {
	Categories repository.CategoryRepository
	Suppliers  repository.SupplierRepository
	Products   repository.ProductRepository
	History    repository.InventoryHistoryRepository
	Orders     repository.OrderRepository
	Users      repository.UserRepository
	Tokens     repository.UserTokenRepository
	Reports    repository.ReportRepository
	Tx         TxRunner

	close func()
}

// Close libera las conexiones del backend.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open abre el backend configurado. Con PostgreSQL aplica las migraciones pendientes si migrate es true.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("usando almacenamiento en memoria; los datos se pierden al reiniciar")
		return FromMemory(memory.NewStore()), nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if migrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			for _, name := range applied {
				log.Info().Str("migration", name).Msg("migración aplicada")
			}
		}
		return &Backend{
			Categories: postgres.NewCategoryRepository(pool),
			Suppliers:  postgres.NewSupplierRepository(pool),
			Products:   postgres.NewProductRepository(pool),
			History:    postgres.NewHistoryRepository(pool),
			Orders:     postgres.NewOrderRepository(pool),
			Users:      postgres.NewUserRepository(pool),
			Tokens:     postgres.NewTokenRepository(pool),
			Reports:    postgres.NewReportRepository(pool),
			Tx:         postgres.NewTxRunner(pool),
			close:      pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.Store.Driver)
	}
}

// FromMemory expone un almacén en memoria como Backend.
func FromMemory(s *memory.Store) *Backend {
	return &Backend{
		Categories: s.Categories(),
		Suppliers:  s.Suppliers(),
		Products:   s.Products(),
		History:    s.History(),
		Orders:     s.Orders(),
		Users:      s.Users(),
		Tokens:     s.Tokens(),
		Reports:    s.Reports(),
		Tx:         s,
	}
}
