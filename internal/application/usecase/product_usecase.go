package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// StockRecorder aplica un delta de stock dentro de una transacción abierta (lo implementa el ledger).
type StockRecorder interface {
	ApplyInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		historyRepo repository.InventoryHistoryRepository,
		product *entity.Product,
		delta int,
		userID string,
		now time.Time,
	) (*entity.InventoryHistory, error)
}

// ProductUseCase casos de uso CRUD para productos. El stock se mueve siempre vía el ledger.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	txRunner     inventory.TxRunner
	ledger       StockRecorder
	hook         inventory.ProductHook
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso. hook puede ser nil.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	txRunner inventory.TxRunner,
	ledger StockRecorder,
	hook inventory.ProductHook,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		txRunner:     txRunner,
		ledger:       ledger,
		hook:         hook,
		now:          time.Now,
	}
}

// Create crea un producto. Si trae stock inicial queda un registro "add" en el historial.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	threshold := entity.DefaultThreshold
	if in.Threshold != nil {
		threshold = *in.Threshold
	}
	now := uc.now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Threshold:     threshold,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	categoryID, err := uc.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	product.CategoryID = categoryID

	initial := product.StockQuantity
	product.StockQuantity = 0
	err = uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.InventoryHistoryRepository) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if initial == 0 {
			return nil
		}
		_, err := uc.ledger.ApplyInTx(ctx, productRepo, historyRepo, product, initial, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.afterChange(ctx, product)
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. Cada actualización deja un registro en el historial con
// delta = stock nuevo - stock anterior ("update" si el stock no cambió).
func (uc *ProductUseCase) Update(ctx context.Context, userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var categoryID *string
	if in.CategoryID != nil && !in.ClearCategory {
		var err error
		if categoryID, err = uc.resolveCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}

	var product *entity.Product
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, historyRepo repository.InventoryHistoryRepository) error {
		p, err := productRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Threshold != nil {
			p.Threshold = *in.Threshold
		}
		switch {
		case in.ClearCategory:
			p.CategoryID = nil
		case categoryID != nil:
			p.CategoryID = categoryID
		}

		target := p.StockQuantity
		if in.StockQuantity != nil {
			target = *in.StockQuantity
		}
		check := *p
		check.StockQuantity = target
		if err := check.Validate(); err != nil {
			return err
		}

		if _, err := uc.ledger.ApplyInTx(ctx, productRepo, historyRepo, p, target-p.StockQuantity, userID, now); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.afterChange(ctx, product)
	return ToProductResponse(product), nil
}

// List lista productos del más reciente al más antiguo.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(list), nil
}

// Delete elimina un producto junto con su historial.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *ProductUseCase) resolveCategory(ctx context.Context, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	cid := c.ID
	return &cid, nil
}

func (uc *ProductUseCase) afterChange(ctx context.Context, p *entity.Product) {
	if uc.hook != nil {
		uc.hook.AfterProductChange(ctx, p)
	}
}

// ToProductResponse convierte un producto a DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		CategoryID:       p.CategoryID,
		Price:            p.Price,
		StockQuantity:    p.StockQuantity,
		Threshold:        p.Threshold,
		IsBelowThreshold: p.IsBelowThreshold(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToProductResponses convierte una lista de productos (nunca nil).
func ToProductResponses(list []*entity.Product) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *ToProductResponse(p))
	}
	return out
}
