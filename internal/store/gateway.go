package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/assistravel/casedesk/internal/domain"
	"github.com/assistravel/casedesk/internal/metrics"
)

// Gateway abstracts CRUD and read operations against the store. All
// failures surface synchronously as tagged error values; no retries happen
// at this layer.
//
// ListCases always returns each case with its correspondent and a single
// optional invoice. The store's join may hand back an invoice as either a
// record or a one-element collection depending on how the relation is
// expanded; that ambiguity is resolved here and never leaks to callers.
type Gateway interface {
	ListCases(ctx context.Context) ([]domain.Case, error)
	CreateCase(ctx context.Context, in *domain.CaseInput) (*domain.Case, error)
	UpdateCase(ctx context.Context, id uint, in *domain.CaseInput) (*domain.Case, error)
	DeleteCase(ctx context.Context, id uint) error

	ListCorrespondents(ctx context.Context) ([]domain.Correspondent, error)
	CreateCorrespondent(ctx context.Context, in *domain.CorrespondentInput) (*domain.Correspondent, error)
	UpdateCorrespondent(ctx context.Context, id uint, in *domain.CorrespondentInput) (*domain.Correspondent, error)
	DeleteCorrespondent(ctx context.Context, id uint) error

	// ReadMetricsRaw fetches the decomposed metrics shape: case status rows,
	// invoice facts keyed by case id, and correspondent ids, each in its own
	// query. Used only by the metrics aggregator.
	ReadMetricsRaw(ctx context.Context) (*metrics.Raw, error)
}

// GormGateway implements Gateway over a gorm connection.
type GormGateway struct {
	db *gorm.DB
}

func NewGormGateway(db *gorm.DB) *GormGateway {
	return &GormGateway{db: db}
}

// ListCases returns all cases newest-created-first, each with its embedded
// correspondent and normalized optional invoice.
func (g *GormGateway) ListCases(ctx context.Context) ([]domain.Case, error) {
	var cases []domain.Case
	err := g.db.WithContext(ctx).
		Preload("Correspondent").
		Preload("Invoice").
		Order("created_at DESC").
		Find(&cases).Error
	if err != nil {
		return nil, &StoreError{Op: "list cases", Err: err}
	}
	return cases, nil
}

// CreateCase inserts the case and, when the form carries invoice data, its
// invoice, in one transaction. The returned case embeds both relations.
func (g *GormGateway) CreateCase(ctx context.Context, in *domain.CaseInput) (*domain.Case, error) {
	entity := in.ToCase()
	invoice := in.ToInvoice()

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entity).Error; err != nil {
			return err
		}
		if invoice != nil {
			invoice.CaseID = entity.ID
			if err := tx.Create(invoice).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, &ValidationError{Fields: domain.FieldErrors{
				"nro_caso_assistravel": "el número de caso ya existe",
			}}
		}
		return nil, &StoreError{Op: "create case", Err: err}
	}

	return g.getCase(ctx, entity.ID)
}

// UpdateCase replaces the mutable fields of the case with the given id. The
// case number is immutable post-creation and is never written here.
func (g *GormGateway) UpdateCase(ctx context.Context, id uint, in *domain.CaseInput) (*domain.Case, error) {
	var existing domain.Case
	if err := g.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "case", ID: id}
		}
		return nil, &StoreError{Op: "update case", Err: err}
	}

	entity := in.ToCase()
	invoice := in.ToInvoice()

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"id_corresponsal":       entity.CorrespondentID,
			"nro_caso_corresponsal": entity.PartnerCaseNumber,
			"fecha_inicio_caso":     entity.StartDate,
			"estado_caso_interno":   entity.InternalStatus,
			"estado_del_caso":       entity.BillingStatus,
			"im_informe_medico":     entity.HasMedicalReport,
			"observaciones":         entity.Notes,
		}
		if err := tx.Model(&domain.Case{}).Where("id_caso = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if invoice == nil {
			return nil
		}
		var current domain.Invoice
		err := tx.Where("id_caso = ?", id).First(&current).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			invoice.CaseID = id
			return tx.Create(invoice).Error
		case err != nil:
			return err
		default:
			invoice.ID = current.ID
			invoice.CaseID = id
			invoice.CreatedAt = current.CreatedAt
			return tx.Save(invoice).Error
		}
	})
	if err != nil {
		return nil, &StoreError{Op: "update case", Err: err}
	}

	return g.getCase(ctx, id)
}

// DeleteCase removes the case and its invoice. Deleting an id that is
// already gone is not an error; the operation is idempotent for callers.
func (g *GormGateway) DeleteCase(ctx context.Context, id uint) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id_caso = ?", id).Delete(&domain.Invoice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Case{}, id).Error
	})
	if err != nil {
		return &StoreError{Op: "delete case", Err: err}
	}
	return nil
}

// ListCorrespondents returns all correspondents ordered by display name.
func (g *GormGateway) ListCorrespondents(ctx context.Context) ([]domain.Correspondent, error) {
	var correspondents []domain.Correspondent
	err := g.db.WithContext(ctx).
		Order("nombre_corresponsalia").
		Find(&correspondents).Error
	if err != nil {
		return nil, &StoreError{Op: "list correspondents", Err: err}
	}
	return correspondents, nil
}

func (g *GormGateway) CreateCorrespondent(ctx context.Context, in *domain.CorrespondentInput) (*domain.Correspondent, error) {
	entity := in.ToCorrespondent()
	if err := g.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return nil, &StoreError{Op: "create correspondent", Err: err}
	}
	return &entity, nil
}

func (g *GormGateway) UpdateCorrespondent(ctx context.Context, id uint, in *domain.CorrespondentInput) (*domain.Correspondent, error) {
	var existing domain.Correspondent
	if err := g.db.WithContext(ctx).First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "correspondent", ID: id}
		}
		return nil, &StoreError{Op: "update correspondent", Err: err}
	}

	entity := in.ToCorrespondent()
	entity.ID = id
	entity.CreatedAt = existing.CreatedAt
	if err := g.db.WithContext(ctx).Save(&entity).Error; err != nil {
		return nil, &StoreError{Op: "update correspondent", Err: err}
	}
	return &entity, nil
}

// DeleteCorrespondent removes the correspondent. When existing cases still
// reference it the store's foreign-key constraint rejects the delete, which
// surfaces as a StoreError.
func (g *GormGateway) DeleteCorrespondent(ctx context.Context, id uint) error {
	var referencing int64
	if err := g.db.WithContext(ctx).Model(&domain.Case{}).
		Where("id_corresponsal = ?", id).Count(&referencing).Error; err != nil {
		return &StoreError{Op: "delete correspondent", Err: err}
	}
	if referencing > 0 {
		return &StoreError{Op: "delete correspondent", Err: gorm.ErrForeignKeyViolated}
	}
	if err := g.db.WithContext(ctx).Delete(&domain.Correspondent{}, id).Error; err != nil {
		return &StoreError{Op: "delete correspondent", Err: err}
	}
	return nil
}

// ReadMetricsRaw issues the three independent reads of the decomposed
// metrics strategy. The reads are not a consistent snapshot relative to each
// other; metrics are best-effort eventually-consistent.
func (g *GormGateway) ReadMetricsRaw(ctx context.Context) (*metrics.Raw, error) {
	raw := &metrics.Raw{InvoicesByCase: make(map[uint]metrics.InvoiceFacts)}

	var caseRows []struct {
		ID              uint                  `gorm:"column:id_caso"`
		InternalStatus  domain.InternalStatus `gorm:"column:estado_caso_interno"`
		BillingStatus   domain.BillingStatus  `gorm:"column:estado_del_caso"`
		CorrespondentID uint                  `gorm:"column:id_corresponsal"`
	}
	err := g.db.WithContext(ctx).Model(&domain.Case{}).
		Select("id_caso", "estado_caso_interno", "estado_del_caso", "id_corresponsal").
		Find(&caseRows).Error
	if err != nil {
		return nil, &StoreError{Op: "read metrics cases", Err: err}
	}
	for _, row := range caseRows {
		raw.Cases = append(raw.Cases, metrics.CaseFacts{
			ID:              row.ID,
			InternalStatus:  row.InternalStatus,
			BillingStatus:   row.BillingStatus,
			CorrespondentID: row.CorrespondentID,
		})
	}

	var invoiceRows []struct {
		CaseID     uint     `gorm:"column:id_caso"`
		HasInvoice bool     `gorm:"column:tiene_factura"`
		Fee        *float64 `gorm:"column:fee"`
		CostUSD    *float64 `gorm:"column:costo_usd"`
	}
	err = g.db.WithContext(ctx).Model(&domain.Invoice{}).
		Select("id_caso", "tiene_factura", "fee", "costo_usd").
		Find(&invoiceRows).Error
	if err != nil {
		return nil, &StoreError{Op: "read metrics invoices", Err: err}
	}
	for _, row := range invoiceRows {
		facts := metrics.InvoiceFacts{HasInvoice: row.HasInvoice}
		if row.Fee != nil {
			facts.Fee = *row.Fee
		}
		if row.CostUSD != nil {
			facts.CostUSD = *row.CostUSD
		}
		raw.InvoicesByCase[row.CaseID] = facts
	}

	err = g.db.WithContext(ctx).Model(&domain.Correspondent{}).
		Pluck("id_corresponsal", &raw.CorrespondentIDs).Error
	if err != nil {
		return nil, &StoreError{Op: "read metrics correspondents", Err: err}
	}

	return raw, nil
}

func (g *GormGateway) getCase(ctx context.Context, id uint) (*domain.Case, error) {
	var entity domain.Case
	err := g.db.WithContext(ctx).
		Preload("Correspondent").
		Preload("Invoice").
		First(&entity, id).Error
	if err != nil {
		return nil, &StoreError{Op: "get case", Err: err}
	}
	return &entity, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
