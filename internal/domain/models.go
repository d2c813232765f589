package domain

import (
	"time"
)

// InternalStatus is the operational lifecycle of a case.
type InternalStatus string

const (
	StatusActivo    InternalStatus = "Activo"
	StatusCerrado   InternalStatus = "Cerrado"
	StatusCancelado InternalStatus = "Cancelado"
	StatusPausado   InternalStatus = "Pausado"
)

// Valid reports whether the value belongs to the closed status set.
func (s InternalStatus) Valid() bool {
	switch s {
	case StatusActivo, StatusCerrado, StatusCancelado, StatusPausado:
		return true
	}
	return false
}

// BillingStatus is the billing-readiness lifecycle of a case.
type BillingStatus string

const (
	BillingOnGoing     BillingStatus = "On going"
	BillingNoFee       BillingStatus = "No FEE"
	BillingRefacturar  BillingStatus = "Para Refacturar"
	BillingRefacturado BillingStatus = "Refacturado"
)

// Valid reports whether the value belongs to the closed status set.
func (s BillingStatus) Valid() bool {
	switch s {
	case BillingOnGoing, BillingNoFee, BillingRefacturar, BillingRefacturado:
		return true
	}
	return false
}

// Correspondent is a partner organization that services cases.
type Correspondent struct {
	ID          uint      `json:"id_corresponsal" gorm:"column:id_corresponsal;primaryKey"`
	Name        string    `json:"nombre_corresponsalia" gorm:"column:nombre_corresponsalia;not null"`
	ContactName string    `json:"nombre_contacto,omitempty" gorm:"column:nombre_contacto"`
	Phone       string    `json:"telefono,omitempty" gorm:"column:telefono"`
	Email       string    `json:"correo,omitempty" gorm:"column:correo"`
	Website     string    `json:"pagina_web,omitempty" gorm:"column:pagina_web"`
	Address     string    `json:"direccion,omitempty" gorm:"column:direccion"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// Case is a tracked assistance incident linked to one correspondent.
// The gateway always resolves the invoice join to a single optional record.
type Case struct {
	ID                uint           `json:"id_caso" gorm:"column:id_caso;primaryKey"`
	CorrespondentID   uint           `json:"id_corresponsal" gorm:"column:id_corresponsal;not null"`
	CaseNumber        string         `json:"nro_caso_assistravel" gorm:"column:nro_caso_assistravel;uniqueIndex;not null"`
	PartnerCaseNumber string         `json:"nro_caso_corresponsal,omitempty" gorm:"column:nro_caso_corresponsal"`
	StartDate         time.Time      `json:"fecha_inicio_caso" gorm:"column:fecha_inicio_caso"`
	InternalStatus    InternalStatus `json:"estado_caso_interno" gorm:"column:estado_caso_interno"`
	BillingStatus     BillingStatus  `json:"estado_del_caso" gorm:"column:estado_del_caso"`
	HasMedicalReport  bool           `json:"im_informe_medico" gorm:"column:im_informe_medico"`
	Notes             string         `json:"observaciones,omitempty" gorm:"column:observaciones"`
	CreatedAt         time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt         time.Time      `json:"updated_at" gorm:"column:updated_at"`

	Correspondent *Correspondent `json:"corresponsal,omitempty" gorm:"foreignKey:CorrespondentID;references:ID"`
	Invoice       *Invoice       `json:"factura,omitempty" gorm:"foreignKey:CaseID;references:ID"`
}

// Invoice is the optional billing record attached 1:1 to a case.
// When HasInvoice is false the monetary and date fields are treated as
// absent for aggregation regardless of what is stored.
type Invoice struct {
	ID            uint       `json:"id_factura" gorm:"column:id_factura;primaryKey"`
	CaseID        uint       `json:"id_caso" gorm:"column:id_caso;uniqueIndex;not null"`
	HasInvoice    bool       `json:"tiene_factura" gorm:"column:tiene_factura"`
	Fee           *float64   `json:"fee,omitempty" gorm:"column:fee"`
	CostUSD       *float64   `json:"costo_usd,omitempty" gorm:"column:costo_usd"`
	CostLocal     *float64   `json:"costo_moneda_local,omitempty" gorm:"column:costo_moneda_local"`
	IssueDate     *time.Time `json:"fecha_emision,omitempty" gorm:"column:fecha_emision"`
	DueDate       *time.Time `json:"fecha_vto,omitempty" gorm:"column:fecha_vto"`
	PaidDate      *time.Time `json:"fecha_pago,omitempty" gorm:"column:fecha_pago"`
	InvoiceNumber string     `json:"nro_de_factura,omitempty" gorm:"column:nro_de_factura"`
	Surcharge     *float64   `json:"monto_agregado,omitempty" gorm:"column:monto_agregado"`
	Notes         string     `json:"observaciones_factura,omitempty" gorm:"column:observaciones_factura"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (Correspondent) TableName() string {
	return "Corresponsal"
}

func (Case) TableName() string {
	return "Caso"
}

func (Invoice) TableName() string {
	return "Factura"
}

// EffectiveFee returns the invoice fee for aggregation, or 0 when the case
// has no invoice record or no fee.
func (c *Case) EffectiveFee() float64 {
	if c.Invoice == nil || c.Invoice.Fee == nil {
		return 0
	}
	return *c.Invoice.Fee
}

// EffectiveCostUSD returns the invoice USD cost for aggregation, or 0 when
// the case has no invoice record or no cost.
func (c *Case) EffectiveCostUSD() float64 {
	if c.Invoice == nil || c.Invoice.CostUSD == nil {
		return 0
	}
	return *c.Invoice.CostUSD
}
