package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// dateLayout is the wire format for form-submitted dates.
const dateLayout = "2006-01-02"

var validate = validator.New()

// CorrespondentInput carries the submittable fields of a correspondent form.
type CorrespondentInput struct {
	Name        string `json:"nombre_corresponsalia" validate:"required"`
	ContactName string `json:"nombre_contacto"`
	Phone       string `json:"telefono"`
	Email       string `json:"correo" validate:"omitempty,email"`
	Website     string `json:"pagina_web" validate:"omitempty,url"`
	Address     string `json:"direccion"`
}

// CaseInput carries the submittable fields of a case form, invoice section
// included. Invoice fields only matter when HasInvoice is true.
type CaseInput struct {
	CorrespondentID   uint   `json:"id_corresponsal" validate:"required"`
	CaseNumber        string `json:"nro_caso_assistravel" validate:"required"`
	PartnerCaseNumber string `json:"nro_caso_corresponsal"`
	StartDate         string `json:"fecha_inicio_caso" validate:"required"`
	InternalStatus    string `json:"estado_caso_interno" validate:"required"`
	BillingStatus     string `json:"estado_del_caso" validate:"required"`
	HasMedicalReport  bool   `json:"im_informe_medico"`
	Notes             string `json:"observaciones"`

	HasInvoice    bool     `json:"tiene_factura"`
	Fee           *float64 `json:"fee"`
	CostUSD       *float64 `json:"costo_usd"`
	CostLocal     *float64 `json:"costo_moneda_local"`
	IssueDate     string   `json:"fecha_emision"`
	DueDate       string   `json:"fecha_vto"`
	PaidDate      string   `json:"fecha_pago"`
	InvoiceNumber string   `json:"nro_de_factura"`
	Surcharge     *float64 `json:"monto_agregado"`
	InvoiceNotes  string   `json:"observaciones_factura"`
}

// FieldErrors maps a wire field name to a human-readable message. A nil or
// empty map means the input passed validation.
type FieldErrors map[string]string

// Validate checks the correspondent form constraints. Failures never reach
// the gateway.
func (in *CorrespondentInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(in); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "Name":
				errs["nombre_corresponsalia"] = "el nombre es requerido"
			case "Email":
				errs["correo"] = "correo inválido"
			case "Website":
				errs["pagina_web"] = "URL inválida"
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Validate checks the case form constraints, including the two closed status
// enumerations and the date formats.
func (in *CaseInput) Validate() FieldErrors {
	errs := FieldErrors{}
	if err := validate.Struct(in); err != nil {
		for _, fe := range err.(validator.ValidationErrors) {
			switch fe.Field() {
			case "CorrespondentID":
				errs["id_corresponsal"] = "el corresponsal es requerido"
			case "CaseNumber":
				errs["nro_caso_assistravel"] = "el número de caso es requerido"
			case "StartDate":
				errs["fecha_inicio_caso"] = "la fecha de inicio es requerida"
			case "InternalStatus":
				errs["estado_caso_interno"] = "el estado interno es requerido"
			case "BillingStatus":
				errs["estado_del_caso"] = "el estado del caso es requerido"
			}
		}
	}

	if in.InternalStatus != "" && !InternalStatus(in.InternalStatus).Valid() {
		errs["estado_caso_interno"] = "estado interno desconocido"
	}
	if in.BillingStatus != "" && !BillingStatus(in.BillingStatus).Valid() {
		errs["estado_del_caso"] = "estado del caso desconocido"
	}
	if in.StartDate != "" {
		if _, err := time.Parse(dateLayout, in.StartDate); err != nil {
			errs["fecha_inicio_caso"] = "fecha inválida, se espera AAAA-MM-DD"
		}
	}
	for field, value := range map[string]string{
		"fecha_emision": in.IssueDate,
		"fecha_vto":     in.DueDate,
		"fecha_pago":    in.PaidDate,
	} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, value); err != nil {
			errs[field] = "fecha inválida, se espera AAAA-MM-DD"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ToCase converts validated input into a case entity. Call Validate first;
// a malformed start date yields the zero time here.
func (in *CaseInput) ToCase() Case {
	start, _ := time.Parse(dateLayout, in.StartDate)
	return Case{
		CorrespondentID:   in.CorrespondentID,
		CaseNumber:        in.CaseNumber,
		PartnerCaseNumber: in.PartnerCaseNumber,
		StartDate:         start,
		InternalStatus:    InternalStatus(in.InternalStatus),
		BillingStatus:     BillingStatus(in.BillingStatus),
		HasMedicalReport:  in.HasMedicalReport,
		Notes:             in.Notes,
	}
}

// ToInvoice converts the invoice section of the input into an invoice
// entity, or nil when the form carries no invoice data at all.
func (in *CaseInput) ToInvoice() *Invoice {
	if !in.HasInvoice && in.Fee == nil && in.CostUSD == nil && in.CostLocal == nil &&
		in.InvoiceNumber == "" && in.Surcharge == nil && in.InvoiceNotes == "" &&
		in.IssueDate == "" && in.DueDate == "" && in.PaidDate == "" {
		return nil
	}
	inv := &Invoice{
		HasInvoice:    in.HasInvoice,
		Fee:           in.Fee,
		CostUSD:       in.CostUSD,
		CostLocal:     in.CostLocal,
		InvoiceNumber: in.InvoiceNumber,
		Surcharge:     in.Surcharge,
		Notes:         in.InvoiceNotes,
	}
	inv.IssueDate = parseOptionalDate(in.IssueDate)
	inv.DueDate = parseOptionalDate(in.DueDate)
	inv.PaidDate = parseOptionalDate(in.PaidDate)
	return inv
}

// ToCorrespondent converts validated input into a correspondent entity.
func (in *CorrespondentInput) ToCorrespondent() Correspondent {
	return Correspondent{
		Name:        in.Name,
		ContactName: in.ContactName,
		Phone:       in.Phone,
		Email:       in.Email,
		Website:     in.Website,
		Address:     in.Address,
	}
}

func parseOptionalDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
