package domain

import (
	"testing"
	"time"
)

func TestCorrespondentInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     CorrespondentInput
		wantField string
	}{
		{
			name:  "valid minimal",
			input: CorrespondentInput{Name: "Acme Assist"},
		},
		{
			name:      "missing name",
			input:     CorrespondentInput{Phone: "+54 11 5555-0000"},
			wantField: "nombre_corresponsalia",
		},
		{
			name:      "bad email",
			input:     CorrespondentInput{Name: "Acme", Email: "not-an-email"},
			wantField: "correo",
		},
		{
			name:      "bad website",
			input:     CorrespondentInput{Name: "Acme", Website: "::nope"},
			wantField: "pagina_web",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.input.Validate()
			if tt.wantField == "" {
				if errs != nil {
					t.Fatalf("expected no errors, got %v", errs)
				}
				return
			}
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected a message for %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestCaseInputValidate(t *testing.T) {
	valid := CaseInput{
		CorrespondentID: 1,
		CaseNumber:      "AT-1001",
		StartDate:       "2026-08-01",
		InternalStatus:  "Activo",
		BillingStatus:   "On going",
	}

	if errs := valid.Validate(); errs != nil {
		t.Fatalf("valid input rejected: %v", errs)
	}

	tests := []struct {
		name      string
		mutate    func(in *CaseInput)
		wantField string
	}{
		{"missing correspondent", func(in *CaseInput) { in.CorrespondentID = 0 }, "id_corresponsal"},
		{"missing case number", func(in *CaseInput) { in.CaseNumber = "" }, "nro_caso_assistravel"},
		{"missing start date", func(in *CaseInput) { in.StartDate = "" }, "fecha_inicio_caso"},
		{"malformed start date", func(in *CaseInput) { in.StartDate = "01/08/2026" }, "fecha_inicio_caso"},
		{"unknown internal status", func(in *CaseInput) { in.InternalStatus = "Abierto" }, "estado_caso_interno"},
		{"unknown billing status", func(in *CaseInput) { in.BillingStatus = "Facturado" }, "estado_del_caso"},
		{"malformed issue date", func(in *CaseInput) { in.IssueDate = "ayer" }, "fecha_emision"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			errs := in.Validate()
			if _, ok := errs[tt.wantField]; !ok {
				t.Fatalf("expected a message for %q, got %v", tt.wantField, errs)
			}
		})
	}
}

func TestCaseInputToEntities(t *testing.T) {
	fee := 150.0
	in := CaseInput{
		CorrespondentID: 2,
		CaseNumber:      "AT-1002",
		StartDate:       "2026-05-20",
		InternalStatus:  "Pausado",
		BillingStatus:   "No FEE",
		HasInvoice:      true,
		Fee:             &fee,
		IssueDate:       "2026-06-01",
	}

	c := in.ToCase()
	if c.InternalStatus != StatusPausado || c.BillingStatus != BillingNoFee {
		t.Errorf("statuses not mapped: %+v", c)
	}
	if c.StartDate != time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start date = %v", c.StartDate)
	}

	inv := in.ToInvoice()
	if inv == nil {
		t.Fatal("expected an invoice")
	}
	if inv.Fee == nil || *inv.Fee != 150 {
		t.Errorf("fee not carried: %+v", inv)
	}
	if inv.IssueDate == nil {
		t.Error("issue date not parsed")
	}
}

func TestCaseInputToInvoiceEmpty(t *testing.T) {
	in := CaseInput{
		CorrespondentID: 1,
		CaseNumber:      "AT-1003",
		StartDate:       "2026-08-01",
		InternalStatus:  "Activo",
		BillingStatus:   "On going",
	}

	if inv := in.ToInvoice(); inv != nil {
		t.Errorf("empty invoice section should yield nil, got %+v", inv)
	}
}

func TestStatusEnums(t *testing.T) {
	for _, s := range []InternalStatus{StatusActivo, StatusCerrado, StatusCancelado, StatusPausado} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if InternalStatus("Abierto").Valid() {
		t.Error("unknown internal status accepted")
	}

	for _, s := range []BillingStatus{BillingOnGoing, BillingNoFee, BillingRefacturar, BillingRefacturado} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if BillingStatus("Cobrado").Valid() {
		t.Error("unknown billing status accepted")
	}
}

func TestEffectiveAmounts(t *testing.T) {
	fee := 80.0
	cost := 40.0

	withInvoice := Case{Invoice: &Invoice{HasInvoice: true, Fee: &fee, CostUSD: &cost}}
	if withInvoice.EffectiveFee() != 80 || withInvoice.EffectiveCostUSD() != 40 {
		t.Error("amounts not read from the invoice")
	}

	var none Case
	if none.EffectiveFee() != 0 || none.EffectiveCostUSD() != 0 {
		t.Error("missing invoice must contribute zero")
	}

	empty := Case{Invoice: &Invoice{HasInvoice: true}}
	if empty.EffectiveFee() != 0 || empty.EffectiveCostUSD() != 0 {
		t.Error("nil amounts must contribute zero")
	}
}
