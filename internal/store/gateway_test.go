package store

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/assistravel/casedesk/internal/domain"
)

func setupGateway(t *testing.T) *GormGateway {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return NewGormGateway(db)
}

func createCorrespondent(t *testing.T, g *GormGateway, name string) *domain.Correspondent {
	t.Helper()

	created, err := g.CreateCorrespondent(context.Background(), &domain.CorrespondentInput{Name: name})
	if err != nil {
		t.Fatalf("CreateCorrespondent: %v", err)
	}
	return created
}

func caseInput(correspondentID uint, number string) *domain.CaseInput {
	return &domain.CaseInput{
		CorrespondentID: correspondentID,
		CaseNumber:      number,
		StartDate:       "2026-08-01",
		InternalStatus:  "Activo",
		BillingStatus:   "On going",
	}
}

func fptr(v float64) *float64 { return &v }

func TestCreateCaseEmbedsRelations(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")

	in := caseInput(corr.ID, "AT-1001")
	in.HasInvoice = true
	in.Fee = fptr(100)
	in.CostUSD = fptr(50)

	created, err := g.CreateCase(ctx, in)
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a server-assigned id")
	}
	if created.Correspondent == nil || created.Correspondent.Name != "Acme Assist" {
		t.Error("created case should embed its correspondent")
	}
	if created.Invoice == nil || !created.Invoice.HasInvoice {
		t.Fatal("created case should embed its invoice")
	}
	if created.Invoice.Fee == nil || *created.Invoice.Fee != 100 {
		t.Error("invoice fee not persisted")
	}
}

func TestListCasesNewestFirst(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")
	first, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001"))
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	second, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1002"))
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	cases, err := g.ListCases(ctx)
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(cases))
	}
	if cases[0].ID != second.ID || cases[1].ID != first.ID {
		t.Errorf("cases not newest-first: got [%d, %d]", cases[0].ID, cases[1].ID)
	}
}

func TestDeleteCaseThenList(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")
	created, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001"))
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	if err := g.DeleteCase(ctx, created.ID); err != nil {
		t.Fatalf("DeleteCase: %v", err)
	}

	cases, err := g.ListCases(ctx)
	if err != nil {
		t.Fatalf("ListCases: %v", err)
	}
	for _, c := range cases {
		if c.ID == created.ID {
			t.Errorf("case %d still present after delete", created.ID)
		}
	}
}

func TestDeleteCaseIdempotent(t *testing.T) {
	g := setupGateway(t)

	if err := g.DeleteCase(context.Background(), 9999); err != nil {
		t.Errorf("deleting an absent id should not error, got %v", err)
	}
}

func TestCreateCaseDuplicateNumber(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")
	if _, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001")); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	_, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001"))
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, ok := validationErr.Fields["nro_caso_assistravel"]; !ok {
		t.Error("expected a field message for the case number")
	}
}

func TestUpdateCaseNotFound(t *testing.T) {
	g := setupGateway(t)

	_, err := g.UpdateCase(context.Background(), 9999, caseInput(1, "AT-9999"))
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateCaseKeepsCaseNumber(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")
	created, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001"))
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	in := caseInput(corr.ID, "AT-CHANGED")
	in.InternalStatus = "Cerrado"
	updated, err := g.UpdateCase(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}

	if updated.CaseNumber != "AT-1001" {
		t.Errorf("case number mutated to %q; it is immutable post-creation", updated.CaseNumber)
	}
	if updated.InternalStatus != domain.StatusCerrado {
		t.Errorf("status not updated: %q", updated.InternalStatus)
	}
}

func TestUpdateCaseUpsertsInvoice(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")
	created, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001"))
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if created.Invoice != nil {
		t.Fatal("case should start without an invoice")
	}

	in := caseInput(corr.ID, "AT-1001")
	in.HasInvoice = true
	in.Fee = fptr(250)
	updated, err := g.UpdateCase(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}
	if updated.Invoice == nil || updated.Invoice.Fee == nil || *updated.Invoice.Fee != 250 {
		t.Fatal("invoice not created on update")
	}

	in.Fee = fptr(300)
	updated, err = g.UpdateCase(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("UpdateCase: %v", err)
	}
	if updated.Invoice == nil || *updated.Invoice.Fee != 300 {
		t.Fatal("invoice not updated in place")
	}
}

func TestDeleteCorrespondentWithCases(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corr := createCorrespondent(t, g, "Acme Assist")
	if _, err := g.CreateCase(ctx, caseInput(corr.ID, "AT-1001")); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	err := g.DeleteCorrespondent(ctx, corr.ID)
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError for a referenced correspondent, got %v", err)
	}

	// Without references the delete goes through.
	other := createCorrespondent(t, g, "Solo Assist")
	if err := g.DeleteCorrespondent(ctx, other.ID); err != nil {
		t.Fatalf("DeleteCorrespondent: %v", err)
	}
}

func TestCorrespondentCreateUpdateList(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	created, err := g.CreateCorrespondent(ctx, &domain.CorrespondentInput{
		Name:  "Zeta Assist",
		Email: "ops@zeta.example",
	})
	if err != nil {
		t.Fatalf("CreateCorrespondent: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a server-assigned id")
	}

	createCorrespondent(t, g, "Acme Assist")

	list, err := g.ListCorrespondents(ctx)
	if err != nil {
		t.Fatalf("ListCorrespondents: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Acme Assist" {
		t.Errorf("list should be ordered by name, got %+v", list)
	}

	updated, err := g.UpdateCorrespondent(ctx, created.ID, &domain.CorrespondentInput{Name: "Zeta Global"})
	if err != nil {
		t.Fatalf("UpdateCorrespondent: %v", err)
	}
	if updated.Name != "Zeta Global" {
		t.Errorf("name not updated: %q", updated.Name)
	}

	_, err = g.UpdateCorrespondent(ctx, 9999, &domain.CorrespondentInput{Name: "Ghost"})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestReadMetricsRaw(t *testing.T) {
	g := setupGateway(t)
	ctx := context.Background()

	corrA := createCorrespondent(t, g, "Acme Assist")
	corrB := createCorrespondent(t, g, "Beta Assist")

	active := caseInput(corrA.ID, "AT-1001")
	active.HasInvoice = false
	active.Fee = fptr(100)
	if _, err := g.CreateCase(ctx, active); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	closed := caseInput(corrB.ID, "AT-1002")
	closed.InternalStatus = "Cerrado"
	closed.BillingStatus = "Para Refacturar"
	closed.HasInvoice = true
	closed.CostUSD = fptr(75)
	if _, err := g.CreateCase(ctx, closed); err != nil {
		t.Fatalf("CreateCase: %v", err)
	}

	raw, err := g.ReadMetricsRaw(ctx)
	if err != nil {
		t.Fatalf("ReadMetricsRaw: %v", err)
	}

	if len(raw.Cases) != 2 {
		t.Errorf("expected 2 case rows, got %d", len(raw.Cases))
	}
	if len(raw.InvoicesByCase) != 2 {
		t.Errorf("expected 2 invoice facts, got %d", len(raw.InvoicesByCase))
	}
	if len(raw.CorrespondentIDs) != 2 {
		t.Errorf("expected 2 correspondent ids, got %d", len(raw.CorrespondentIDs))
	}
}
