package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"retail-customers/internal/domain"
	custrepo "retail-customers/internal/repository/customer"
	custsvc "retail-customers/internal/service/customer"
)

type stubCreator struct {
	items []domain.Customer
	err   error
}

func (s *stubCreator) CreateCustomer(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `Name, Email ,DNI,Age
Ana Ruiz,ana@example.com,12345678A,30
Bruno Gil,,87654321z,18,
Too Young,young@example.com,11111111B,17
Bad Age,bad@example.com,22222222C,twenty
Short Dni,short@example.com,1234A,40
No Age,noage@example.com,33333333D,`

	repo := &stubCreator{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	res, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if res.Imported != 2 || len(repo.items) != 2 {
		t.Fatalf("expected 2 customers imported, got %d (%d saved)", res.Imported, len(repo.items))
	}
	if repo.items[0].Name != "Ana Ruiz" || repo.items[0].Email != "ana@example.com" || *repo.items[0].Age != 30 {
		t.Fatalf("unexpected customer data: %+v", repo.items[0])
	}
	if repo.items[1].Email != "" || repo.items[1].DNI != "87654321z" {
		t.Fatalf("unexpected customer data: %+v", repo.items[1])
	}

	want := []RowError{
		{Line: 4, DNI: "11111111B", Reason: "customer must be an adult (18 years or older)"},
		{Line: 5, DNI: "22222222C", Reason: `age "twenty" is not a whole number`},
		{Line: 6, DNI: "1234A", Reason: "DNI must be exactly 9 characters"},
		{Line: 7, DNI: "33333333D", Reason: "age must not be null"},
	}
	if len(res.Rejected) != len(want) {
		t.Fatalf("expected %d rejected rows, got %+v", len(want), res.Rejected)
	}
	for i := range want {
		if res.Rejected[i] != want[i] {
			t.Fatalf("rejected[%d] = %+v, want %+v", i, res.Rejected[i], want[i])
		}
	}
}

func TestCSVImporter_MissingColumn(t *testing.T) {
	imp := NewCSVImporter(strings.NewReader("name,email,dni\nAna,a@example.com,12345678A\n"), &stubCreator{})

	if _, err := imp.Run(context.Background()); err == nil || !strings.Contains(err.Error(), `missing "age" column`) {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestCSVImporter_StorageErrorStopsRun(t *testing.T) {
	boom := errors.New("connection reset")
	imp := NewCSVImporter(strings.NewReader("dni,age\n12345678A,30\n87654321B,40\n"), &stubCreator{err: boom})

	res, err := imp.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if res.Imported != 0 {
		t.Fatalf("expected nothing imported, got %d", res.Imported)
	}
}

func TestCSVImporter_ThroughService(t *testing.T) {
	svc, err := custsvc.New(custrepo.NewMemory())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	imp := NewCSVImporter(strings.NewReader("dni,age,name\n12345678A,30,Ana\n12345678A,31,Ana again\n"), svc)

	res, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if res.Imported != 2 {
		t.Fatalf("duplicate DNIs are allowed, expected 2 imported, got %d", res.Imported)
	}

	all, err := svc.GetAllCustomers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || *all[0].ID != 1 || *all[1].ID != 2 {
		t.Fatalf("unexpected stored customers: %+v", all)
	}
}
