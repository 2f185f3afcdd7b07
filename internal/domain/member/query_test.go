package member

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"yatra-app-go/internal/domain/access"
)

func seedRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := newTestRegistry(t, newFakeMemberRepo())
	ctx := context.Background()

	drafts := []Draft{
		{Name: "Ravi Kumar", MobileNumber: "9876543210", BagNumber: "B-1", BusNumber: "10", Amount: 2500},
		{Name: "Suresh", MobileNumber: "9876500000", BagNumber: "b-22", BusNumber: "2", PaymentStatus: PaymentPaid, PaymentMethod: MethodCash, PaymentReceiver: "Owner Desk", Amount: 3000},
		{Name: "Anil", MobileNumber: "9876511111", BagNumber: "C-3", BusNumber: "2", PaymentStatus: PaymentPaid, PaymentMethod: MethodGPay, PaymentReceiver: "Guru", Amount: 2000},
		{Name: "Latha", MobileNumber: "9876522222", BagNumber: "C-4", BusNumber: "Van", Amount: 2500},
	}
	for _, d := range drafts {
		if _, err := reg.Add(ctx, d); err != nil {
			t.Fatalf("seed %s: %v", d.Name, err)
		}
	}
	return reg
}

func TestSearch(t *testing.T) {
	reg := seedRegistry(t)

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{}, want: []string{"Anil", "Latha", "Ravi Kumar", "Suresh"}},
		{name: "name substring any case", filter: Filter{Query: "RAVI"}, want: []string{"Ravi Kumar"}},
		{name: "mobile substring", filter: Filter{Query: "0000"}, want: []string{"Suresh"}},
		{name: "bag any case", filter: Filter{Query: "B-2"}, want: []string{"Suresh"}},
		{name: "status", filter: Filter{PaymentStatus: PaymentPaid}, want: []string{"Anil", "Suresh"}},
		{name: "bus exact", filter: Filter{BusNumber: "2"}, want: []string{"Anil", "Suresh"}},
		{name: "bus is not substring", filter: Filter{BusNumber: "1"}, want: nil},
		{name: "combined", filter: Filter{Query: "a", PaymentStatus: PaymentUnpaid}, want: []string{"Latha", "Ravi Kumar"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := names(reg.Search(tc.filter))
			if strings.Join(got, ",") != strings.Join(tc.want, ",") {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}

	if reg.Len() != 4 {
		t.Fatalf("search must not mutate, len=%d", reg.Len())
	}
}

func TestStats(t *testing.T) {
	reg := seedRegistry(t)

	stats := reg.Stats()
	want := Stats{TotalMembers: 4, TotalBuses: 3, Paid: 2, Unpaid: 2, PaidPercent: 50, Collected: 5000}
	if stats != want {
		t.Fatalf("got %+v, want %+v", stats, want)
	}

	empty := newTestRegistry(t, newFakeMemberRepo()).Stats()
	if empty != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestBusManifestsOrder(t *testing.T) {
	reg := seedRegistry(t)

	manifests := reg.BusManifests()
	var buses []string
	for _, m := range manifests {
		buses = append(buses, m.BusNumber)
	}
	if strings.Join(buses, ",") != "2,10,Van" {
		t.Fatalf("unexpected bus order %v", buses)
	}
	if len(manifests[0].Members) != 2 {
		t.Fatalf("expected two members on bus 2, got %d", len(manifests[0].Members))
	}
	if strings.Join(reg.BusNumbers(), ",") != "2,10,Van" {
		t.Fatalf("unexpected bus numbers %v", reg.BusNumbers())
	}
}

func TestFindByMobile(t *testing.T) {
	reg := seedRegistry(t)

	if got := names(reg.FindByMobile(" 9876511111 ")); len(got) != 1 || got[0] != "Anil" {
		t.Fatalf("unexpected match %v", got)
	}
	if got := reg.FindByMobile("0000000000"); len(got) != 0 {
		t.Fatalf("expected no match, got %v", got)
	}
}

func TestExportRowsRedactsOwnerReceiversForAdmin(t *testing.T) {
	reg := seedRegistry(t)
	records := reg.Search(Filter{PaymentStatus: PaymentPaid})

	ownerRows := ExportRows(records, access.RoleOwner)
	if ownerRows[1].ReceivedBy != "Owner Desk" {
		t.Fatalf("owner should see owner receivers, got %q", ownerRows[1].ReceivedBy)
	}

	adminRows := ExportRows(records, access.RoleAdmin)
	if adminRows[1].ReceivedBy != RedactedReceiver {
		t.Fatalf("admin export must redact owner receiver, got %q", adminRows[1].ReceivedBy)
	}
	if adminRows[0].ReceivedBy != "Guru" {
		t.Fatalf("other receivers stay visible, got %q", adminRows[0].ReceivedBy)
	}

	values := adminRows[1].Values()
	if len(values) != len(ExportColumns) {
		t.Fatalf("expected %d values, got %d", len(ExportColumns), len(values))
	}
	if values[7] != "3000" {
		t.Fatalf("expected amount column, got %q", values[7])
	}
}

func TestWriteExportCSV(t *testing.T) {
	reg := seedRegistry(t)

	var buf bytes.Buffer
	if err := WriteExport(&buf, FormatCSV, ExportRows(reg.All(), access.RoleOwner)); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header plus 4 rows, got %d", len(lines))
	}
	if lines[0] != "Name,Mobile,Bag Number,Bus Number,Payment Status,Payment Method,Received By,Amount,Referral" {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestWriteExportXLSXReimports(t *testing.T) {
	reg := seedRegistry(t)

	var buf bytes.Buffer
	if err := WriteExport(&buf, FormatXLSX, ExportRows(reg.All(), access.RoleOwner)); err != nil {
		t.Fatalf("write: %v", err)
	}

	rows, err := ParseSpreadsheet("members.xlsx", &buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	fresh := newTestRegistry(t, newFakeMemberRepo())
	result := fresh.ImportRows(context.Background(), rows)
	if result.Added != 4 || result.Errors != 0 {
		t.Fatalf("expected exported workbook to import cleanly, got %+v", result)
	}
	if fresh.Stats() != reg.Stats() {
		t.Fatalf("stats differ after reimport: %+v vs %+v", fresh.Stats(), reg.Stats())
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(""); err != nil || f != FormatCSV {
		t.Fatalf("expected csv default, got %q %v", f, err)
	}
	if f, err := ParseFormat("XLSX"); err != nil || f != FormatXLSX {
		t.Fatalf("expected xlsx, got %q %v", f, err)
	}
	if _, err := ParseFormat("pdf"); err != ErrUnsupportedFormat {
		t.Fatalf("expected unsupported, got %v", err)
	}
	if got := ExportFilename(FormatXLSX, "2026-01-03"); got != "sabarimala-yatra-members-2026-01-03.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func names(members []Member) []string {
	var result []string
	for _, m := range members {
		result = append(result, m.Name)
	}
	return result
}
