package models

import (
	"reflect"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestPackages_OptionalTiersOnlyWhenPriced(t *testing.T) {
	g := Gig{BasicPrice: 50, BasicDeliveryDays: 3, BasicRevisions: 1}

	if got := g.Packages(); len(got) != 1 || got[0].PackageType != "basic" {
		t.Fatalf("basic only: got %+v", got)
	}

	g.PremiumPrice = floatPtr(200)
	g.PremiumDeliveryDays = intPtr(7)
	got := g.Packages()
	if len(got) != 2 {
		t.Fatalf("expected basic+premium, got %d packages", len(got))
	}
	if got[1].PackageType != "premium" || got[1].Price != 200 || got[1].DeliveryDays != 7 {
		t.Errorf("premium tier = %+v", got[1])
	}

	g.StandardPrice = floatPtr(100)
	var types []string
	for _, p := range g.Packages() {
		types = append(types, p.PackageType)
	}
	if !reflect.DeepEqual(types, []string{"basic", "standard", "premium"}) {
		t.Errorf("tier order = %v", types)
	}
}

func TestOutboxEvent_RoutingKey(t *testing.T) {
	e := OutboxEvent{EntityType: EntityGig, Op: OpUpdated}
	if got := e.RoutingKey(); got != "gig.updated" {
		t.Errorf("RoutingKey = %q", got)
	}
}

func TestFindColumnMismatches(t *testing.T) {
	got := findColumnMismatches([]string{"id", "title", "legacy_rank", "Archived"}, []string{"id", "title"})
	want := []string{"Archived", "legacy_rank"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mismatches = %v, want %v", got, want)
	}
}

func TestIsTerminalProjectStatus(t *testing.T) {
	for _, status := range ProjectStatuses {
		want := status == ProjectStatusCompleted || status == ProjectStatusCancelled || status == ProjectStatusClosed
		if got := IsTerminalProjectStatus(status); got != want {
			t.Errorf("IsTerminalProjectStatus(%q) = %v", status, got)
		}
	}
}
