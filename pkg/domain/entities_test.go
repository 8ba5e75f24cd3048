package domain

import "testing"

func TestMaterialTransitionTable(t *testing.T) {
	cases := []struct {
		from, to MaterialStatus
		want     bool
	}{
		{MaterialStatusActive, MaterialStatusInactive, true},
		{MaterialStatusActive, MaterialStatusDeprecated, true},
		{MaterialStatusActive, MaterialStatusPlanned, false},
		{MaterialStatusInactive, MaterialStatusActive, true},
		{MaterialStatusInactive, MaterialStatusDeprecated, true},
		{MaterialStatusPlanned, MaterialStatusActive, true},
		{MaterialStatusPlanned, MaterialStatusInactive, true},
		{MaterialStatusPlanned, MaterialStatusDeprecated, true},
		{MaterialStatusDeprecated, MaterialStatusActive, false},
		{MaterialStatusDeprecated, MaterialStatusPlanned, false},
		{MaterialStatusDeprecated, MaterialStatusInactive, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestRequisitionTransitionTable(t *testing.T) {
	cases := []struct {
		from, to RequisitionStatus
		want     bool
	}{
		{RequisitionStatusDraft, RequisitionStatusSubmitted, true},
		{RequisitionStatusDraft, RequisitionStatusCancelled, true},
		{RequisitionStatusDraft, RequisitionStatusApproved, false},
		{RequisitionStatusSubmitted, RequisitionStatusApproved, true},
		{RequisitionStatusSubmitted, RequisitionStatusRejected, true},
		{RequisitionStatusSubmitted, RequisitionStatusCancelled, true},
		{RequisitionStatusApproved, RequisitionStatusOrdered, true},
		{RequisitionStatusApproved, RequisitionStatusCancelled, false},
		{RequisitionStatusRejected, RequisitionStatusDraft, true},
		{RequisitionStatusOrdered, RequisitionStatusDraft, false},
		{RequisitionStatusCancelled, RequisitionStatusDraft, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestOrderTransitionTable(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusOpen, OrderStatusSent, true},
		{OrderStatusOpen, OrderStatusCancelled, true},
		{OrderStatusOpen, OrderStatusReceived, false},
		{OrderStatusSent, OrderStatusReceived, true},
		{OrderStatusSent, OrderStatusCancelled, true},
		{OrderStatusSent, OrderStatusClosed, false},
		{OrderStatusReceived, OrderStatusClosed, true},
		{OrderStatusReceived, OrderStatusCancelled, false},
		{OrderStatusClosed, OrderStatusOpen, false},
		{OrderStatusCancelled, OrderStatusOpen, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusValidity(t *testing.T) {
	if !MaterialStatusActive.Valid() || MaterialStatus("SHINY").Valid() {
		t.Fatalf("material status validity broken")
	}
	if !RequisitionStatusDraft.Valid() || RequisitionStatus("PENDING").Valid() {
		t.Fatalf("requisition status validity broken")
	}
	if !OrderStatusOpen.Valid() || OrderStatus("SHIPPED").Valid() {
		t.Fatalf("order status validity broken")
	}
}

func TestNumberPrefix(t *testing.T) {
	cases := map[MaterialType]string{
		MaterialTypeRaw:       "RAW",
		MaterialTypeFinished:  "FIN",
		MaterialTypeService:   "SRV",
		MaterialTypeTrading:   "TRD",
		MaterialType("OTHER"): "MAT",
		MaterialType(""):      "MAT",
	}
	for typ, want := range cases {
		if got := typ.NumberPrefix(); got != want {
			t.Fatalf("%q: got %s want %s", typ, got, want)
		}
	}
}
