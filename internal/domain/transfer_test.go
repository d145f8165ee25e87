package domain

import "testing"

func TestClassifyTransfer(t *testing.T) {
	source := &Asset{ID: "src", Quantity: 8}
	dest := &Asset{ID: "dst", Quantity: 2}

	tests := []struct {
		name        string
		destination *Asset
		source      *Asset
		quantity    int64
		want        TransferCase
	}{
		{"nothing anywhere", nil, nil, 5, TransferCaseNone},
		{"source only, partial", nil, source, 5, TransferCaseSplit},
		{"source only, exact", nil, source, 8, TransferCaseRelocate},
		{"source only, more than held", nil, source, 9, TransferCaseRelocate},
		{"both, partial", dest, source, 5, TransferCasePartialMerge},
		{"both, exact", dest, source, 8, TransferCaseMerge},
		{"destination only", dest, nil, 5, TransferCaseOrphanDestination},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTransfer(tt.destination, tt.source, tt.quantity)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
