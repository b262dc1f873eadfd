package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.Valid(), "status %s", s)
	}
	assert.False(t, OrderStatus("Bogus").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrderStatusPlaced(t *testing.T) {
	assert.False(t, StatusDraft.Placed())
	assert.False(t, StatusPending.Placed())
	for _, s := range []OrderStatus{StatusAssigned, StatusConfirmed, StatusAllocated, StatusError} {
		assert.True(t, s.Placed(), "status %s", s)
	}
}

func TestOrderValidate(t *testing.T) {
	cases := []struct {
		name    string
		order   Order
		wantErr bool
	}{
		{
			name:  "pending without placement",
			order: Order{ID: "o1", Status: StatusPending},
		},
		{
			name:  "assigned with placement",
			order: Order{ID: "o1", Status: StatusAssigned, TruckID: "t1", DeliveryDate: "2025-11-24"},
		},
		{
			name:    "assigned missing date",
			order:   Order{ID: "o1", Status: StatusAssigned, TruckID: "t1"},
			wantErr: true,
		},
		{
			name:    "pending carrying truck",
			order:   Order{ID: "o1", Status: StatusPending, TruckID: "t1"},
			wantErr: true,
		},
		{
			name:    "unknown status",
			order:   Order{ID: "o1", Status: "Bogus"},
			wantErr: true,
		},
		{
			name:    "empty id",
			order:   Order{Status: StatusPending},
			wantErr: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.order.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTruckTooltip(t *testing.T) {
	tr := Truck{ID: "t1", Name: "Alpha", Capacity: 10000}
	assert.Equal(t, "Alpha (Max Capacity: 10000 kg)", tr.Tooltip())

	assert.NoError(t, tr.Validate())
	assert.Error(t, Truck{Name: "no id"}.Validate())
	assert.Error(t, Truck{ID: "t2", Name: "neg", Capacity: -1}.Validate())
}
