package parcel_test

import (
	"testing"

	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "EN TRANSIT", parcel.InTransit.String())
	assert.Equal(t, "EN COURS DE LIVRAISON", parcel.InDelivery.String())
	assert.Equal(t, "RETOUR", parcel.Returned.String())
	assert.Equal(t, "UNKNOWN", parcel.Status(42).String())
}

func TestStatusFromString(t *testing.T) {
	for _, s := range parcel.Statuses() {
		got, err := parcel.StatusFromString(s.String())

		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := parcel.StatusFromString("LIVRE")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    parcel.Status
		apply   func(parcel.Status) (parcel.Status, error)
		want    parcel.Status
		wantErr bool
	}{
		{name: "claim from transit", from: parcel.InTransit, apply: parcel.Status.Claim, want: parcel.InDelivery},
		{name: "claim from delivery", from: parcel.InDelivery, apply: parcel.Status.Claim, wantErr: true},
		{name: "claim from returned", from: parcel.Returned, apply: parcel.Status.Claim, wantErr: true},
		{name: "release from delivery", from: parcel.InDelivery, apply: parcel.Status.Release, want: parcel.InTransit},
		{name: "release from transit", from: parcel.InTransit, apply: parcel.Status.Release, wantErr: true},
		{name: "return from transit", from: parcel.InTransit, apply: parcel.Status.Return, want: parcel.Returned},
		{name: "return from delivery", from: parcel.InDelivery, apply: parcel.Status.Return, wantErr: true},
		{name: "return from unknown", from: parcel.Unknown, apply: parcel.Status.Return, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.apply(tt.from)

			if tt.wantErr {
				require.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatus_ValidateCanHavePickup(t *testing.T) {
	require.NoError(t, parcel.InDelivery.ValidateCanHavePickup(true))
	require.NoError(t, parcel.InTransit.ValidateCanHavePickup(false))
	require.NoError(t, parcel.Returned.ValidateCanHavePickup(false))
	require.Error(t, parcel.InDelivery.ValidateCanHavePickup(false))
	require.Error(t, parcel.Returned.ValidateCanHavePickup(true))
}
