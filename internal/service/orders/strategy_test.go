package orders

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func TestValidateByContext(t *testing.T) {
	f := newFixture(t)
	at := fixedNow.Add(2 * time.Hour)

	cases := []struct {
		name   string
		typ    model.OrderType
		fields model.OrderFields
		vc     model.ValidationContext
		errs   []string
	}{
		{"dine-in draft may be empty", model.OrderTypeDineIn, model.OrderFields{}, model.ValidateDraft, nil},
		{"dine-in fire needs table and guests", model.OrderTypeDineIn, model.OrderFields{ItemCount: 1}, model.ValidateFire,
			[]string{"table_id is required for dine-in orders", "guest_count is required for dine-in orders"}},
		{"dine-in guest count positive", model.OrderTypeDineIn, model.OrderFields{GuestCount: ptr(0)}, model.ValidateDraft,
			[]string{"guest_count must be at least 1"}},
		{"takeaway fire needs items", model.OrderTypeTakeaway, model.OrderFields{}, model.ValidateFire,
			[]string{"order must contain at least one item"}},
		{"delivery fire needs address and phone", model.OrderTypeDelivery, model.OrderFields{ItemCount: 2, DeliveryAddress: ptr("  ")}, model.ValidateFire,
			[]string{"delivery_address is required for delivery orders", "customer_phone is required for delivery orders"}},
		{"delivery draft is lenient", model.OrderTypeDelivery, model.OrderFields{}, model.ValidateDraft, nil},
		{"reservation fire needs time", model.OrderTypeReservation, model.OrderFields{ItemCount: 1}, model.ValidateFire,
			[]string{"reservation_time is required for reservation orders"}},
		{"reservation complete", model.OrderTypeReservation, model.OrderFields{ItemCount: 1, ReservationTime: &at}, model.ValidateFire, nil},
		{"reservation arrival status", model.OrderTypeReservation, model.OrderFields{ArrivalStatus: ptr("LATE")}, model.ValidateDraft,
			[]string{"arrival_status must be one of PENDING, ARRIVED, NO_SHOW"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := f.coord.Factory().For(tc.typ)
			require.NoError(t, err)
			res := s.Validate(tc.fields, tc.vc)
			assert.Equal(t, len(tc.errs) == 0, res.Valid)
			assert.Equal(t, tc.errs, res.Errors)
		})
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory(NewReservationStrategy(nil))
	s, err := f.For(model.OrderTypeReservation)
	require.NoError(t, err)
	assert.Equal(t, model.OrderTypeReservation, s.Type())

	_, err = f.For(model.OrderTypeDineIn)
	var ue *UnsupportedTypeError
	require.True(t, errors.As(err, &ue))
	assert.EqualError(t, err, `unsupported order type "DINE_IN"`)
}

func TestDomainErrorsPassThrough(t *testing.T) {
	assert.True(t, isDomainError(invalid("x")))
	assert.True(t, isDomainError(errors.Wrap(ErrOrderNotFound, "load")))
	assert.True(t, isDomainError(&TransitionError{From: model.OrderStatusPaid}))
	assert.False(t, isDomainError(errors.New("disk full")))

	err := &TransitionError{From: model.OrderStatusPaid, To: model.OrderStatusDraft, Reason: "order is closed"}
	assert.EqualError(t, err, "cannot move order from PAID to DRAFT: order is closed")
}
