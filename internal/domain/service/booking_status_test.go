package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"eventhub/internal/domain/entity"
	"eventhub/pkg/errors"
)

func TestAuthorizeTransition(t *testing.T) {
	customer := Caller{ID: "cust-1", Role: entity.RoleCustomer}
	provider := Caller{ID: "prov-1", Role: entity.RoleServiceProvider}
	admin := Caller{ID: "admin-1", Role: entity.RoleAdmin}
	stranger := Caller{ID: "cust-2", Role: entity.RoleCustomer}
	otherProvider := Caller{ID: "prov-2", Role: entity.RoleServiceProvider}

	booking := func(status entity.BookingStatus) *entity.Booking {
		return &entity.Booking{ID: "b-1", CustomerID: "cust-1", ProviderID: "prov-1", Status: status}
	}

	tests := []struct {
		name     string
		caller   Caller
		from     entity.BookingStatus
		to       entity.BookingStatus
		wantCode string
	}{
		{"customer cancels pending", customer, entity.BookingPending, entity.BookingCancelled, ""},
		{"customer cancels confirmed", customer, entity.BookingConfirmed, entity.BookingCancelled, ""},
		{"customer cannot confirm", customer, entity.BookingPending, entity.BookingConfirmed, errors.CodeForbidden},
		{"customer cannot complete", customer, entity.BookingConfirmed, entity.BookingCompleted, errors.CodeForbidden},
		{"customer cannot cancel completed", customer, entity.BookingCompleted, entity.BookingCancelled, errors.CodeForbidden},
		{"customer cannot cancel rejected", customer, entity.BookingRejected, entity.BookingCancelled, errors.CodeForbidden},
		{"other customer cannot cancel", stranger, entity.BookingPending, entity.BookingCancelled, errors.CodeForbidden},

		{"provider confirms pending", provider, entity.BookingPending, entity.BookingConfirmed, ""},
		{"provider rejects pending", provider, entity.BookingPending, entity.BookingRejected, ""},
		{"provider completes confirmed", provider, entity.BookingConfirmed, entity.BookingCompleted, ""},
		{"provider cannot complete pending", provider, entity.BookingPending, entity.BookingCompleted, errors.CodeForbidden},
		{"provider cannot cancel", provider, entity.BookingPending, entity.BookingCancelled, errors.CodeForbidden},
		{"provider cannot reopen completed", provider, entity.BookingCompleted, entity.BookingConfirmed, errors.CodeForbidden},
		{"provider cannot reject confirmed", provider, entity.BookingConfirmed, entity.BookingRejected, errors.CodeForbidden},
		{"foreign provider cannot confirm", otherProvider, entity.BookingPending, entity.BookingConfirmed, errors.CodeForbidden},

		{"admin sets anything", admin, entity.BookingCompleted, entity.BookingPending, ""},
		{"admin cancels confirmed", admin, entity.BookingConfirmed, entity.BookingCancelled, ""},

		{"unknown status", admin, entity.BookingPending, entity.BookingStatus("archived"), errors.CodeBadRequest},
		{"unknown status for customer", customer, entity.BookingPending, entity.BookingStatus(""), errors.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeTransition(tt.caller, booking(tt.from), tt.to)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantCode), "got %v", err)
		})
	}
}
