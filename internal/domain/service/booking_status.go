package service

import (
	"eventhub/internal/domain/entity"
	"eventhub/pkg/errors"
)

// providerTransitions lists the moves a booking's provider may make.
var providerTransitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingPending:   {entity.BookingConfirmed, entity.BookingRejected},
	entity.BookingConfirmed: {entity.BookingCompleted},
}

// AuthorizeTransition decides whether caller may move booking to next.
//
//	customer (owner): any non-terminal status -> cancelled
//	provider (owner): pending -> confirmed|rejected, confirmed -> completed
//	admin:            anything
func AuthorizeTransition(caller Caller, booking *entity.Booking, next entity.BookingStatus) error {
	if _, ok := entity.ParseBookingStatus(string(next)); !ok {
		return errors.BadRequest("Invalid booking status: "+string(next), nil)
	}

	switch caller.Role {
	case entity.RoleAdmin:
		return nil

	case entity.RoleCustomer:
		if booking.CustomerID != caller.ID {
			return errors.Forbidden("You are not allowed to update this booking", nil)
		}
		if next != entity.BookingCancelled {
			return errors.Forbidden("Customers can only cancel bookings", nil)
		}
		if booking.Status.IsTerminal() {
			return errors.Forbidden("Booking is already "+string(booking.Status), nil)
		}
		return nil

	case entity.RoleServiceProvider:
		if booking.ProviderID != caller.ID {
			return errors.Forbidden("You are not allowed to update this booking", nil)
		}
		for _, allowed := range providerTransitions[booking.Status] {
			if allowed == next {
				return nil
			}
		}
		return errors.Forbidden("Cannot change booking status from "+string(booking.Status)+" to "+string(next), nil)
	}

	return errors.Forbidden("You are not allowed to update this booking", nil)
}
