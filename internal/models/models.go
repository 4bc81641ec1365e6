// Package models declares every persisted record type and builds the
// process-wide table of collection handles.
package models

import (
	"context"

	"adonix/internal/database"
)

// Models is the fixed table of collection handles, one per
// (domain, collection tag) pair. It is read-only once New returns.
type Models struct {
	Attendee struct {
		Metadata *database.Model[AttendeeMetadata]
		Profile  *database.Model[AttendeeProfile]
	}
	Auth struct {
		Roles *database.Model[AuthRoles]
	}
	Event struct {
		Metadata     *database.Model[EventMetadata]
		StaffEvents  *database.Model[Event]
		PublicEvents *database.Model[Event]
		Attendance   *database.Model[EventAttendance]
		Followers    *database.Model[EventFollowers]
	}
	Admission struct {
		Decision *database.Model[AdmissionDecision]
	}
	Newsletter struct {
		Subscriptions *database.Model[NewsletterSubscription]
	}
	Registration struct {
		Info *database.Model[RegistrationInfo]
	}
	Shop struct {
		Items *database.Model[ShopItem]
	}
	Staff struct {
		Shift *database.Model[StaffShift]
	}
	User struct {
		Info       *database.Model[UserInfo]
		Attendance *database.Model[UserAttendance]
	}

	registry *database.Registry
}

// New registers every collection on engine and returns the handle table.
// Any error is a startup configuration failure.
func New(ctx context.Context, engine database.Engine) (*Models, error) {
	r := database.NewRegistry(engine)
	m := &Models{registry: r}

	b := builder{ctx: ctx, r: r}
	m.Attendee.Metadata = register[AttendeeMetadata](&b, database.DomainAttendee, database.AttendeeMetadata, attendeeMetadataSchema)
	m.Attendee.Profile = register[AttendeeProfile](&b, database.DomainAttendee, database.AttendeeProfile, attendeeProfileSchema)
	m.Auth.Roles = register[AuthRoles](&b, database.DomainAuth, database.AuthRoles, authRolesSchema)
	m.Event.Metadata = register[EventMetadata](&b, database.DomainEvent, database.EventMetadata, eventMetadataSchema)
	m.Event.StaffEvents = register[Event](&b, database.DomainEvent, database.EventStaffEvents, eventSchema)
	m.Event.PublicEvents = register[Event](&b, database.DomainEvent, database.EventPublicEvents, eventSchema)
	m.Event.Attendance = register[EventAttendance](&b, database.DomainEvent, database.EventAttendance, eventAttendanceSchema)
	m.Event.Followers = register[EventFollowers](&b, database.DomainEvent, database.EventFollowers, eventFollowersSchema)
	m.Admission.Decision = register[AdmissionDecision](&b, database.DomainAdmission, database.AdmissionDecision, admissionDecisionSchema)
	m.Newsletter.Subscriptions = register[NewsletterSubscription](&b, database.DomainNewsletter, database.NewsletterSubscriptions, newsletterSubscriptionSchema)
	m.Registration.Info = register[RegistrationInfo](&b, database.DomainRegistration, database.RegistrationInfo, registrationInfoSchema)
	m.Shop.Items = register[ShopItem](&b, database.DomainShop, database.ShopItems, shopItemSchema)
	m.Staff.Shift = register[StaffShift](&b, database.DomainStaff, database.StaffShift, staffShiftSchema)
	m.User.Info = register[UserInfo](&b, database.DomainUser, database.UserInfo, userInfoSchema)
	m.User.Attendance = register[UserAttendance](&b, database.DomainUser, database.UserAttendance, userAttendanceSchema)

	if b.err != nil {
		return nil, b.err
	}
	return m, nil
}

// Identifiers lists the storage identifier of every registered collection.
func (m *Models) Identifiers() []database.Identifier {
	return m.registry.Identifiers()
}

// Engine returns the storage engine backing every handle.
func (m *Models) Engine() database.Engine {
	return m.registry.Engine()
}

// builder stops registering after the first failure so New reports one error.
type builder struct {
	ctx context.Context
	r   *database.Registry
	err error
}

func register[T any](b *builder, domain database.Domain, tag database.CollectionTag, schema database.Schema) *database.Model[T] {
	if b.err != nil {
		return nil
	}
	m, err := database.Register[T](b.ctx, b.r, domain, tag, schema)
	if err != nil {
		b.err = err
		return nil
	}
	return m
}
