package database

// Domain is a fixed top-level namespace for related collections.
type Domain string

const (
	DomainAttendee     Domain = "attendee"
	DomainAuth         Domain = "auth"
	DomainEvent        Domain = "event"
	DomainAdmission    Domain = "admission"
	DomainNewsletter   Domain = "newsletter"
	DomainRegistration Domain = "registration"
	DomainShop         Domain = "shop"
	DomainStaff        Domain = "staff"
	DomainUser         Domain = "user"
)

var knownDomains = map[Domain]struct{}{
	DomainAttendee:     {},
	DomainAuth:         {},
	DomainEvent:        {},
	DomainAdmission:    {},
	DomainNewsletter:   {},
	DomainRegistration: {},
	DomainShop:         {},
	DomainStaff:        {},
	DomainUser:         {},
}

// Valid reports whether d is one of the enumerated domains.
func (d Domain) Valid() bool {
	_, ok := knownDomains[d]
	return ok
}

func (d Domain) String() string {
	return string(d)
}

// CollectionTag names a record type within a Domain.
type CollectionTag string

// Collection tags, grouped by owning domain.
const (
	AttendeeMetadata CollectionTag = "metadata"
	AttendeeProfile  CollectionTag = "profile"

	AuthRoles CollectionTag = "roles"

	EventMetadata     CollectionTag = "metadata"
	EventStaffEvents  CollectionTag = "staff_events"
	EventPublicEvents CollectionTag = "public_events"
	EventAttendance   CollectionTag = "attendance"
	EventFollowers    CollectionTag = "followers"

	AdmissionDecision CollectionTag = "decision"

	NewsletterSubscriptions CollectionTag = "subscriptions"

	RegistrationInfo CollectionTag = "info"

	ShopItems CollectionTag = "items"

	StaffShift CollectionTag = "shift"

	UserInfo       CollectionTag = "info"
	UserAttendance CollectionTag = "attendance"
)

func (t CollectionTag) String() string {
	return string(t)
}

// Identifier is the storage-level name of a collection. Only the registry
// derives identifiers; engines receive them ready-made.
type Identifier string

// Separator joins a domain and a collection tag into an Identifier.
const Separator = "_"

func (id Identifier) String() string {
	return string(id)
}

func identifierFor(d Domain, tag CollectionTag) Identifier {
	return Identifier(string(d) + Separator + string(tag))
}
