package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adonix/internal/database"
	"adonix/internal/database/memory"
)

func TestNewRegistersEveryCollection(t *testing.T) {
	m, err := New(context.Background(), memory.New())
	require.NoError(t, err)

	assert.Equal(t, []database.Identifier{
		"admission_decision",
		"attendee_metadata",
		"attendee_profile",
		"auth_roles",
		"event_attendance",
		"event_followers",
		"event_metadata",
		"event_public_events",
		"event_staff_events",
		"newsletter_subscriptions",
		"registration_info",
		"shop_items",
		"staff_shift",
		"user_attendance",
		"user_info",
	}, m.Identifiers())
}

func TestIdentifiersArePairwiseDistinct(t *testing.T) {
	m, err := New(context.Background(), memory.New())
	require.NoError(t, err)

	handles := []database.Identifier{
		m.Attendee.Metadata.Identifier(),
		m.Attendee.Profile.Identifier(),
		m.Auth.Roles.Identifier(),
		m.Event.Metadata.Identifier(),
		m.Event.StaffEvents.Identifier(),
		m.Event.PublicEvents.Identifier(),
		m.Event.Attendance.Identifier(),
		m.Event.Followers.Identifier(),
		m.Admission.Decision.Identifier(),
		m.Newsletter.Subscriptions.Identifier(),
		m.Registration.Info.Identifier(),
		m.Shop.Items.Identifier(),
		m.Staff.Shift.Identifier(),
		m.User.Info.Identifier(),
		m.User.Attendance.Identifier(),
	}
	seen := make(map[database.Identifier]struct{}, len(handles))
	for _, id := range handles {
		_, dup := seen[id]
		assert.False(t, dup, "identifier %s assigned twice", id)
		seen[id] = struct{}{}
	}
}

func TestSameTagInDifferentDomainsStaysSeparate(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, memory.New())
	require.NoError(t, err)

	require.NoError(t, m.Event.Metadata.Upsert(ctx, "ev1", &EventMetadata{EventID: "ev1", Points: 5}))

	_, err = m.Attendee.Metadata.Find(ctx, "ev1")
	assert.Error(t, err)
	got, err := m.Event.Metadata.Find(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Points)
}

func TestStaffAndPublicEventsShareShapeNotStorage(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, memory.New())
	require.NoError(t, err)

	ev := &Event{
		EventID:   "ev1",
		Name:      "Opening Ceremony",
		Locations: []Location{{Description: "Siebel", Latitude: 40.11, Longitude: -88.22}},
		Display:   &EventDisplay{IsPro: true},
	}
	require.NoError(t, m.Event.StaffEvents.Upsert(ctx, "ev1", ev))

	got, err := m.Event.StaffEvents.Find(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, ev, got)

	_, err = m.Event.PublicEvents.Find(ctx, "ev1")
	assert.Error(t, err)
}

func TestNewSubscriptionsHandleAddsToSet(t *testing.T) {
	ctx := context.Background()
	m, err := New(ctx, memory.New())
	require.NoError(t, err)

	require.NoError(t, m.Newsletter.Subscriptions.AddToSet(ctx, "testingList", NewsletterSubscribersField, "a@b.com"))

	got, err := m.Newsletter.Subscriptions.Find(ctx, "testingList")
	require.NoError(t, err)
	assert.Equal(t, &NewsletterSubscription{ListID: "testingList", Subscribers: []string{"a@b.com"}}, got)
}

type failingEngine struct {
	*memory.Engine
	calls int
}

func (f *failingEngine) EnsureCollection(ctx context.Context, id database.Identifier, schema database.Schema) (database.Collection, error) {
	f.calls++
	if f.calls == 3 {
		return nil, errors.New("quota exceeded")
	}
	return f.Engine.EnsureCollection(ctx, id, schema)
}

func TestNewAbortsOnFirstFailure(t *testing.T) {
	engine := &failingEngine{Engine: memory.New()}

	m, err := New(context.Background(), engine)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 3, engine.calls, "registration stops at the failing collection")
}
