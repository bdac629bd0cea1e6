package sales

import (
	"testing"
	"time"

	"github.com/erp/platform/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(uuid.New(), ClientDetails{Name: "Globex", Email: "Info@Globex.com", Tags: []string{"VIP", "vip ", ""}})
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	c := createTestClient(t)
	assert.Equal(t, ClientTypeCompany, c.ClientType)
	assert.Equal(t, ClientStatusLead, c.Status)
	assert.Equal(t, "info@globex.com", c.Email)
	assert.Equal(t, []string{"vip"}, c.Tags)

	_, err := NewClient(uuid.New(), ClientDetails{})
	assert.True(t, shared.IsValidation(err))

	ind, err := NewClient(uuid.New(), ClientDetails{ClientType: ClientTypeIndividual, Email: "bob@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "bob@x.io", ind.DisplayName(nil))
	assert.Equal(t, "Bob Stone", ind.DisplayName(&Contact{FirstName: "Bob", LastName: "Stone"}))
}

func TestClient_Lifecycle(t *testing.T) {
	c := createTestClient(t)
	require.NoError(t, c.Activate())
	assert.Error(t, c.Activate())

	assert.True(t, shared.IsValidation(c.Update(ClientDetails{Name: "Globex", Status: ClientStatusArchived})))

	require.NoError(t, c.Archive())
	assert.True(t, shared.HasCode(c.Update(ClientDetails{Name: "New"}), "INVALID_STATE"))
	assert.Error(t, c.Archive())

	_, err := NewContact(c, ContactDetails{FirstName: "Hank"})
	assert.Error(t, err)
}

func TestContact(t *testing.T) {
	c := createTestClient(t)
	contact, err := NewContact(c, ContactDetails{FirstName: "Hank", LastName: "Scorpio", Email: "HANK@globex.com", IsPrimary: true})
	require.NoError(t, err)
	assert.Equal(t, "Hank Scorpio", contact.FullName())
	assert.Equal(t, c.TenantID, contact.TenantID)
	assert.True(t, contact.IsPrimary)

	assert.True(t, shared.IsValidation(contact.Update(ContactDetails{FirstName: "Hank", Email: "nope"})))
}

func TestClientInteraction(t *testing.T) {
	c := createTestClient(t)
	contact, err := NewContact(c, ContactDetails{FirstName: "Hank"})
	require.NoError(t, err)
	now := time.Now()
	later := now.Add(48 * time.Hour)

	t.Run("appointment needs schedule", func(t *testing.T) {
		_, err := NewClientInteraction(c, contact, InteractionInput{InteractionType: InteractionTypeAppointment, Subject: "Demo"}, uuid.New())
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("contact from another client", func(t *testing.T) {
		other, err := NewContact(createTestClient(t), ContactDetails{FirstName: "X"})
		require.NoError(t, err)
		_, err = NewClientInteraction(c, other, InteractionInput{InteractionType: InteractionTypeCall, Subject: "Hi"}, uuid.New())
		assert.True(t, shared.IsValidation(err))
	})

	t.Run("reminder only for future appointments", func(t *testing.T) {
		appt, err := NewClientInteraction(c, contact, InteractionInput{
			InteractionType: InteractionTypeAppointment, Subject: "Demo", ScheduledAt: &later, DurationMinutes: 90,
		}, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, contact.ID, *appt.ContactID)
		assert.Equal(t, "1h 30m", appt.DurationDisplay())
		assert.NoError(t, appt.CanRemind(now))
		assert.True(t, shared.HasCode(appt.CanRemind(later.Add(time.Minute)), "APPOINTMENT_PASSED"))

		call, err := NewClientInteraction(c, nil, InteractionInput{InteractionType: InteractionTypeCall, Subject: "Hi"}, uuid.New())
		require.NoError(t, err)
		assert.True(t, shared.HasCode(call.CanRemind(now), "NOT_AN_APPOINTMENT"))
		assert.False(t, call.OccurredAt.IsZero())
	})
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "", FormatDuration(0))
	assert.Equal(t, "45m", FormatDuration(45))
	assert.Equal(t, "2h", FormatDuration(120))
	assert.Equal(t, "1h 5m", FormatDuration(65))
}
