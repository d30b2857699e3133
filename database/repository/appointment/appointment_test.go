package appointmentRepo

import (
	"context"
	"errors"
	"testing"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newAppointment(id, date, slot string) *models.Appointment {
	return &models.Appointment{
		ID: id,
		BookingRequest: models.BookingRequest{
			ProviderID:      "1",
			ProviderName:    "Dr. Sarah Wilson",
			Date:            date,
			Time:            slot,
			AppointmentType: "Consultation",
			ClientID:        "client-1",
			ClientName:      "Jane Doe",
			Status:          models.StatusConfirmed,
		},
	}
}

func TestMemoryRepoSaveRejectsTakenSlot(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newAppointment("a1", "2024-01-15", "09:00")))
	err := repo.Save(ctx, newAppointment("a2", "2024-01-15", "09:00"))
	assert.True(t, errors.Is(err, ErrStaleSlot))

	_, err = repo.GetByID(ctx, "a2")
	assert.True(t, errors.Is(err, ErrAppointmentNotFound))
}

func TestMemoryRepoCancelFreesSlot(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newAppointment("a1", "2024-01-15", "09:00")))
	updated, err := repo.UpdateStatus(ctx, "a1", models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)

	require.NoError(t, repo.Save(ctx, newAppointment("a2", "2024-01-15", "09:00")))

	// Reinstating the cancelled appointment now collides with a2.
	_, err = repo.UpdateStatus(ctx, "a1", models.StatusConfirmed)
	assert.True(t, errors.Is(err, ErrStaleSlot))

	_, err = repo.UpdateStatus(ctx, "a2", models.StatusCompleted)
	require.NoError(t, err)

	_, err = repo.UpdateStatus(ctx, "missing", models.StatusCompleted)
	assert.True(t, errors.Is(err, ErrAppointmentNotFound))
}

func TestMemoryRepoListSortedAndFiltered(t *testing.T) {
	repo := NewMemoryAppointmentRepo()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newAppointment("late", "2024-01-16", "09:00")))
	require.NoError(t, repo.Save(ctx, newAppointment("early", "2024-01-15", "14:30")))
	require.NoError(t, repo.Save(ctx, newAppointment("earliest", "2024-01-15", "09:30")))
	other := newAppointment("other", "2024-01-15", "10:00")
	other.ClientID = "client-2"
	other.ProviderID = "2"
	require.NoError(t, repo.Save(ctx, other))

	got, err := repo.List(ctx, AppointmentFilter{ClientID: "client-1"})
	require.NoError(t, err)
	var ids []string
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"earliest", "early", "late"}, ids)

	got, err = repo.List(ctx, AppointmentFilter{ProviderID: "2"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "other", got[0].ID)
}

func TestMongoAppointmentRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		appt := newAppointment("a1", "2024-01-15", "09:00")
		require.NoError(mt, repo.Save(context.Background(), appt))
		assert.Equal(mt, "1|2024-01-15|09:00", appt.SlotKey)
		assert.False(mt, appt.CreatedAt.IsZero())
	})

	mt.Run("save duplicate slot", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Save(context.Background(), newAppointment("a2", "2024-01-15", "09:00"))
		assert.True(mt, errors.Is(err, ErrStaleSlot))
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "medconnect.appointments", mtest.FirstBatch,
			bson.D{{Key: "id", Value: "a1"}, {Key: "date", Value: "2024-01-15"}, {Key: "time", Value: "09:00"}, {Key: "type", Value: "Check-up"}},
			bson.D{{Key: "id", Value: "a2"}, {Key: "date", Value: "2024-01-16"}, {Key: "time", Value: "10:00"}},
		))

		got, err := repo.List(context.Background(), AppointmentFilter{ClientID: "client-1"})
		require.NoError(mt, err)
		require.Len(mt, got, 2)
		assert.Equal(mt, "Check-up", got[0].AppointmentType)
		assert.Equal(mt, "a2", got[1].ID)
	})

	mt.Run("cancel", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepoWithCollection(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "medconnect.appointments", mtest.FirstBatch,
				bson.D{{Key: "id", Value: "a1"}, {Key: "providerId", Value: "1"}, {Key: "date", Value: "2024-01-15"}, {Key: "time", Value: "09:00"}, {Key: "status", Value: "confirmed"}}),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
				{Key: "id", Value: "a1"},
				{Key: "providerId", Value: "1"},
				{Key: "date", Value: "2024-01-15"},
				{Key: "time", Value: "09:00"},
				{Key: "status", Value: "cancelled"},
			}}),
		)

		updated, err := repo.UpdateStatus(context.Background(), "a1", models.StatusCancelled)
		require.NoError(mt, err)
		assert.Equal(mt, models.StatusCancelled, updated.Status)
		assert.Empty(mt, updated.SlotKey)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		repo := NewMongoAppointmentRepoWithCollection(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "medconnect.appointments", mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "nope")
		assert.True(mt, errors.Is(err, ErrAppointmentNotFound))
	})
}
