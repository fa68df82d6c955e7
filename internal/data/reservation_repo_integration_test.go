package data_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitnova/fitnova-ui-api/internal/data"
	domainauth "github.com/fitnova/fitnova-ui-api/internal/domain/auth"
	"github.com/fitnova/fitnova-ui-api/internal/domain/model"
	"github.com/fitnova/fitnova-ui-api/internal/testutil"
)

// seedSession inserts a member, an instructor, a workout with the given
// capacity, and one upcoming session. Returns the member and session IDs.
func seedSession(t *testing.T, db *sql.DB, capacity int) (string, string) {
	t.Helper()
	member := testutil.InsertUser(t, db, testutil.NewUser().Build())
	instructor := testutil.InsertUser(t, db, testutil.NewUser().
		WithEmail("coach@example.com").
		WithRole(domainauth.RoleInstructor).
		Build())
	workout := testutil.InsertWorkout(t, db, testutil.NewWorkout(instructor).
		WithCapacity(capacity).
		Build())
	session := testutil.InsertWorkoutSession(t, db, workout, time.Now().Add(24*time.Hour))
	return member, session
}

func TestReservationRepoIntegrationBookAndList(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := data.NewReservationRepo(db)
		ctx := context.Background()
		member, session := seedSession(t, db, 5)

		res, err := repo.Create(ctx, member, session)
		require.NoError(t, err)
		assert.Equal(t, model.ReservationConfirmed, res.Status)
		assert.Equal(t, member, res.MemberID)

		list, err := repo.ListByMember(ctx, member)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, res.ID, list[0].ID)
	})
}

func TestReservationRepoIntegrationDoubleBooking(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := data.NewReservationRepo(db)
		ctx := context.Background()
		member, session := seedSession(t, db, 5)

		_, err := repo.Create(ctx, member, session)
		require.NoError(t, err)

		_, err = repo.Create(ctx, member, session)
		assert.ErrorIs(t, err, data.ErrAlreadyReserved)

		// Cancelling releases the slot for a fresh booking.
		list, err := repo.ListByMember(ctx, member)
		require.NoError(t, err)
		require.NoError(t, repo.Cancel(ctx, member, list[0].ID))

		_, err = repo.Create(ctx, member, session)
		assert.NoError(t, err)
	})
}

func TestReservationRepoIntegrationCapacity(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := data.NewReservationRepo(db)
		ctx := context.Background()
		member, session := seedSession(t, db, 1)

		_, err := repo.Create(ctx, member, session)
		require.NoError(t, err)

		other := testutil.InsertUser(t, db, testutil.NewUser().
			WithEmail("second@example.com").
			Build())
		_, err = repo.Create(ctx, other, session)
		assert.ErrorIs(t, err, data.ErrSessionFull)
	})
}

func TestReservationRepoIntegrationConcurrentBookingsRespectCapacity(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := data.NewReservationRepo(db)
		ctx := context.Background()

		const capacity = 3
		_, session := seedSession(t, db, capacity)

		members := make([]string, 6)
		for i := range members {
			members[i] = testutil.InsertUser(t, db, testutil.NewUser().
				WithEmail(fmt.Sprintf("racer%d@example.com", i)).
				Build())
		}

		var wg sync.WaitGroup
		errs := make([]error, len(members))
		for i, m := range members {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = repo.Create(ctx, m, session)
			}()
		}
		wg.Wait()

		booked := 0
		for _, err := range errs {
			if err == nil {
				booked++
			} else {
				assert.ErrorIs(t, err, data.ErrSessionFull)
			}
		}
		assert.Equal(t, capacity, booked)
	})
}

func TestReservationRepoIntegrationCancelScope(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := data.NewReservationRepo(db)
		ctx := context.Background()
		member, session := seedSession(t, db, 5)

		res, err := repo.Create(ctx, member, session)
		require.NoError(t, err)

		other := testutil.InsertUser(t, db, testutil.NewUser().
			WithEmail("other@example.com").
			Build())
		assert.ErrorIs(t, repo.Cancel(ctx, other, res.ID), data.ErrReservationNotFound,
			"a member cannot cancel someone else's booking")

		require.NoError(t, repo.Cancel(ctx, member, res.ID))
		assert.ErrorIs(t, repo.Cancel(ctx, member, res.ID), data.ErrReservationNotFound,
			"a cancelled booking cannot be cancelled again")
	})
}

func TestReservationRepoIntegrationUnknownSession(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := data.NewReservationRepo(db)
		member := testutil.InsertUser(t, db, testutil.NewUser().Build())

		_, err := repo.Create(context.Background(), member, uuid.NewString())
		assert.ErrorIs(t, err, data.ErrSessionNotFound)
	})
}
