package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)

	t.Run("defaults to unread normal priority", func(t *testing.T) {
		n, err := New(id.NewNotificationID(), id.NewUserID(), " hello ", TypeInfo, "", Refs{}, now)
		require.NoError(t, err)
		assert.Equal(t, "hello", n.Message)
		assert.Equal(t, PriorityNormal, n.Priority)
		assert.False(t, n.Read)
		assert.True(t, n.Refs.ListingID.IsNil())
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := New(id.NewNotificationID(), id.NewUserID(), "hello", Type("Urgent"), PriorityHigh, Refs{}, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("requires recipient and message", func(t *testing.T) {
		_, err := New(id.NewNotificationID(), id.UserID{}, "hello", TypeInfo, PriorityHigh, Refs{}, now)
		assert.Error(t, err)
		_, err = New(id.NewNotificationID(), id.NewUserID(), "  ", TypeInfo, PriorityHigh, Refs{}, now)
		assert.Error(t, err)
	})
}
