package entities

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMessageDropsWrappingContext(t *testing.T) {
	wrapped := fmt.Errorf("load team: %w", ErrTeamNotFound)
	require.Equal(t, "team not found", Message(wrapped))
	require.ErrorIs(t, wrapped, ErrNotFound)

	twice := fmt.Errorf("delete: %w", fmt.Errorf("lock: %w", ErrLastAdmin))
	require.Equal(t, "cannot remove the last admin from the team", Message(twice))

	require.Equal(t, "assigned user is not a member of this team", Message(ErrAssigneeNotMember))
	require.Equal(t, "boom", Message(errors.New("boom")))
}

func TestSentinelKinds(t *testing.T) {
	require.ErrorIs(t, ErrWrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, ErrAssigneeNotMember, ErrInvalidArgument)
	require.ErrorIs(t, ErrCreatorRemoval, ErrConflict)
	require.ErrorIs(t, ErrProfileDenied, ErrForbidden)
	require.ErrorIs(t, NewValidationError("role", "bad"), ErrInvalidArgument)
}
