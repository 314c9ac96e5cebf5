package models

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVisibility(t *testing.T) {
	cases := []struct {
		raw     string
		want    Visibility
		wantErr bool
	}{
		{"", VisibilityPrivate, false},
		{"private", VisibilityPrivate, false},
		{"  Shared ", VisibilityShared, false},
		{"PUBLIC", VisibilityPublic, false},
		{"secret", "", true},
		{"friends-only", "", true},
	}

	for _, tc := range cases {
		got, err := ParseVisibility(tc.raw)
		if tc.wantErr {
			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr, "raw %q", tc.raw)
			assert.Equal(t, http.StatusBadRequest, statusErr.Code)
			continue
		}
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.want, got)
	}
}

func TestParseNodeType(t *testing.T) {
	cases := []struct {
		raw     string
		want    NodeType
		wantErr bool
	}{
		{"", NodeTypeCustom, false},
		{"person", NodeTypePerson, false},
		{" ORG ", NodeTypeOrg, false},
		{"place", NodeTypePlace, false},
		{"event", NodeTypeEvent, false},
		{"custom", NodeTypeCustom, false},
		{"alien", "", true},
	}

	for _, tc := range cases {
		got, err := ParseNodeType(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, "raw %q", tc.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tc.raw)
		assert.Equal(t, tc.want, got)
	}
}

func TestValidTodoStatus(t *testing.T) {
	assert.True(t, ValidTodoStatus(TodoStatusPending))
	assert.True(t, ValidTodoStatus(TodoStatusInProgress))
	assert.True(t, ValidTodoStatus(TodoStatusCompleted))
	assert.False(t, ValidTodoStatus("pending"), "the board statuses are case-sensitive")
	assert.False(t, ValidTodoStatus("Done"))
}
