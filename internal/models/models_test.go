package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleMarketer, ParseRole(" Marketer "))
	assert.Equal(t, RoleDoctor, ParseRole("doctor"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("superuser"))
}

func TestRole_UnmarshalJSON(t *testing.T) {
	var sess Session
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"role":"ADMIN"}`), &sess))
	assert.Equal(t, RoleAdmin, sess.Role)
	require.NotNil(t, sess.ID)
	assert.Equal(t, 3, *sess.ID)

	sess = Session{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"role":null}`), &sess))
	assert.Equal(t, RoleUser, sess.Role)

	sess = Session{}
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"role":42}`), &sess))
	assert.Equal(t, RoleUser, sess.Role)
}

func TestGuest(t *testing.T) {
	g := Guest()
	assert.True(t, g.IsGuest())
	assert.Equal(t, RoleUser, g.Role)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	for _, in := range []string{
		"2025-03-14 09:30:00",
		"2025-03-14T09:30:00",
		"2025-03-14T09:30:00Z",
		"2025-03-14T09:30:00.000000",
	} {
		ts, ok := ParseTimestamp(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(ts.Time), in)
	}

	_, ok := ParseTimestamp("yesterday")
	assert.False(t, ok)
}

func TestTimestamp_JSON(t *testing.T) {
	var v Visit
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"visit_date":"not a date"}`), &v))
	assert.True(t, v.VisitDate.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"visit_date":null}`), &v))
	assert.True(t, v.VisitDate.IsZero())

	v.VisitDate = NewTimestamp(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"visit_date":"2025-01-02 03:04:05"`)
}

func TestCategoryIDByName(t *testing.T) {
	cats := []Category{{ID: 1, Name: "Vaccines"}, {ID: 2, Name: "Syringes"}}

	id, ok := CategoryIDByName(cats, "syringes ")
	assert.True(t, ok)
	assert.Equal(t, 2, id)

	_, ok = CategoryIDByName(cats, "Gloves")
	assert.False(t, ok)
}
