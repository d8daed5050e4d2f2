package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"PREMIUM", CategoryPremium, true},
		{"STANDARD", CategoryStandard, true},
		{"BAR", CategoryBar, true},
		{"premium", CategoryPremium, true},
		{"  Bar  ", CategoryBar, true},
		{"", "", false},
		{"VIP", "", false},
		{"STANDARDISH", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			require.Equal(t, tc.want, got)
		} else {
			require.ErrorIs(t, err, ErrInvalidCategory, "input %q", tc.in)
		}
	}
}

func TestHasBooking(t *testing.T) {
	u := &User{
		Tickets: []Ticket{
			{ID: "a", EventID: 7, Place: 12, Category: CategoryPremium},
			{ID: "b", EventID: 7, Place: 13, Category: CategoryPremium},
		},
	}

	require.True(t, u.HasBooking(7, 12, CategoryPremium))
	require.False(t, u.HasBooking(7, 12, CategoryBar), "same place, different category")
	require.False(t, u.HasBooking(8, 12, CategoryPremium), "different event")
	require.False(t, u.HasBooking(7, 14, CategoryPremium), "different place")

	var empty User
	require.False(t, empty.HasBooking(7, 12, CategoryPremium))
}
