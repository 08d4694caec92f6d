package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2022-03-15", "2022-03-15"},
		{" 2024-02-29 ", "2024-02-29"},
		{"15/03/2022", "2022-03-15"},
		{"5-3-2022", "2022-03-05"},
		{"1/12/1999", "1999-12-01"},
		{"15 mars 2022", "2022-03-15"},
		{"le 1er août 2020", "2020-08-01"},
		{"March 15, 2022", "2022-03-15"},
		{"2022/03/15", "2022-03-15"},
	}
	for _, tc := range cases {
		out := NormalizeDate(tc.in)
		require.False(t, out.Rejected(), "in=%q", tc.in)
		require.Equal(t, tc.want, out.Value, "in=%q", tc.in)
	}
}

func TestNormalizeDate_Rejections(t *testing.T) {
	for _, in := range []string{"", "31/02/2022", "2022-02-30", "2023-02-29", "13/13/2020", "0/1/2020", "hier", "2022-3-15x", "15/03/22"} {
		out := NormalizeDate(in)
		require.True(t, out.Rejected(), "in=%q", in)
		require.Equal(t, msgDateFormat, out.Message)
	}
}

func TestNormalizeDate_ISORoundTrip(t *testing.T) {
	for _, in := range []string{"1970-01-01", "1999-12-31", "2000-02-29", "2022-03-15", "2030-07-04"} {
		out := NormalizeDate(in)
		require.False(t, out.Rejected())
		require.Equal(t, in, out.Value)
	}
}

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"450000", 450000},
		{"450 000 $", 450000},
		{"450 000,00 $", 450000},
		{"$1,250,000.75", 1250000.75},
		{"1.250.000,75 €", 1250000.75},
		{"1,500", 1500},
		{"12,5", 12.5},
		{"1.234.567", 1234567},
		{"environ 300000", 300000},
		{"0", 0},
	}
	for _, tc := range cases {
		out := NormalizeAmount(tc.in, false)
		require.False(t, out.Rejected(), "in=%q", tc.in)
		require.InDelta(t, tc.want, out.Value, 1e-9, "in=%q", tc.in)
	}
}

func TestNormalizeAmount_Rejections(t *testing.T) {
	out := NormalizeAmount("-5", false)
	require.True(t, out.Rejected())
	require.Equal(t, msgAmountNeg, out.Message)

	for _, in := range []string{"", "abc", "$", "-", "."} {
		out := NormalizeAmount(in, false)
		require.True(t, out.Rejected(), "in=%q", in)
		require.Equal(t, msgAmountFormat, out.Message, "in=%q", in)
	}
}

func TestNormalizeAmount_RejectsOversizedAmounts(t *testing.T) {
	for _, in := range []string{strings.Repeat("9", 200), "100 000 000 000 000 000 000", "2 000 000 000 000 000 $"} {
		out := NormalizeAmount(in, false)
		require.True(t, out.Rejected(), "in=%q", in)
		require.Equal(t, msgAmountLarge, out.Message, "in=%q", in)
	}
	require.True(t, NormalizeAmount("-"+strings.Repeat("9", 30), true).Rejected())

	out := NormalizeAmount("1000000000000000", false)
	require.False(t, out.Rejected())
	require.InDelta(t, MaxAmount, out.Value, 1e-9)
}

func TestNormalizeAmount_AllowNegative(t *testing.T) {
	out := NormalizeAmount("-1 200,50", true)
	require.False(t, out.Rejected())
	require.InDelta(t, -1200.5, out.Value, 1e-9)
}

func TestNormalizeText(t *testing.T) {
	out := NormalizeText("  Duplex Ontario ", true, MaxNameLength)
	require.False(t, out.Rejected())
	require.Equal(t, "Duplex Ontario", out.Value)

	require.True(t, NormalizeText("   ", true, MaxNameLength).Rejected())
	require.True(t, NormalizeText("skip", true, MaxNameLength).Rejected())

	out = NormalizeText("   ", false, MaxNotesLength)
	require.False(t, out.Rejected())
	require.Nil(t, out.Value)
}

func TestNormalizeText_MaxLength(t *testing.T) {
	atLimit := strings.Repeat("é", MaxNameLength)
	out := NormalizeText(" "+atLimit+" ", true, MaxNameLength)
	require.False(t, out.Rejected())
	require.Equal(t, atLimit, out.Value)

	out = NormalizeText(strings.Repeat("a", 250), true, MaxNameLength)
	require.True(t, out.Rejected())
	require.Contains(t, out.Message, "200")

	out = NormalizeText(strings.Repeat("a", 5000), false, 0)
	require.False(t, out.Rejected())
}

func TestNormalizeChoice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plex", "plex"},
		{"Triplex", "plex"},
		{"MAISON", "house"},
		{" chalet ", "cottage"},
		{"Condo", "condo"},
		{"copropriété", "condo"},
		{"terrain", "land"},
	}
	for _, tc := range cases {
		out := NormalizeChoice(tc.in, PropertyTypes)
		require.False(t, out.Rejected(), "in=%q", tc.in)
		require.Equal(t, tc.want, out.Value, "in=%q", tc.in)
	}

	out := NormalizeChoice("bateau", PropertyTypes)
	require.True(t, out.Rejected())
	require.Contains(t, out.Message, "Plex, Condo, Maison, Chalet, Commercial, Terrain")
}

func TestOutcomeConstructors(t *testing.T) {
	require.False(t, Accept(1.0).Rejected())
	require.Equal(t, "ok", AcceptWithNote("v", "ok").Note)
	omitted := Omit("vide")
	require.False(t, omitted.Rejected())
	require.Nil(t, omitted.Value)
	require.Equal(t, "vide", omitted.Note)
	require.True(t, Reject("non").Rejected())
}
